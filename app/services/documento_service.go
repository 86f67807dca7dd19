package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/models"
	"github.com/empresa-normalizer/internal/backend"
	"github.com/empresa-normalizer/internal/normalizer"
)

// chamada busca em voo para uma chave de documento
type chamada struct {
	done    chan struct{}
	listing *models.DocumentoListing
	err     error
}

// DocumentoService listagens de PDFs por documento com política de no máximo
// uma busca pendente por chave: estados ausente → carregando → resolvido.
// Uma consulta concorrente durante "carregando" reutiliza o resultado em voo.
// Não há invalidação por timer; apenas o refresh forçado pós-emissão.
type DocumentoService struct {
	backend *backend.Client
	cache   ICacheService
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]*chamada
}

// NewDocumentoService cria o serviço de documentos
func NewDocumentoService(client *backend.Client, cache ICacheService, logger *zap.Logger) *DocumentoService {
	return &DocumentoService{
		backend:  client,
		cache:    cache,
		inflight: make(map[string]*chamada),
		logger:   logger,
	}
}

// Lookup resolve a listagem do documento: cache → busca em voo → backend.
// Cada chave transiciona de forma independente; não há lock entre chaves.
func (ds *DocumentoService) Lookup(ctx context.Context, documento, token string) (*models.DocumentoListing, error) {
	key := normalizer.Digits(documento)
	if key == "" {
		return nil, fmt.Errorf("documento inválido: %q", documento)
	}

	// resolvido
	if listing, found, err := ds.cache.Get(ctx, key); err == nil && found {
		return listing, nil
	}

	ds.mu.Lock()
	if c, ok := ds.inflight[key]; ok {
		// carregando: reutiliza a busca em voo em vez de duplicar a requisição
		ds.mu.Unlock()
		select {
		case <-c.done:
			return c.listing, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &chamada{done: make(chan struct{})}
	ds.inflight[key] = c
	ds.mu.Unlock()

	c.listing, c.err = ds.buscar(ctx, key, token)
	if c.err == nil {
		if err := ds.cache.Set(ctx, key, c.listing); err != nil {
			ds.logger.Warn("erro ao gravar listagem no cache", zap.Error(err), zap.String("documento", key))
		}
	}

	ds.mu.Lock()
	delete(ds.inflight, key)
	ds.mu.Unlock()
	close(c.done)

	return c.listing, c.err
}

// Invalidate refresh forçado da chave (disparado por uma escrita)
func (ds *DocumentoService) Invalidate(ctx context.Context, documento string) error {
	key := normalizer.Digits(documento)
	if key == "" {
		return nil
	}
	return ds.cache.Delete(ctx, key)
}

// EmitirCertificado repassa a emissão ao backend e, em sucesso, invalida a
// listagem do documento emitente
func (ds *DocumentoService) EmitirCertificado(ctx context.Context, payload models.RawRecord, token string) ([]byte, error) {
	resp, err := ds.backend.Post(ctx, "certificados", "emitir", payload, token)
	if err != nil {
		return nil, err
	}

	if doc := payload.String("documento", "cpf_cnpj", "cpfCnpj", "cnpj", "cpf"); doc != "" {
		if err := ds.Invalidate(ctx, doc); err != nil {
			ds.logger.Warn("erro ao invalidar cache pós-emissão", zap.Error(err), zap.String("documento", doc))
		}
	}
	return resp, nil
}

// buscar consulta o backend e monta a listagem
func (ds *DocumentoService) buscar(ctx context.Context, key, token string) (*models.DocumentoListing, error) {
	query := url.Values{}
	query.Set("documento", key)

	rows, _, err := ds.backend.List(ctx, "documentos", query, token)
	if err != nil {
		return nil, err
	}

	arquivos := make([]models.DocumentoArquivo, 0, len(rows))
	for _, row := range rows {
		arquivos = append(arquivos, models.DocumentoArquivo{
			Nome:      row.String("nome", "name", "arquivo"),
			URL:       row.String("url", "link", "href"),
			EmitidoEm: normalizer.FormatValidade(normalizer.ParseFlexibleDate(row.String("emitido_em", "emitidoEm", "data_emissao", "created_at"))),
		})
	}

	return &models.DocumentoListing{
		Documento:    key,
		Arquivos:     arquivos,
		AtualizadoEm: time.Now(),
	}, nil
}

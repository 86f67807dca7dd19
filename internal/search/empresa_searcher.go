package search

import (
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/models"
	"github.com/empresa-normalizer/internal/normalizer"
)

// SearchConfig configuração do Meilisearch
type SearchConfig struct {
	Host      string
	APIKey    string
	IndexName string
	Timeout   time.Duration
	Limit     int
}

// EmpresaSearcher índice opcional de empresas normalizadas por trás do filtro
// `busca`. Searcher nil degrada para filtragem em memória no serviço.
type EmpresaSearcher struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
	limit     int
}

// empresaDoc documento indexado: chaves já normalizadas para busca sem acento
type empresaDoc struct {
	ID           int64  `json:"id"`
	CNPJ         string `json:"cnpj"`
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	ChaveBusca   string `json:"chave_busca"`
}

// NewEmpresaSearcher cria o searcher e testa a conexão
func NewEmpresaSearcher(config SearchConfig, logger *zap.Logger) (*EmpresaSearcher, error) {
	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("não foi possível conectar ao Meilisearch: %w", err)
	}

	limit := config.Limit
	if limit <= 0 {
		limit = 50
	}

	return &EmpresaSearcher{
		client:    client,
		logger:    logger,
		indexName: config.IndexName,
		limit:     limit,
	}, nil
}

// Reindex substitui o índice pelas empresas normalizadas atuais. Chamado após
// cada refetch disparado pela camada administrativa.
func (es *EmpresaSearcher) Reindex(empresas []models.Empresa) error {
	docs := make([]empresaDoc, 0, len(empresas))
	for _, e := range empresas {
		docs = append(docs, empresaDoc{
			ID:           e.ID,
			CNPJ:         normalizer.Digits(e.CNPJ),
			RazaoSocial:  e.RazaoSocial,
			NomeFantasia: e.NomeFantasia,
			ChaveBusca:   normalizer.Normalize(e.RazaoSocial + " " + e.NomeFantasia + " " + e.CNPJ),
		})
	}

	index := es.client.Index(es.indexName)
	if _, err := index.AddDocuments(docs, "id"); err != nil {
		return fmt.Errorf("erro ao indexar empresas: %w", err)
	}

	es.logger.Info("índice de empresas atualizado",
		zap.String("index", es.indexName),
		zap.Int("documentos", len(docs)))
	return nil
}

// IDs devolve os ids de empresa que casam com a busca livre
func (es *EmpresaSearcher) IDs(busca string) ([]int64, error) {
	chave := normalizer.Normalize(busca)
	if chave == "" {
		return nil, nil
	}

	res, err := es.client.Index(es.indexName).Search(chave, &meilisearch.SearchRequest{
		Limit: int64(es.limit),
	})
	if err != nil {
		return nil, fmt.Errorf("erro na busca de empresas: %w", err)
	}

	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := hit.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := models.RawRecord(doc).Int64("id"); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

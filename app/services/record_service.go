package services

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/models"
	"github.com/empresa-normalizer/app/requests"
	"github.com/empresa-normalizer/internal/backend"
	"github.com/empresa-normalizer/internal/matcher"
	"github.com/empresa-normalizer/internal/normalizer"
	"github.com/empresa-normalizer/internal/pivot"
	"github.com/empresa-normalizer/internal/search"
)

// RecordService orquestra busca no backend legado, normalização por entidade
// e montagem do envelope de resultado. Todas as transformações são puras e
// refeitas a cada refetch; nenhum registro sobrevive entre respostas.
type RecordService struct {
	backend   *backend.Client
	searcher  *search.EmpresaSearcher // opcional; nil degrada para filtro local
	logger    *zap.Logger
	startTime time.Time
}

// NewRecordService cria o serviço de registros
func NewRecordService(client *backend.Client, searcher *search.EmpresaSearcher, logger *zap.Logger) *RecordService {
	return &RecordService{
		backend:   client,
		searcher:  searcher,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetStartTime instante de inicialização (health check)
func (rs *RecordService) GetStartTime() time.Time { return rs.startTime }

// ListEmpresas lista empresas normalizadas, enriquecidas com o certificado
// vinculado pelo IdentityMatcher
func (rs *RecordService) ListEmpresas(ctx context.Context, opts requests.ListOptions, token string) (models.Envelope[models.Empresa], error) {
	rows, meta, err := rs.backend.List(ctx, "empresas", consulta(opts), token)
	if err != nil {
		return models.Empty[models.Empresa](), err
	}

	empresas, err := rs.normalizarEmpresas(ctx, rows, token)
	if err != nil {
		return models.Empty[models.Empresa](), err
	}

	filtrado := false
	if opts.Busca != "" {
		empresas = rs.filtrarBusca(empresas, opts.Busca)
		filtrado = true
	}
	if opts.SomenteAlertas {
		empresas = filtrar(empresas, func(e models.Empresa) bool { return e.Alerta })
		filtrado = true
	}

	return envelopar(empresas, meta, opts, filtrado), nil
}

// ListLicencas lista licenças normalizadas; registros sem data ordenam por último
func (rs *RecordService) ListLicencas(ctx context.Context, opts requests.ListOptions, token string) (models.Envelope[models.Licenca], error) {
	rows, meta, err := rs.backend.List(ctx, "licencas", consulta(opts), token)
	if err != nil {
		return models.Empty[models.Licenca](), err
	}

	agora := time.Now()
	licencas := make([]models.Licenca, 0, len(rows))
	for _, row := range rows {
		licencas = append(licencas, normalizer.NormalizeLicenca(row, agora))
	}

	sort.SliceStable(licencas, func(i, j int) bool {
		return diasAntes(licencas[i].DiasRestantes, licencas[j].DiasRestantes)
	})

	filtrado := false
	if opts.Busca != "" {
		chave := normalizer.Normalize(opts.Busca)
		licencas = filtrar(licencas, func(l models.Licenca) bool {
			return strings.Contains(normalizer.Normalize(l.Empresa+" "+l.Tipo), chave)
		})
		filtrado = true
	}
	if opts.SomenteAlertas {
		licencas = filtrar(licencas, func(l models.Licenca) bool { return l.Alerta })
		filtrado = true
	}

	return envelopar(licencas, meta, opts, filtrado), nil
}

// ListCertificados lista certificados digitais normalizados
func (rs *RecordService) ListCertificados(ctx context.Context, opts requests.ListOptions, token string) (models.Envelope[models.Certificado], error) {
	rows, meta, err := rs.backend.List(ctx, "certificados", consulta(opts), token)
	if err != nil {
		return models.Empty[models.Certificado](), err
	}

	agora := time.Now()
	certificados := make([]models.Certificado, 0, len(rows))
	for _, row := range rows {
		certificados = append(certificados, normalizer.NormalizeCertificado(row, agora))
	}

	sort.SliceStable(certificados, func(i, j int) bool {
		return diasAntes(certificados[i].DiasRestantes, certificados[j].DiasRestantes)
	})

	filtrado := false
	if opts.Busca != "" {
		chave := normalizer.Normalize(opts.Busca)
		certificados = filtrar(certificados, func(c models.Certificado) bool {
			return strings.Contains(normalizer.Normalize(c.Titular), chave) ||
				strings.Contains(normalizer.Digits(c.Documento), normalizer.Digits(opts.Busca))
		})
		filtrado = true
	}
	if opts.SomenteAlertas {
		certificados = filtrar(certificados, func(c models.Certificado) bool { return c.Alerta })
		filtrado = true
	}

	return envelopar(certificados, meta, opts, filtrado), nil
}

// ListTaxas lista taxas no formato wide, pivotando quando o backend emite o
// formato long
func (rs *RecordService) ListTaxas(ctx context.Context, opts requests.ListOptions, token string) (models.Envelope[models.RawRecord], error) {
	rows, meta, err := rs.backend.List(ctx, "taxas", consulta(opts), token)
	if err != nil {
		return models.Empty[models.RawRecord](), err
	}

	wide := pivot.NormalizeTaxCollection(rows)

	filtrado := len(wide) != len(rows)
	if opts.Busca != "" {
		chave := normalizer.Normalize(opts.Busca)
		wide = filtrar(wide, func(r models.RawRecord) bool {
			return strings.Contains(normalizer.Normalize(r.String("empresa", "cnpj")), chave)
		})
		filtrado = true
	}
	if opts.SomenteAlertas {
		wide = filtrar(wide, func(r models.RawRecord) bool {
			return r.String(pivot.ColGeral) == "Irregular"
		})
		filtrado = true
	}

	return envelopar(wide, meta, opts, filtrado), nil
}

// ListAlertas lista alertas normalizados
func (rs *RecordService) ListAlertas(ctx context.Context, opts requests.ListOptions, token string) (models.Envelope[models.Alerta], error) {
	rows, meta, err := rs.backend.List(ctx, "alertas", consulta(opts), token)
	if err != nil {
		return models.Empty[models.Alerta](), err
	}

	alertas := make([]models.Alerta, 0, len(rows))
	for _, row := range rows {
		alertas = append(alertas, normalizer.NormalizeAlerta(row))
	}
	return envelopar(alertas, meta, opts, false), nil
}

// ListGenerico listagens sem normalizador dedicado (processos, municípios,
// uteis, kpis, agendamentos): classifica o status quando presente e envelopa
func (rs *RecordService) ListGenerico(ctx context.Context, recurso string, opts requests.ListOptions, token string) (models.Envelope[models.RawRecord], error) {
	rows, meta, err := rs.backend.List(ctx, recurso, consulta(opts), token)
	if err != nil {
		return models.Empty[models.RawRecord](), err
	}

	for _, row := range rows {
		if status := row.String("status", "situacao"); status != "" {
			cls := normalizer.Classify(status)
			row["categoria"] = cls.Categoria
			row["alerta"] = cls.Alerta
		}
	}

	filtrado := false
	if opts.SomenteAlertas {
		rows = filtrar(rows, func(r models.RawRecord) bool {
			alerta, _ := r["alerta"].(bool)
			return alerta
		})
		filtrado = true
	}

	return envelopar(rows, meta, opts, filtrado), nil
}

// VinculoSugerido diagnóstico de empresa sem certificado com candidato próximo
type VinculoSugerido struct {
	Empresa  models.Empresa    `json:"empresa"`
	Sugestao *matcher.Sugestao `json:"sugestao,omitempty"`
}

// SugerirVinculos lista empresas sem certificado vinculado, com a sugestão de
// titular mais próximo quando o score atinge o mínimo. Só diagnóstico; nunca
// vincula automaticamente.
func (rs *RecordService) SugerirVinculos(ctx context.Context, token string) ([]VinculoSugerido, error) {
	rows, _, err := rs.backend.List(ctx, "empresas", nil, token)
	if err != nil {
		return nil, err
	}

	certRows, _, err := rs.backend.List(ctx, "certificados", nil, token)
	if err != nil {
		return nil, err
	}

	agora := time.Now()
	certificados := make([]models.Certificado, 0, len(certRows))
	for _, row := range certRows {
		certificados = append(certificados, normalizer.NormalizeCertificado(row, agora))
	}
	index := matcher.BuildIndex(certificados)

	pendentes := []VinculoSugerido{}
	for _, row := range rows {
		empresa := normalizer.NormalizeEmpresa(row)
		if index.Resolve(empresa) != nil {
			continue
		}
		sugestao := index.Suggest(empresa.RazaoSocial)
		if sugestao == nil {
			sugestao = index.Suggest(empresa.NomeFantasia)
		}
		pendentes = append(pendentes, VinculoSugerido{Empresa: empresa, Sugestao: sugestao})
	}
	return pendentes, nil
}

// Reindex reconstrói o índice de busca de empresas (quando configurado)
func (rs *RecordService) Reindex(ctx context.Context, token string) (int, error) {
	if rs.searcher == nil {
		return 0, nil
	}

	rows, _, err := rs.backend.List(ctx, "empresas", nil, token)
	if err != nil {
		return 0, err
	}

	empresas := make([]models.Empresa, 0, len(rows))
	for _, row := range rows {
		empresas = append(empresas, normalizer.NormalizeEmpresa(row))
	}
	if err := rs.searcher.Reindex(empresas); err != nil {
		return 0, err
	}
	return len(empresas), nil
}

// normalizarEmpresas normaliza e enriquece com certificados vinculados
func (rs *RecordService) normalizarEmpresas(ctx context.Context, rows []models.RawRecord, token string) ([]models.Empresa, error) {
	certRows, _, err := rs.backend.List(ctx, "certificados", nil, token)
	if err != nil {
		// sem certificados as empresas seguem sem enriquecimento
		rs.logger.Warn("erro ao buscar certificados para vínculo", zap.Error(err))
		certRows = nil
	}

	agora := time.Now()
	certificados := make([]models.Certificado, 0, len(certRows))
	for _, row := range certRows {
		certificados = append(certificados, normalizer.NormalizeCertificado(row, agora))
	}
	index := matcher.BuildIndex(certificados)

	empresas := make([]models.Empresa, 0, len(rows))
	for _, row := range rows {
		empresa := normalizer.NormalizeEmpresa(row)
		// o payload bruto pode carregar campos alternativos de documento
		docs := []string{
			empresa.CNPJ,
			row.String("cpf", "documento_alternativo", "documentoAlternativo"),
		}
		nomes := []string{empresa.RazaoSocial, empresa.NomeFantasia, empresa.Responsavel}
		normalizer.AttachCertificado(&empresa, index.ResolveCandidatos(docs, nomes))
		empresas = append(empresas, empresa)
	}
	return empresas, nil
}

// filtrarBusca filtro de texto livre: Meilisearch quando configurado, senão
// contenção de substring sobre chaves normalizadas
func (rs *RecordService) filtrarBusca(empresas []models.Empresa, busca string) []models.Empresa {
	if rs.searcher != nil {
		ids, err := rs.searcher.IDs(busca)
		if err == nil {
			conjunto := make(map[int64]bool, len(ids))
			for _, id := range ids {
				conjunto[id] = true
			}
			return filtrar(empresas, func(e models.Empresa) bool { return conjunto[e.ID] })
		}
		rs.logger.Warn("erro na busca Meilisearch, recuando para filtro local", zap.Error(err))
	}

	chave := normalizer.Normalize(busca)
	digitos := normalizer.Digits(busca)
	return filtrar(empresas, func(e models.Empresa) bool {
		if strings.Contains(normalizer.Normalize(e.RazaoSocial+" "+e.NomeFantasia), chave) {
			return true
		}
		return digitos != "" && strings.Contains(normalizer.Digits(e.CNPJ), digitos)
	})
}

// consulta monta os parâmetros repassados ao backend
func consulta(opts requests.ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Size > 0 {
		q.Set("size", strconv.Itoa(opts.Size))
	}
	return q
}

// envelopar usa os metadados do backend quando nada foi filtrado localmente;
// filtro local força síntese a partir do slice resultante
func envelopar[T any](items []T, meta backend.ListMeta, opts requests.ListOptions, filtrado bool) models.Envelope[T] {
	if filtrado {
		return models.NewEnvelope(items, 0, opts.Page, opts.Size)
	}
	return models.NewEnvelope(items, meta.Total, primeiroPositivo(meta.Page, opts.Page), primeiroPositivo(meta.Size, opts.Size))
}

func primeiroPositivo(valores ...int) int {
	for _, v := range valores {
		if v > 0 {
			return v
		}
	}
	return 0
}

// filtrar mantém os elementos que satisfazem o predicado
func filtrar[T any](items []T, pred func(T) bool) []T {
	saida := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			saida = append(saida, item)
		}
	}
	return saida
}

// diasAntes ordenação por dias restantes com nulo ("desconhecido") por último
func diasAntes(a, b *int) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

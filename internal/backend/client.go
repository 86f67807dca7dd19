package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/config"
	"github.com/empresa-normalizer/app/models"
)

// recursos nomes lógicos canônicos aceitos pelo backend
var recursos = map[string]bool{
	"empresas": true, "licencas": true, "taxas": true, "processos": true,
	"certificados": true, "alertas": true, "municipios": true, "uteis": true,
	"kpis": true, "agendamentos": true, "documentos": true,
}

// aliasLegado variantes de caminho antigas dobradas para o recurso canônico;
// chamadas com caminho novo ou velho recebem saída normalizada idêntica
var aliasLegado = map[string]string{
	"companies":    "empresas",
	"company":      "empresas",
	"licenses":     "licencas",
	"licencas-old": "licencas",
	"taxes":        "taxas",
	"tributos":     "taxas",
	"processes":    "processos",
	"certificates": "certificados",
	"certs":        "certificados",
	"alerts":       "alertas",
	"cities":       "municipios",
	"schedules":    "agendamentos",
	"documents":    "documentos",
}

// ErrRecursoDesconhecido recurso sem mapeamento canônico
var ErrRecursoDesconhecido = fmt.Errorf("recurso desconhecido")

// Nomes todos os nomes lógicos aceitos em caminhos, canônicos e legados
func Nomes() []string {
	nomes := make([]string, 0, len(recursos)+len(aliasLegado))
	for r := range recursos {
		nomes = append(nomes, r)
	}
	for a := range aliasLegado {
		nomes = append(nomes, a)
	}
	sort.Strings(nomes)
	return nomes
}

// ListMeta metadados de paginação reportados pelo backend
type ListMeta struct {
	Total int
	Page  int
	Size  int
}

// Client cliente HTTP do backend legado. Sem retry, sem dedupe entre chaves:
// uma busca, uma resposta.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient cria o cliente do backend legado
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: config.RequestTimeout()},
		logger:  logger,
	}
}

// Canonical resolve um nome lógico (novo ou legado) para o recurso canônico
func Canonical(recurso string) (string, error) {
	r := strings.ToLower(strings.Trim(recurso, "/"))
	if alias, ok := aliasLegado[r]; ok {
		r = alias
	}
	if !recursos[r] {
		return "", fmt.Errorf("%w: %s", ErrRecursoDesconhecido, recurso)
	}
	return r, nil
}

// List busca uma listagem. Aceita tanto array puro quanto envelope
// {items,total,page,size}; 404 degrada para listagem vazia válida.
// O token, quando presente, vai como Authorization: Bearer.
func (c *Client) List(ctx context.Context, recurso string, query url.Values, token string) ([]models.RawRecord, ListMeta, error) {
	canonico, err := Canonical(recurso)
	if err != nil {
		return nil, ListMeta{}, err
	}

	endpoint := c.baseURL + "/api/" + canonico
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, ListMeta{}, err
	}
	autorizar(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ListMeta{}, err
	}
	defer resp.Body.Close()

	// categoria de recurso sem tabela ainda: listagem vazia, não erro
	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug("listagem inexistente tratada como vazia", zap.String("recurso", canonico))
		return []models.RawRecord{}, ListMeta{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ListMeta{}, sintetizarErro(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ListMeta{}, err
	}
	return decodificarListagem(body)
}

// Post chamada mutante. Em falha propaga uma única mensagem sintetizada
// (detail/message estruturado → texto cru → "Erro <status>").
func (c *Client) Post(ctx context.Context, recurso, sufixo string, payload any, token string) ([]byte, error) {
	canonico, err := Canonical(recurso)
	if err != nil {
		return nil, err
	}

	var corpo io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		corpo = bytes.NewReader(b)
	}

	endpoint := c.baseURL + "/api/" + canonico
	if sufixo != "" {
		endpoint += "/" + strings.Trim(sufixo, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, corpo)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	autorizar(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, sintetizarErro(resp)
	}
	return io.ReadAll(resp.Body)
}

// autorizar anexa o bearer token quando presente; ausência não é erro
func autorizar(req *http.Request, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = "Bearer " + token
	}
	req.Header.Set("Authorization", token)
}

// decodificarListagem aceita array puro ou envelope com items/data
func decodificarListagem(body []byte) ([]models.RawRecord, ListMeta, error) {
	var itens []models.RawRecord

	// array puro: metadados sintetizados pelo chamador
	if err := json.Unmarshal(body, &itens); err == nil {
		return itens, ListMeta{}, nil
	}

	var envelope struct {
		Items []models.RawRecord `json:"items"`
		Data  []models.RawRecord `json:"data"`
		Total int                `json:"total"`
		Page  int                `json:"page"`
		Size  int                `json:"size"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ListMeta{}, fmt.Errorf("resposta de listagem inesperada: %w", err)
	}

	itens = envelope.Items
	if itens == nil {
		itens = envelope.Data
	}
	if itens == nil {
		itens = []models.RawRecord{}
	}
	return itens, ListMeta{Total: envelope.Total, Page: envelope.Page, Size: envelope.Size}, nil
}

// sintetizarErro prefere detail/message estruturado, recua para texto cru e
// por fim para "Erro <status>"
func sintetizarErro(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var detalhe struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Erro    string `json:"erro"`
	}
	if err := json.Unmarshal(body, &detalhe); err == nil {
		switch {
		case detalhe.Detail != "":
			return fmt.Errorf("%s", detalhe.Detail)
		case detalhe.Message != "":
			return fmt.Errorf("%s", detalhe.Message)
		case detalhe.Erro != "":
			return fmt.Errorf("%s", detalhe.Erro)
		}
	}

	texto := strings.TrimSpace(string(body))
	if texto != "" && len(texto) <= 512 {
		return fmt.Errorf("%s", texto)
	}
	return fmt.Errorf("Erro %d", resp.StatusCode)
}

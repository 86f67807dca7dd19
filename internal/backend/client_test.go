package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

// TestCanonical aliases legados dobram para o recurso canônico
func TestCanonical(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"empresas", "empresas"},
		{"companies", "empresas"},
		{"COMPANIES", "empresas"},
		{"/licenses/", "licencas"},
		{"tributos", "taxas"},
		{"certs", "certificados"},
		{"alerts", "alertas"},
		{"documentos", "documentos"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Canonical(tc.input)
			if err != nil {
				t.Fatalf("Canonical(%q) falhou: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("Canonical(%q): esperava %q, obteve %q", tc.input, tc.expected, got)
			}
		})
	}

	t.Run("Desconhecido", func(t *testing.T) {
		if _, err := Canonical("faturas"); err == nil {
			t.Error("esperava erro para recurso desconhecido")
		}
	})
}

// TestList_ArrayPuro array sem envelope chega com metadados zerados
func TestList_ArrayPuro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/empresas" {
			t.Errorf("caminho inesperado: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": 1, "razao_social": "Alfa"}, {"id": 2}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	rows, meta, err := client.List(context.Background(), "empresas", nil, "")
	if err != nil {
		t.Fatalf("List falhou: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("esperava 2 linhas, obteve %d", len(rows))
	}
	if meta.Total != 0 {
		t.Errorf("array puro não traz metadados, obteve total %d", meta.Total)
	}
}

// TestList_Envelope envelope do backend traz items e paginação
func TestList_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"id": 1}], "total": 42, "page": 2, "size": 10}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	rows, meta, err := client.List(context.Background(), "licencas", nil, "")
	if err != nil {
		t.Fatalf("List falhou: %v", err)
	}
	if len(rows) != 1 || meta.Total != 42 || meta.Page != 2 || meta.Size != 10 {
		t.Errorf("envelope mal decodificado: rows=%d meta=%+v", len(rows), meta)
	}
}

// TestList_404ViraVazio categoria sem tabela ainda é listagem vazia, não erro
func TestList_404ViraVazio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	rows, _, err := client.List(context.Background(), "agendamentos", nil, "")
	if err != nil {
		t.Fatalf("404 não pode virar erro: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("esperava listagem vazia válida, obteve %v", rows)
	}
}

// TestList_ErroSintetizado precedência detail → message → texto cru → status
func TestList_ErroSintetizado(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"Detail", 500, `{"detail": "banco indisponível"}`, "banco indisponível"},
		{"Message", 500, `{"message": "tente mais tarde"}`, "tente mais tarde"},
		{"DetailVenceMessage", 500, `{"detail": "d", "message": "m"}`, "d"},
		{"TextoCru", 502, "bad gateway upstream", "bad gateway upstream"},
		{"SemCorpo", 503, "", "Erro 503"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, zap.NewNop())
			_, _, err := client.List(context.Background(), "taxas", nil, "")
			if err == nil {
				t.Fatal("esperava erro")
			}
			if err.Error() != tc.expected {
				t.Errorf("esperava %q, obteve %q", tc.expected, err.Error())
			}
		})
	}
}

// TestList_Autorizacao token ganha prefixo Bearer; ausência não manda header
func TestList_Autorizacao(t *testing.T) {
	var recebido string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recebido = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())

	client.List(context.Background(), "empresas", nil, "abc123")
	if recebido != "Bearer abc123" {
		t.Errorf("esperava 'Bearer abc123', obteve %q", recebido)
	}

	client.List(context.Background(), "empresas", nil, "Bearer xyz")
	if recebido != "Bearer xyz" {
		t.Errorf("prefixo existente não pode duplicar, obteve %q", recebido)
	}

	client.List(context.Background(), "empresas", nil, "")
	if recebido != "" {
		t.Errorf("sem token não deve haver header, obteve %q", recebido)
	}
}

// TestList_AliasNoCaminho o caminho enviado ao backend é sempre o canônico
func TestList_AliasNoCaminho(t *testing.T) {
	var caminho string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caminho = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	query := url.Values{}
	query.Set("page", "2")

	if _, _, err := client.List(context.Background(), "companies", query, ""); err != nil {
		t.Fatalf("List falhou: %v", err)
	}
	if caminho != "/api/empresas" {
		t.Errorf("alias deveria dobrar para /api/empresas, obteve %q", caminho)
	}
}

// TestPost_Sufixo sufixo de operação é anexado ao recurso canônico
func TestPost_Sufixo(t *testing.T) {
	var caminho, metodo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caminho = r.URL.Path
		metodo = r.Method
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	body, err := client.Post(context.Background(), "certificados", "emitir", map[string]any{"documento": "123"}, "")
	if err != nil {
		t.Fatalf("Post falhou: %v", err)
	}
	if caminho != "/api/certificados/emitir" || metodo != http.MethodPost {
		t.Errorf("esperava POST /api/certificados/emitir, obteve %s %s", metodo, caminho)
	}
	if len(body) == 0 {
		t.Error("esperava corpo da resposta")
	}
}

// TestNomes nomes lógicos incluem canônicos e aliases
func TestNomes(t *testing.T) {
	nomes := Nomes()
	tem := map[string]bool{}
	for _, n := range nomes {
		tem[n] = true
	}
	for _, obrigatorio := range []string{"empresas", "companies", "taxas", "tributos", "documentos"} {
		if !tem[obrigatorio] {
			t.Errorf("Nomes() deveria conter %q", obrigatorio)
		}
	}
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/requests"
	"github.com/empresa-normalizer/internal/backend"
)

// backendFalso serve respostas fixas por recurso
func backendFalso(t *testing.T, respostas map[string]string) *RecordService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := respostas[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := backend.NewClient(srv.URL, zap.NewNop())
	return NewRecordService(client, nil, zap.NewNop())
}

// TestListEmpresas_EnriquecimentoPorCertificado o certificado casado por
// documento preenche os campos de enriquecimento da empresa
func TestListEmpresas_EnriquecimentoPorCertificado(t *testing.T) {
	rs := backendFalso(t, map[string]string{
		"/api/empresas": `[
			{"id": 1, "razao_social": "Alfa Ltda", "cnpj": "11.111.111/0001-11", "status": "Regular"},
			{"id": 2, "razao_social": "Beta ME", "cnpj": "22.222.222/0001-22", "status": "Regular"}
		]`,
		"/api/certificados": `[
			{"id": 9, "titular": "Alfa Ltda", "documento": "11111111000111", "validade": "31/12/2030", "situacao": "Válido"}
		]`,
	})

	env, err := rs.ListEmpresas(context.Background(), requests.ListOptions{}, "")
	if err != nil {
		t.Fatalf("ListEmpresas falhou: %v", err)
	}
	if len(env.Items) != 2 {
		t.Fatalf("esperava 2 empresas, obteve %d", len(env.Items))
	}

	alfa := env.Items[0]
	if alfa.CertificadoSituacao == "" {
		t.Error("empresa com certificado casado deveria estar enriquecida")
	}
	if alfa.CertificadoValidade != "31/12/2030" {
		t.Errorf("esperava validade 31/12/2030, obteve %q", alfa.CertificadoValidade)
	}

	beta := env.Items[1]
	if beta.CertificadoSituacao != "" {
		t.Error("empresa sem certificado não pode ganhar enriquecimento")
	}
}

// TestListEmpresas_SomenteAlertas filtro local sintetiza os metadados
func TestListEmpresas_SomenteAlertas(t *testing.T) {
	rs := backendFalso(t, map[string]string{
		"/api/empresas": `{"items": [
			{"id": 1, "razao_social": "Alfa", "status": "Regular"},
			{"id": 2, "razao_social": "Beta", "status": "Vencido"}
		], "total": 2, "page": 1, "size": 50}`,
		"/api/certificados": `[]`,
	})

	env, err := rs.ListEmpresas(context.Background(), requests.ListOptions{SomenteAlertas: true}, "")
	if err != nil {
		t.Fatalf("ListEmpresas falhou: %v", err)
	}
	if len(env.Items) != 1 || env.Items[0].ID != 2 {
		t.Fatalf("esperava só a empresa 2, obteve %+v", env.Items)
	}
	if env.Total != 1 {
		t.Errorf("filtro local deve sintetizar o total: esperava 1, obteve %d", env.Total)
	}
}

// TestListLicencas_NulosPorUltimo licenças sem data ordenam depois das datadas
func TestListLicencas_NulosPorUltimo(t *testing.T) {
	rs := backendFalso(t, map[string]string{
		"/api/licencas": `[
			{"id": 1, "tipo": "Sanitária", "status": "Possui", "obs": "sem data"},
			{"id": 2, "tipo": "Funcionamento", "status": "Possui", "validade": "31/12/2030"},
			{"id": 3, "tipo": "Ambiental", "status": "Possui", "validade": "01/01/2020"}
		]`,
	})

	env, err := rs.ListLicencas(context.Background(), requests.ListOptions{}, "")
	if err != nil {
		t.Fatalf("ListLicencas falhou: %v", err)
	}
	if len(env.Items) != 3 {
		t.Fatalf("esperava 3 licenças, obteve %d", len(env.Items))
	}

	ordem := []int64{3, 2, 1} // vencida, futura, sem data
	for i, esperado := range ordem {
		if env.Items[i].ID != esperado {
			t.Errorf("posição %d: esperava licença %d, obteve %d", i, esperado, env.Items[i].ID)
		}
	}
	if env.Items[0].Status != "Vencido" {
		t.Errorf("licença com data passada deveria ser Vencido, obteve %q", env.Items[0].Status)
	}
}

// TestListTaxas_PivotEFiltro pivô long→wide seguido do filtro de irregulares
func TestListTaxas_PivotEFiltro(t *testing.T) {
	rs := backendFalso(t, map[string]string{
		"/api/taxas": `[
			{"empresa_id": 1, "empresa": "Alfa", "tipo": "ISS", "status": "Pago"},
			{"empresa_id": 1, "tipo": "Alvará", "status": "Em aberto"},
			{"empresa_id": 2, "empresa": "Beta", "tipo": "ISS", "status": "Pago"}
		]`,
	})

	env, err := rs.ListTaxas(context.Background(), requests.ListOptions{SomenteAlertas: true}, "")
	if err != nil {
		t.Fatalf("ListTaxas falhou: %v", err)
	}
	if len(env.Items) != 1 {
		t.Fatalf("esperava 1 empresa irregular, obteve %d", len(env.Items))
	}
	if got := env.Items[0].String("empresa"); got != "Alfa" {
		t.Errorf("esperava Alfa, obteve %q", got)
	}
}

// TestListGenerico_404ViraVazio recurso sem tabela no backend devolve envelope
// vazio válido, não erro
func TestListGenerico_404ViraVazio(t *testing.T) {
	rs := backendFalso(t, map[string]string{})

	env, err := rs.ListGenerico(context.Background(), "agendamentos", requests.ListOptions{}, "")
	if err != nil {
		t.Fatalf("404 não pode virar erro: %v", err)
	}
	if env.Items == nil || len(env.Items) != 0 {
		t.Errorf("esperava envelope vazio válido, obteve %+v", env)
	}
}

// TestListGenerico_ClassificaStatus listagem genérica ganha categoria/alerta
// quando há status presente
func TestListGenerico_ClassificaStatus(t *testing.T) {
	rs := backendFalso(t, map[string]string{
		"/api/processos": `[
			{"id": 1, "status": "Em análise"},
			{"id": 2, "descricao": "sem status"}
		]`,
	})

	env, err := rs.ListGenerico(context.Background(), "processos", requests.ListOptions{}, "")
	if err != nil {
		t.Fatalf("ListGenerico falhou: %v", err)
	}

	com := env.Items[0]
	if com.String("categoria") != "warning" {
		t.Errorf("esperava categoria warning, obteve %q", com.String("categoria"))
	}
	sem := env.Items[1]
	if sem.Has("categoria") {
		t.Error("registro sem status não deve ganhar categoria")
	}
}

// TestSugerirVinculos empresas com certificado resolvido ficam de fora
func TestSugerirVinculos(t *testing.T) {
	rs := backendFalso(t, map[string]string{
		"/api/empresas": `[
			{"id": 1, "razao_social": "Alfa Ltda", "cnpj": "11.111.111/0001-11"},
			{"id": 2, "razao_social": "Padaria Sao Jose", "cnpj": "22.222.222/0001-22"}
		]`,
		"/api/certificados": `[
			{"id": 9, "titular": "Alfa Ltda", "documento": "11111111000111"},
			{"id": 10, "titular": "Padaria Sao Jose Ltda", "documento": "33333333000133"}
		]`,
	})

	pendentes, err := rs.SugerirVinculos(context.Background(), "")
	if err != nil {
		t.Fatalf("SugerirVinculos falhou: %v", err)
	}
	if len(pendentes) != 1 {
		t.Fatalf("esperava 1 pendente, obteve %d", len(pendentes))
	}
	if pendentes[0].Empresa.ID != 2 {
		t.Errorf("esperava empresa 2 pendente, obteve %d", pendentes[0].Empresa.ID)
	}
	if pendentes[0].Sugestao == nil || pendentes[0].Sugestao.Certificado.ID != 10 {
		t.Error("esperava sugestão apontando para o cert 10")
	}
}

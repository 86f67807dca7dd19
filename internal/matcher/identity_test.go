package matcher

import (
	"testing"

	"github.com/empresa-normalizer/app/models"
)

// TestResolve_DocumentoVenceNome match por documento é autoritativo mesmo
// quando o nome apontaria para outro certificado
func TestResolve_DocumentoVenceNome(t *testing.T) {
	certs := []models.Certificado{
		{ID: 1, Titular: "Padaria Alfa", Documento: "11.111.111/0001-11"},
		{ID: 2, Titular: "Mercado Beta", Documento: "22.222.222/0001-22"},
	}
	ix := BuildIndex(certs)

	// CNPJ do cert 2, razão social do cert 1
	empresa := models.Empresa{
		CNPJ:        "22222222000122",
		RazaoSocial: "Padaria Alfa",
	}

	got := ix.Resolve(empresa)
	if got == nil {
		t.Fatal("esperava match, obteve nil")
	}
	if got.ID != 2 {
		t.Errorf("documento deve vencer nome: esperava cert 2, obteve %d", got.ID)
	}
}

// TestResolve_FallbackPorNome sem documento casado o nome resolve
func TestResolve_FallbackPorNome(t *testing.T) {
	certs := []models.Certificado{
		{ID: 1, Titular: "Padaria Alfa", Documento: "11.111.111/0001-11"},
	}
	ix := BuildIndex(certs)

	empresa := models.Empresa{
		CNPJ:        "99999999000199",
		RazaoSocial: "PADARIA ALFA", // casa por chave normalizada
	}

	got := ix.Resolve(empresa)
	if got == nil || got.ID != 1 {
		t.Fatal("esperava fallback por nome para o cert 1")
	}
}

// TestBuildIndex_DocumentoCurtoNaoIndexa fragmentos com menos dígitos que o
// mínimo nunca entram no índice de documentos
func TestBuildIndex_DocumentoCurtoNaoIndexa(t *testing.T) {
	certs := []models.Certificado{
		{ID: 1, Titular: "Loja Gama", Documento: "12345"},
	}
	ix := BuildIndex(certs)

	empresa := models.Empresa{CNPJ: "12345", RazaoSocial: "Outro Nome"}
	if got := ix.Resolve(empresa); got != nil {
		t.Errorf("fragmento de documento não pode casar, obteve cert %d", got.ID)
	}

	// o mesmo cert continua alcançável pelo nome
	empresa = models.Empresa{RazaoSocial: "Loja Gama"}
	if got := ix.Resolve(empresa); got == nil || got.ID != 1 {
		t.Error("cert com documento curto deve continuar acessível por nome")
	}
}

// TestBuildIndex_PrimeiraOcorrenciaVence duplicatas não sobrescrevem
func TestBuildIndex_PrimeiraOcorrenciaVence(t *testing.T) {
	certs := []models.Certificado{
		{ID: 1, Titular: "Empresa Delta", Documento: "33.333.333/0001-33"},
		{ID: 2, Titular: "Empresa Delta", Documento: "33.333.333/0001-33"},
	}
	ix := BuildIndex(certs)

	empresa := models.Empresa{CNPJ: "33333333000133"}
	if got := ix.Resolve(empresa); got == nil || got.ID != 1 {
		t.Error("primeira ocorrência deve vencer no índice de documentos")
	}
}

// TestResolve_SemMatch ausência de certificado devolve nil sem erro
func TestResolve_SemMatch(t *testing.T) {
	ix := BuildIndex(nil)
	empresa := models.Empresa{CNPJ: "44444444000144", RazaoSocial: "Inexistente"}
	if got := ix.Resolve(empresa); got != nil {
		t.Errorf("esperava nil, obteve cert %d", got.ID)
	}
}

// TestSuggest sugestão por similaridade só acima do limiar
func TestSuggest(t *testing.T) {
	certs := []models.Certificado{
		{ID: 1, Titular: "Padaria Sao Jose Ltda", Documento: "55.555.555/0001-55"},
	}
	ix := BuildIndex(certs)

	t.Run("Parecido", func(t *testing.T) {
		s := ix.Suggest("Padaria São José")
		if s == nil {
			t.Fatal("esperava sugestão para nome muito parecido")
		}
		if s.Certificado.ID != 1 {
			t.Errorf("esperava cert 1, obteve %d", s.Certificado.ID)
		}
		if s.Score <= 0 || s.Score > 1 {
			t.Errorf("score fora do intervalo: %f", s.Score)
		}
	})

	t.Run("Diferente", func(t *testing.T) {
		if s := ix.Suggest("Construtora Horizonte"); s != nil {
			t.Errorf("não esperava sugestão, obteve cert %d com score %f", s.Certificado.ID, s.Score)
		}
	})
}

// TestSuggest_EmpateDeterministico empate de score resolve sempre pelo mesmo
// titular, independente da ordem de iteração do índice
func TestSuggest_EmpateDeterministico(t *testing.T) {
	certs := []models.Certificado{
		{ID: 1, Titular: "Mercado Sao Pedro Oeste", Documento: "66.666.666/0001-66"},
		{ID: 2, Titular: "Mercado Sao Pedro Leste", Documento: "77.777.777/0001-77"},
	}
	ix := BuildIndex(certs)

	for i := 0; i < 20; i++ {
		s := ix.Suggest("Mercado Sao Pedro")
		if s == nil {
			t.Fatal("esperava sugestão para nome muito parecido")
		}
		if s.Certificado.ID != 2 {
			t.Fatalf("empate deve resolver pelo titular lexicograficamente menor (cert 2), obteve %d", s.Certificado.ID)
		}
	}
}

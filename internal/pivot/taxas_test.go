package pivot

import (
	"testing"

	"github.com/empresa-normalizer/app/models"
)

// linhasLong fixture no formato relacional: três empresas, uma com taxa em
// aberto, uma toda regular, uma só com colunas não monitoradas
func linhasLong() []models.RawRecord {
	return []models.RawRecord{
		{"empresa_id": float64(1), "empresa": "Alfa Ltda", "tipo": "ISS", "status": "Pago"},
		{"empresa_id": float64(1), "tipo": "Alvará", "status": "Em aberto", "vencimento": "10/04/2024"},
		{"empresa_id": float64(2), "empresa": "Beta ME", "tipo": "ISS", "status": "Pago"},
		{"empresa_id": float64(2), "tipo": "TFE", "status": "Pago"},
		{"empresa_id": float64(3), "empresa": "Gama SA", "tipo": "TPI", "status": "Vencido"},
		{"empresa_id": float64(3), "tipo": "Bombeiros", "status": "Vencido"},
	}
}

// TestNormalizeTaxCollection_Pivot agrupa por empresa preservando a ordem de
// primeira ocorrência
func TestNormalizeTaxCollection_Pivot(t *testing.T) {
	out := NormalizeTaxCollection(linhasLong())

	if len(out) != 3 {
		t.Fatalf("esperava 3 linhas wide, obteve %d", len(out))
	}

	ids := []int64{}
	for _, row := range out {
		id, _ := row.Int64("empresa_id")
		ids = append(ids, id)
	}
	for i, esperado := range []int64{1, 2, 3} {
		if ids[i] != esperado {
			t.Errorf("ordem de grupos: esperava %v na posição %d, obteve %v", esperado, i, ids[i])
		}
	}

	alfa := out[0]
	if alfa.String(ColISS) != "Pago" {
		t.Errorf("esperava iss=Pago, obteve %q", alfa.String(ColISS))
	}
	if alfa.String(ColAlvara) != "Em aberto" {
		t.Errorf("esperava alvara='Em aberto', obteve %q", alfa.String(ColAlvara))
	}
	if alfa.String("vencimento") != "10/04/2024" {
		t.Errorf("esperava vencimento propagado, obteve %q", alfa.String("vencimento"))
	}
	if alfa.String("empresa") != "Alfa Ltda" {
		t.Errorf("esperava nome da empresa na linha wide, obteve %q", alfa.String("empresa"))
	}
}

// TestNormalizeTaxCollection_StatusGeral só colunas monitoradas entram;
// TPI e bombeiros vencidos não tornam a empresa irregular
func TestNormalizeTaxCollection_StatusGeral(t *testing.T) {
	out := NormalizeTaxCollection(linhasLong())

	esperados := map[int64]string{
		1: "Irregular", // alvará em aberto
		2: "Regular",   // tudo pago
		3: "Regular",   // só TPI e bombeiros, fora do monitoramento
	}

	for _, row := range out {
		id, _ := row.Int64("empresa_id")
		if got := row.String(ColGeral); got != esperados[id] {
			t.Errorf("empresa %d: esperava status geral %q, obteve %q", id, esperados[id], got)
		}
	}
}

// TestNormalizeTaxCollection_Idempotente repassar a saída wide é no-op
func TestNormalizeTaxCollection_Idempotente(t *testing.T) {
	primeira := NormalizeTaxCollection(linhasLong())
	segunda := NormalizeTaxCollection(primeira)

	if len(segunda) != len(primeira) {
		t.Fatalf("reexecução mudou o número de linhas: %d → %d", len(primeira), len(segunda))
	}
	for i := range primeira {
		for k, v := range primeira[i] {
			if segunda[i][k] != v {
				t.Errorf("linha %d campo %q mudou na reexecução: %v → %v", i, k, v, segunda[i][k])
			}
		}
	}
}

// TestPivotar_PrimeiroValorVence valor já preenchido não é sobrescrito
func TestPivotar_PrimeiroValorVence(t *testing.T) {
	rows := []models.RawRecord{
		{"empresa_id": float64(1), "tipo": "ISS", "status": "Pago"},
		{"empresa_id": float64(1), "tipo": "ISS", "status": "Vencido"},
	}
	out := NormalizeTaxCollection(rows)

	if len(out) != 1 {
		t.Fatalf("esperava 1 linha, obteve %d", len(out))
	}
	if got := out[0].String(ColISS); got != "Pago" {
		t.Errorf("primeiro valor deve vencer: esperava Pago, obteve %q", got)
	}
}

// TestPivotar_VencimentoConhecidoVenceNulo vencimento só preenche ausência
func TestPivotar_VencimentoConhecidoVenceNulo(t *testing.T) {
	rows := []models.RawRecord{
		{"empresa_id": float64(1), "tipo": "ISS", "status": "Pago"},
		{"empresa_id": float64(1), "tipo": "TFE", "status": "Pago", "vencimento": "15/05/2024"},
		{"empresa_id": float64(1), "tipo": "Alvará", "status": "Pago", "vencimento": "20/06/2024"},
	}
	out := NormalizeTaxCollection(rows)

	if got := out[0].String("vencimento"); got != "15/05/2024" {
		t.Errorf("primeiro vencimento conhecido deve ficar: esperava 15/05/2024, obteve %q", got)
	}
}

// TestPivotar_LinhaSemIdentidade linha sem empresa não contribui para grupo
func TestPivotar_LinhaSemIdentidade(t *testing.T) {
	rows := []models.RawRecord{
		{"empresa_id": float64(1), "tipo": "ISS", "status": "Pago"},
		{"tipo": "TFE", "status": "Vencido"},
	}
	out := NormalizeTaxCollection(rows)

	if len(out) != 1 {
		t.Fatalf("esperava 1 linha, obteve %d", len(out))
	}
	if out[0].String(ColTFE) != "" {
		t.Error("linha órfã não pode contaminar o grupo existente")
	}
}

// TestNormalizeTaxCollection_JaWide coleção wide passa intacta, só o status
// geral é recomputado
func TestNormalizeTaxCollection_JaWide(t *testing.T) {
	rows := []models.RawRecord{
		{"empresa_id": float64(9), "iss": "Vencido", "tfe": "Pago"},
	}
	out := NormalizeTaxCollection(rows)

	if len(out) != 1 {
		t.Fatalf("esperava 1 linha, obteve %d", len(out))
	}
	if got := out[0].String(ColGeral); got != "Irregular" {
		t.Errorf("iss vencido deve tornar o status geral Irregular, obteve %q", got)
	}
	// entrada original não é mutada
	if rows[0].Has(ColGeral) {
		t.Error("a coleção de entrada não pode ser mutada")
	}
}

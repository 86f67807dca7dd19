package normalizer

import (
	"time"

	"github.com/empresa-normalizer/app/models"
)

// NormalizeLicenca transforma o payload bruto de licença. A validade pode vir
// de campo dedicado ou embutida na observação livre; quando existe data
// interpretável ela é autoritativa sobre o rótulo Possui/Vencido do backend.
func NormalizeLicenca(raw models.RawRecord, agora time.Time) models.Licenca {
	id, _ := raw.Int64("id", "licenca_id", "licencaId")
	empresaID, _ := raw.Int64("empresa_id", "empresaId", "id_empresa")

	status := raw.String("status", "situacao")
	obs := raw.String("obs", "observacao", "observacoes")

	// validade: campo dedicado primeiro, depois data embutida na obs ou no status
	validade := ParseFlexibleDate(raw.String("validade", "vencimento", "data_validade", "dataValidade"))
	if validade == nil {
		validade = ParseFlexibleDate(obs)
	}
	if validade == nil {
		validade = ParseFlexibleDate(status)
	}

	var dias *int
	if validade != nil {
		dias = DaysUntilFrom(*validade, agora)
		if rotuloPossuiVencido(status) {
			if *dias < 0 {
				status = "Vencido"
			} else {
				status = "Possui"
			}
		}
	}

	cls := Classify(status)

	return models.Licenca{
		ID:            id,
		EmpresaID:     empresaID,
		Empresa:       raw.String("empresa", "razao_social", "razaoSocial", "nome_empresa"),
		Tipo:          raw.String("tipo", "tipo_licenca", "tipoLicenca"),
		Status:        cls.Texto,
		Obs:           obs,
		Validade:      FormatValidade(validade),
		DiasRestantes: dias,
		Categoria:     cls.Categoria,
		Alerta:        cls.Alerta,
	}
}

// rotuloPossuiVencido identifica a família ambígua de rótulos que a data
// resolve em definitivo
func rotuloPossuiVencido(status string) bool {
	switch Normalize(status) {
	case "", "possui", "vencido", "vencida":
		return true
	}
	return false
}

package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reDataBR       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reDataISO      = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	reDataEmbutida = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// layouts genéricos de último recurso
var layoutsGenericos = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"02-01-2006",
}

// ParseFlexibleDate interpreta datas em múltiplos formatos de origem
// (DD/MM/YYYY, prefixo ISO, data embutida em texto livre) e devolve a data
// truncada para meia-noite local. Falha devolve nil, nunca erro.
func ParseFlexibleDate(v any) *time.Time {
	if v == nil {
		return nil
	}

	// 1. Valor de data nativo
	if t, ok := v.(time.Time); ok {
		return truncar(t)
	}
	if t, ok := v.(*time.Time); ok && t != nil {
		return truncar(*t)
	}

	s := strings.TrimSpace(AsString(v))
	if s == "" {
		return nil
	}

	// 2. DD/MM/YYYY (ordem brasileira)
	if m := reDataBR.FindStringSubmatch(s); m != nil {
		return montar(m[3], m[2], m[1])
	}

	// 3. Prefixo ISO YYYY-MM-DD ou YYYY/MM/DD; o resto da string é ignorado
	if m := reDataISO.FindStringSubmatch(s); m != nil {
		return montar(m[1], m[2], m[3])
	}

	// 4. Data embutida em status livre ("validade: 05/03/2024")
	if m := reDataEmbutida.FindStringSubmatch(s); m != nil {
		return montar(m[3], m[2], m[1])
	}

	// 5. Último recurso: parsing genérico
	for _, layout := range layoutsGenericos {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return truncar(t)
		}
	}
	return nil
}

// DaysUntilFrom diferença em dias entre a data e a referência (truncadas para
// meia-noite local). Positivo = futuro, negativo = passado, zero = hoje.
func DaysUntilFrom(v any, ref time.Time) *int {
	d := ParseFlexibleDate(v)
	if d == nil {
		return nil
	}
	hoje := *truncar(ref)
	dias := int(math.Round(d.Sub(hoje).Hours() / 24))
	return &dias
}

// DaysUntil dias até a data a partir do relógio atual
func DaysUntil(v any) *int {
	return DaysUntilFrom(v, time.Now())
}

// FormatValidade formata data para exibição na convenção brasileira
func FormatValidade(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func montar(ano, mes, dia string) *time.Time {
	y, _ := strconv.Atoi(ano)
	m, _ := strconv.Atoi(mes)
	d, _ := strconv.Atoi(dia)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return nil
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	// rejeita datas que o time.Date normalizou (ex.: 31/02)
	if t.Day() != d || int(t.Month()) != m {
		return nil
	}
	return &t
}

func truncar(t time.Time) *time.Time {
	l := t.Local()
	d := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
	return &d
}

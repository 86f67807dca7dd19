package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRecord registro bruto vindo do backend legado. Os campos variam por
// entidade e podem aparecer em snake_case ou camelCase.
type RawRecord map[string]any

// StatusCategory categoria semântica de exibição de um status
type StatusCategory string

// Categorias canônicas de status
const (
	CategorySuccess StatusCategory = "success"
	CategoryWarning StatusCategory = "warning"
	CategoryDanger  StatusCategory = "danger"
	CategoryNeutral StatusCategory = "neutral"
	CategoryOutline StatusCategory = "outline"
)

// Classification resultado da classificação de um status livre
type Classification struct {
	Categoria StatusCategory `json:"categoria"`
	Alerta    bool           `json:"alerta"`
	Texto     string         `json:"texto"`
}

// String busca o primeiro campo presente (em qualquer grafia) como string.
// Valores numéricos são formatados; ausência degrada para string vazia.
func (r RawRecord) String(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t
			}
		case float64:
			if t == math.Trunc(t) {
				return strconv.FormatInt(int64(t), 10)
			}
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case int64:
			return strconv.FormatInt(t, 10)
		case bool:
			return strconv.FormatBool(t)
		default:
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}

// Number busca o primeiro campo presente que seja um número finito.
func (r RawRecord) Number(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			if !math.IsNaN(t) && !math.IsInf(t, 0) {
				return t, true
			}
		case int:
			return float64(t), true
		case int64:
			return float64(t), true
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Int64 busca o primeiro campo presente como inteiro (primeiro número finito vence).
func (r RawRecord) Int64(keys ...string) (int64, bool) {
	n, ok := r.Number(keys...)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// Has verifica se algum dos campos existe no registro (mesmo vazio).
func (r RawRecord) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := r[k]; ok {
			return true
		}
	}
	return false
}

package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

// AsString coage qualquer valor para string; nil/ausente vira string vazia.
// Nenhuma função deste pacote lança pânico por dado ausente.
func AsString(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Lower converte para minúsculas de forma nil-safe
func Lower(v any) string {
	return strings.ToLower(AsString(v))
}

// StripDiacritics remove acentos via decomposição Unicode (NFD → drop Mn → NFC),
// correto para qualquer caractere acentuado do português
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		// fallback para fold ASCII quando a cadeia de transformação falha
		return unidecode.Unidecode(s)
	}
	return out
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// Normalize produz chave comparável: sem acentos, minúscula, espaços colapsados.
// Resíduo não-latino é dobrado para ASCII antes da comparação.
func Normalize(v any) string {
	s := StripDiacritics(AsString(v))
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// Digits mantém apenas dígitos (chave de documento CNPJ/CPF)
func Digits(v any) string {
	var b strings.Builder
	for _, r := range AsString(v) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

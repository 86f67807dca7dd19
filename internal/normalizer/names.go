package normalizer

import "strings"

// conectivos que permanecem minúsculos em posição não inicial
var conectivos = map[string]bool{
	"da": true, "de": true, "do": true,
	"das": true, "dos": true, "e": true,
}

// TitleCaseNome formata nome de pessoa em Title Case preservando os
// conectivos do português ("Maria da Silva e Souza", nunca "Maria Da Silva")
func TitleCaseNome(v any) string {
	s := strings.TrimSpace(AsString(v))
	if s == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if i > 0 && conectivos[w] {
			continue
		}
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

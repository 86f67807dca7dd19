package matcher

import (
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/empresa-normalizer/app/config"
	"github.com/empresa-normalizer/internal/normalizer"
)

// NameSimilarity score combinado Jaro-Winkler + Levenshtein normalizado
// entre dois nomes já normalizados (0.0–1.0)
func NameSimilarity(a, b string) float64 {
	a = normalizer.Normalize(a)
	b = normalizer.Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	dist := levenshtein.ComputeDistance(a, b)
	maior := len([]rune(a))
	if l := len([]rune(b)); l > maior {
		maior = l
	}
	lev := 0.0
	if maior > 0 {
		lev = 1.0 - float64(dist)/float64(maior)
	}

	return config.JWWeight()*jw + config.LevWeight()*lev
}

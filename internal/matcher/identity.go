package matcher

import (
	"sort"

	"github.com/empresa-normalizer/app/config"
	"github.com/empresa-normalizer/app/models"
	"github.com/empresa-normalizer/internal/normalizer"
)

// Index índices de busca de certificados sem chave estrangeira explícita.
// Documento primeiro (autoritativo, não colide entre entidades); nome como
// fallback, porque nomes fantasia colidem com frequência.
type Index struct {
	byDocument map[string]*models.Certificado
	byName     map[string]*models.Certificado
}

// BuildIndex monta os dois índices a partir da lista de certificados.
// Só documentos com pelo menos MinDocDigitos dígitos entram no índice
// (fragmentos parciais não podem casar); primeira ocorrência vence.
func BuildIndex(certificados []models.Certificado) *Index {
	ix := &Index{
		byDocument: make(map[string]*models.Certificado),
		byName:     make(map[string]*models.Certificado),
	}
	minDigitos := config.MinDocDigitos()

	for i := range certificados {
		c := &certificados[i]

		doc := normalizer.Digits(c.Documento)
		if len(doc) >= minDigitos {
			if _, ok := ix.byDocument[doc]; !ok {
				ix.byDocument[doc] = c
			}
		}

		nome := normalizer.Normalize(c.Titular)
		if nome != "" {
			if _, ok := ix.byName[nome]; !ok {
				ix.byName[nome] = c
			}
		}
	}
	return ix
}

// Resolve localiza o certificado de uma empresa: candidatos de documento em
// ordem, depois candidatos de nome. Sem match devolve nil (situação default).
func (ix *Index) Resolve(e models.Empresa) *models.Certificado {
	docs := []string{e.CNPJ}
	nomes := []string{e.RazaoSocial, e.NomeFantasia, e.Responsavel}
	return ix.ResolveCandidatos(docs, nomes)
}

// ResolveCandidatos variante com listas explícitas de candidatos (o payload
// bruto pode carregar campos alternativos de CPF/documento)
func (ix *Index) ResolveCandidatos(docs, nomes []string) *models.Certificado {
	if ix == nil {
		return nil
	}

	// 1. Documento primeiro — match autoritativo
	for _, d := range docs {
		dig := normalizer.Digits(d)
		if dig == "" {
			continue
		}
		if c, ok := ix.byDocument[dig]; ok {
			return c
		}
	}

	// 2. Só sem documento casado o nome é tentado
	for _, n := range nomes {
		chave := normalizer.Normalize(n)
		if chave == "" {
			continue
		}
		if c, ok := ix.byName[chave]; ok {
			return c
		}
	}

	return nil
}

// Sugestao sugestão de vínculo por similaridade de nome
type Sugestao struct {
	Certificado *models.Certificado `json:"certificado"`
	Score       float64             `json:"score"`
}

// Suggest devolve o certificado de titular mais parecido com o nome dado,
// quando o score combinado atinge o mínimo configurado. Uso exclusivo de
// diagnóstico — nunca vincula automaticamente. Empate de score resolve pelo
// titular lexicograficamente menor, para saída reprodutível.
func (ix *Index) Suggest(nome string) *Sugestao {
	if ix == nil {
		return nil
	}
	chave := normalizer.Normalize(nome)
	if chave == "" {
		return nil
	}

	titulares := make([]string, 0, len(ix.byName))
	for titular := range ix.byName {
		titulares = append(titulares, titular)
	}
	sort.Strings(titulares)

	var melhor *models.Certificado
	melhorScore := 0.0
	for _, titular := range titulares {
		s := NameSimilarity(chave, titular)
		if s > melhorScore {
			melhorScore = s
			melhor = ix.byName[titular]
		}
	}

	if melhor == nil || melhorScore < config.SugestaoMinima() {
		return nil
	}
	return &Sugestao{Certificado: melhor, Score: melhorScore}
}

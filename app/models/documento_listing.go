package models

import "time"

// DocumentoArquivo um arquivo (PDF) disponível para um documento
type DocumentoArquivo struct {
	Nome      string `json:"nome" bson:"nome"`
	URL       string `json:"url" bson:"url"`
	EmitidoEm string `json:"emitido_em,omitempty" bson:"emitido_em,omitempty"`
}

// DocumentoListing listagem de arquivos por documento (CNPJ/CPF normalizado),
// unidade cacheada pelo serviço de documentos
type DocumentoListing struct {
	Documento    string             `json:"documento" bson:"documento"`
	Arquivos     []DocumentoArquivo `json:"arquivos" bson:"arquivos"`
	AtualizadoEm time.Time          `json:"atualizado_em" bson:"atualizado_em"`
}

// DocumentoCache entrada persistente do cache L2 (MongoDB)
type DocumentoCache struct {
	ID           string           `bson:"_id,omitempty"`
	Fingerprint  string           `bson:"fingerprint"`
	Documento    string           `bson:"documento"`
	Listing      DocumentoListing `bson:"listing"`
	CreatedAt    time.Time        `bson:"created_at"`
	LastAccessed time.Time        `bson:"last_accessed"`
	AccessCount  int64            `bson:"access_count"`
}

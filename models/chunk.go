package models

// ChunkMetadata carries the document/article provenance of a retrievable chunk.
// Fields mirror the columns of the ingested legal-text CSVs.
type ChunkMetadata struct {
	DocumentName string `json:"document_name"`
	ArticleLabel string `json:"article_label"`
	PageRef      string `json:"page_ref,omitempty"`
	Title        string `json:"title,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
	SourceFile   string `json:"source_file,omitempty"`
}

// Chunk is a unit of retrievable legal text. IDs are assigned at ingestion time
// and are stable for the lifetime of the collection.
type Chunk struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Match pairs a chunk with its raw retrieval distance for one query.
type Match struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float64 `json:"distance"`
}

// Mode classifies a retrieval outcome.
type Mode string

const (
	// ModeGrounded means at least one retrieved chunk passed the relevance gate.
	ModeGrounded Mode = "grounded"

	// ModeGeneral means no retrieved chunk was relevant; the answer is
	// open-domain and carries no citations.
	ModeGeneral Mode = "general"
)

// RetrievalOutcome is the result of gating a retrieval result set.
// Relevant preserves the store's original rank order.
type RetrievalOutcome struct {
	Mode     Mode    `json:"mode"`
	Relevant []Match `json:"relevant"`
}

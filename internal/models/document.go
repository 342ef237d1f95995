package models

import (
	"time"
)

// ExtractStrategy identifies which extraction strategy produced a page's text.
type ExtractStrategy string

const (
	// StrategyFast is the structured text-layer parse (pdfcpu content extraction)
	StrategyFast ExtractStrategy = "fast"
	// StrategyRobust is the layout-aware parse tolerant of malformed structure
	StrategyRobust ExtractStrategy = "robust"
	// StrategyRecover is the low-level parse with per-page error recovery
	StrategyRecover ExtractStrategy = "recover"
	// StrategyOCR is optical character recognition over rendered page images
	StrategyOCR ExtractStrategy = "ocr"
	// StrategyNone marks a page no strategy could read (page stays empty)
	StrategyNone ExtractStrategy = "none"
)

// IngestStatus tracks a document's position in the ingestion lifecycle.
type IngestStatus string

const (
	IngestStatusPending  IngestStatus = "pending"
	IngestStatusIndexed  IngestStatus = "indexed"
	IngestStatusFailed   IngestStatus = "failed"
)

// Document represents one source PDF file belonging to a tenant.
// The raw bytes are read once by the extractor and never mutated.
type Document struct {
	ID        string       `json:"id"` // doc_{uuid}
	TenantID  string       `json:"tenant_id"`
	Path      string       `json:"path"`      // absolute path of the source PDF
	FileName  string       `json:"file_name"` // base name, for reporting
	SizeBytes int64        `json:"size_bytes"`
	PageCount int          `json:"page_count"`
	Status    IngestStatus `json:"status"`
	Error     string       `json:"error,omitempty"` // last ingestion error, if any

	// Provenance records which strategy produced each page's text,
	// keyed by 1-indexed page number.
	PageStrategies map[int]ExtractStrategy `json:"page_strategies,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExtractedPage is the text content of one page plus its provenance.
// Pages are immutable and discarded after chunking.
type ExtractedPage struct {
	PageNumber int             `json:"page_number"` // 1-indexed
	Text       string          `json:"text"`
	Strategy   ExtractStrategy `json:"strategy"`
}

// Empty reports whether the page carries no usable text.
func (p ExtractedPage) Empty() bool {
	return p.Text == ""
}

// Chunk is a contiguous span of extracted text, the unit of retrieval.
// Chunks from one document are produced in reading order; adjacent chunks
// overlap by a fixed character window so no fact is lost at a boundary.
type Chunk struct {
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	Seq        int    `json:"seq"` // sequence index within the tenant's corpus
	PageStart  int    `json:"page_start"`
	PageEnd    int    `json:"page_end"`
	Text       string `json:"text"`
}

// IndexedChunk pairs a chunk with its embedding vector. The pairing is the
// atomic unit stored in a tenant index.
type IndexedChunk struct {
	Chunk  Chunk     `json:"chunk"`
	Vector []float32 `json:"vector"`
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTenantNotFound indicates no persisted index exists for a tenant.
// Recoverable: the caller triggers ingestion and retries.
var ErrTenantNotFound = errors.New("tenant has no persisted index")

// ErrIndexCorrupt indicates a persisted index exists but could not be
// decoded. Treated as not-found for load purposes but logged distinctly.
var ErrIndexCorrupt = errors.New("persisted index is corrupt")

// ErrNoDocuments indicates a tenant has no PDF files to ingest.
var ErrNoDocuments = errors.New("no documents found for tenant")

// ExtractionError reports a document unreadable at the container level after
// all page-level recovery attempts. Fatal for that document's ingestion only.
type ExtractionError struct {
	TenantID string
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s (tenant %s): %v", e.FileName, e.TenantID, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IngestFailedError reports a run in which not a single document could be
// extracted. The run fails outright rather than persisting an empty index
// over whatever the tenant was previously serving.
type IngestFailedError struct {
	TenantID   string
	FailedDocs []string
}

func (e *IngestFailedError) Error() string {
	return fmt.Sprintf("ingestion failed for tenant %s: none of the documents could be read (%s)",
		e.TenantID, strings.Join(e.FailedDocs, ", "))
}

// EmbeddingError reports an embedding call that failed after bounded retries.
// Fatal for the ingestion run; any previously persisted index stays servable.
type EmbeddingError struct {
	TenantID string
	ChunkSeq int
	Attempts int
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed for tenant %s chunk %d after %d attempts: %v", e.TenantID, e.ChunkSeq, e.Attempts, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

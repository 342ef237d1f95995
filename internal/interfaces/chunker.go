package interfaces

import (
	"github.com/ternarybob/respondeo/internal/models"
)

// Chunker splits extracted pages into overlapping passages sized for
// embedding and retrieval. Chunking is deterministic given identical input
// and configuration, preserves document order, and never drops content:
// concatenating the non-overlapping regions of consecutive chunks
// reconstructs the extracted text.
type Chunker interface {
	Chunk(doc *models.Document, pages []models.ExtractedPage, startSeq int) []models.Chunk
}

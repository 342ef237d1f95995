// -----------------------------------------------------------------------
// Extractor Interface - Multi-strategy text extraction from PDF documents
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// Extractor converts a raw PDF file into plain-text pages. Strategies are
// attempted in a fixed priority order; the first that yields usable text for
// a page wins for that page, so pages within one document may be satisfied by
// different strategies. A page nothing can read contributes an empty
// ExtractedPage rather than failing the document; only container-level I/O
// errors fail the whole document (as *models.ExtractionError).
type Extractor interface {
	// Extract produces one ExtractedPage per page of the document at path,
	// in page order, tagged with the strategy that produced it.
	Extract(ctx context.Context, doc *models.Document) ([]models.ExtractedPage, error)
}

// PageStrategy is one extraction approach applied to a document. The pages
// argument is the ascending set of 1-indexed pages still unresolved by
// earlier strategies; implementations work only on those pages, which keeps
// expensive rungs (OCR in particular) away from pages already read.
// Pages a strategy cannot read are simply absent from the returned map. A
// non-nil error means the strategy could not process the document at all.
type PageStrategy interface {
	Name() models.ExtractStrategy
	ExtractPages(ctx context.Context, path string, pages []int) (map[int]string, error)
}

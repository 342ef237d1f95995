package chunker

import (
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Service splits extracted pages into fixed-size overlapping chunks.
// Sizes are measured in runes so multi-byte text never splits mid-character.
// Chunking is deterministic for a given input and configuration; the same
// document always yields the same chunk boundaries.
type Service struct {
	size    int
	overlap int
	logger  arbor.ILogger
}

var _ interfaces.Chunker = (*Service)(nil)

// NewService creates a chunker with the given window size and overlap,
// both in runes. An overlap at or above the size is treated as zero.
func NewService(size, overlap int, logger arbor.ILogger) *Service {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Service{
		size:    size,
		overlap: overlap,
		logger:  logger,
	}
}

// Chunk splits the document's pages into overlapping chunks in reading
// order. Empty pages contribute nothing but page numbering is preserved, so
// each chunk's page range still points at the right pages of the source PDF.
// Seq numbering starts at startSeq and is contiguous across the chunks
// returned, letting the caller keep one sequence across a whole corpus.
func (s *Service) Chunk(doc *models.Document, pages []models.ExtractedPage, startSeq int) []models.Chunk {
	// Concatenate pages, recording the rune offset where each page ends so
	// chunk boundaries can be mapped back to page numbers.
	var sb strings.Builder
	type pageSpan struct {
		page int
		end  int // exclusive rune offset
	}
	var spans []pageSpan
	runeCount := 0
	for _, page := range pages {
		if page.Empty() {
			continue
		}
		if runeCount > 0 {
			sb.WriteString("\n")
			runeCount++
		}
		n := len([]rune(page.Text))
		sb.WriteString(page.Text)
		runeCount += n
		spans = append(spans, pageSpan{page: page.PageNumber, end: runeCount})
	}

	runes := []rune(sb.String())
	if len(runes) == 0 {
		return nil
	}

	pageAt := func(offset int) int {
		for _, span := range spans {
			if offset < span.end {
				return span.page
			}
		}
		return spans[len(spans)-1].page
	}

	step := s.size - s.overlap

	var chunks []models.Chunk
	seq := startSeq
	for i := 0; i < len(runes); i += step {
		end := i + s.size
		if end > len(runes) {
			end = len(runes)
		}

		// The window is stored untrimmed: trimming would shift chunk
		// content relative to the fixed overlap and corrupt
		// reconstruction when a boundary lands on whitespace. Only
		// windows with no content at all are skipped.
		text := string(runes[i:end])
		if strings.TrimSpace(text) != "" {
			chunks = append(chunks, models.Chunk{
				DocumentID: doc.ID,
				FileName:   doc.FileName,
				Seq:        seq,
				PageStart:  pageAt(i),
				PageEnd:    pageAt(end - 1),
				Text:       text,
			})
			seq++
		}

		if end == len(runes) {
			break
		}
	}

	s.logger.Debug().
		Str("document_id", doc.ID).
		Int("pages", len(pages)).
		Int("chunks", len(chunks)).
		Msg("Chunked document")

	return chunks
}

package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// openTolerant opens a document with the layout-aware reader.
func openTolerant(path string) (*os.File, *pdf.Reader, error) {
	return pdf.Open(path)
}

// robustStrategy parses the text layer page by page with a layout-aware
// reader that tolerates structural oddities the strict parser chokes on.
// Slower than fastStrategy but reads a wider range of real-world PDFs.
type robustStrategy struct{}

var _ interfaces.PageStrategy = (*robustStrategy)(nil)

func newRobustStrategy() *robustStrategy {
	return &robustStrategy{}
}

func (s *robustStrategy) Name() models.ExtractStrategy {
	return models.StrategyRobust
}

func (s *robustStrategy) ExtractPages(ctx context.Context, path string, pages []int) (map[int]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()

	pageTexts := make(map[int]string)
	for _, pageNum := range pages {
		if pageNum < 1 || pageNum > total {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.extractPage(reader, pageNum)
		if err != nil {
			// One unreadable page falls through to the next strategy;
			// the rest of the document is still worth parsing.
			continue
		}
		if text != "" {
			pageTexts[pageNum] = text
		}
	}

	return pageTexts, nil
}

// extractPage reads one page's plain text. The underlying reader panics on
// some malformed content streams, so the panic is converted to an error and
// contained to the page that caused it.
func (s *robustStrategy) extractPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parse panicked: %v", r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", pageNum)
	}

	raw, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("plain text extraction failed: %w", err)
	}

	return strings.TrimSpace(raw), nil
}

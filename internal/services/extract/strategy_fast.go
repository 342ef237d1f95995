package extract

import (
	"context"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// fastStrategy parses the document's text layer in one pass with strict
// validation. Cheapest and first in line; handles the cleanly produced PDFs
// that make up most corpora, and fails wholesale on anything malformed.
type fastStrategy struct {
	tempDir string
}

var _ interfaces.PageStrategy = (*fastStrategy)(nil)

func newFastStrategy(tempDir string) *fastStrategy {
	return &fastStrategy{tempDir: tempDir}
}

func (s *fastStrategy) Name() models.ExtractStrategy {
	return models.StrategyFast
}

func (s *fastStrategy) ExtractPages(ctx context.Context, path string, pages []int) (map[int]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	return extractContentPages(path, s.tempDir, pageSelection(pages), conf)
}

// pageSelection converts page numbers to the selection strings pdfcpu takes.
func pageSelection(pages []int) []string {
	sel := make([]string, 0, len(pages))
	for _, pageNum := range pages {
		sel = append(sel, strconv.Itoa(pageNum))
	}
	return sel
}

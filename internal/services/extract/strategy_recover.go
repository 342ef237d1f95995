package extract

import (
	"context"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// recoverStrategy re-runs content extraction one page at a time with relaxed
// validation. A damaged object on one page then costs only that page instead
// of the whole document. Much slower than the single-pass strategies; it only
// ever sees pages they already gave up on.
type recoverStrategy struct {
	tempDir string
}

var _ interfaces.PageStrategy = (*recoverStrategy)(nil)

func newRecoverStrategy(tempDir string) *recoverStrategy {
	return &recoverStrategy{tempDir: tempDir}
}

func (s *recoverStrategy) Name() models.ExtractStrategy {
	return models.StrategyRecover
}

func (s *recoverStrategy) ExtractPages(ctx context.Context, path string, pages []int) (map[int]string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageTexts := make(map[int]string)
	for _, pageNum := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		texts, err := extractContentPages(path, s.tempDir, []string{strconv.Itoa(pageNum)}, conf)
		if err != nil {
			// Page-level failure stays page-level
			continue
		}
		if text, ok := texts[pageNum]; ok && text != "" {
			pageTexts[pageNum] = text
		}
	}

	return pageTexts, nil
}

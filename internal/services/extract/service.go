// -----------------------------------------------------------------------
// Extraction Service - Multi-strategy text extraction from PDF documents
// Uses pdfcpu and a layout-aware reader, with OCR as the last resort
// -----------------------------------------------------------------------

package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Service runs the extraction strategy cascade over a document. Strategies
// are tried in fixed priority order (fast, robust, recover, ocr) and each
// one sees only the pages its predecessors left unresolved, so pages within
// one document may be satisfied by different strategies. A page nothing can
// read yields an empty page rather than failing the document; only a
// document unreadable at the container level fails ingestion of that
// document.
type Service struct {
	strategies []interfaces.PageStrategy
	minChars   int
	logger     arbor.ILogger
}

var _ interfaces.Extractor = (*Service)(nil)

// NewService builds the cascade from configuration. OCR joins the cascade
// only when enabled and the recognizer is actually runnable on this host.
func NewService(cfg *common.ExtractionConfig, recognizer interfaces.Recognizer, logger arbor.ILogger) *Service {
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "respondeo")
	}
	os.MkdirAll(tempDir, 0755)

	strategies := []interfaces.PageStrategy{
		newFastStrategy(tempDir),
		newRobustStrategy(),
		newRecoverStrategy(tempDir),
	}

	if cfg.OCREnabled {
		if recognizer != nil && recognizer.Available() {
			strategies = append(strategies, newOCRStrategy(recognizer, tempDir, logger))
		} else {
			logger.Warn().Msg("OCR enabled but recognizer unavailable, scanned pages will stay empty")
		}
	}

	minChars := cfg.MinTextChars
	if minChars <= 0 {
		minChars = 16
	}

	return &Service{
		strategies: strategies,
		minChars:   minChars,
		logger:     logger,
	}
}

// NewServiceWithStrategies builds a cascade from explicit strategies.
// Used by tests and by callers that need a custom ladder.
func NewServiceWithStrategies(strategies []interfaces.PageStrategy, minChars int, logger arbor.ILogger) *Service {
	return &Service{
		strategies: strategies,
		minChars:   minChars,
		logger:     logger,
	}
}

// Extract produces one ExtractedPage per page of the document, in page
// order. Records per-page provenance on the document as a side effect.
func (s *Service) Extract(ctx context.Context, doc *models.Document) ([]models.ExtractedPage, error) {
	pageCount, err := s.pageCount(doc.Path)
	if err != nil {
		return nil, &models.ExtractionError{
			TenantID: doc.TenantID,
			FileName: doc.FileName,
			Err:      err,
		}
	}
	doc.PageCount = pageCount

	resolved := make(map[int]models.ExtractedPage, pageCount)

	for _, strategy := range s.strategies {
		if len(resolved) == pageCount {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Each rung sees only the pages its predecessors left behind
		unresolved := make([]int, 0, pageCount-len(resolved))
		for pageNum := 1; pageNum <= pageCount; pageNum++ {
			if _, done := resolved[pageNum]; !done {
				unresolved = append(unresolved, pageNum)
			}
		}

		texts, err := strategy.ExtractPages(ctx, doc.Path, unresolved)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn().
				Err(err).
				Str("file", doc.FileName).
				Str("strategy", string(strategy.Name())).
				Msg("Extraction strategy failed, falling through")
			continue
		}

		claimed := 0
		for pageNum, text := range texts {
			if _, done := resolved[pageNum]; done {
				continue
			}
			if !s.usable(text) {
				continue
			}
			resolved[pageNum] = models.ExtractedPage{
				PageNumber: pageNum,
				Text:       text,
				Strategy:   strategy.Name(),
			}
			claimed++
		}

		s.logger.Debug().
			Str("file", doc.FileName).
			Str("strategy", string(strategy.Name())).
			Int("pages_claimed", claimed).
			Int("pages_resolved", len(resolved)).
			Int("page_count", pageCount).
			Msg("Extraction strategy pass complete")
	}

	// Assemble in page order; unresolved pages stay empty
	pages := make([]models.ExtractedPage, 0, pageCount)
	if doc.PageStrategies == nil {
		doc.PageStrategies = make(map[int]models.ExtractStrategy, pageCount)
	}
	emptyPages := 0
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page, ok := resolved[pageNum]
		if !ok {
			page = models.ExtractedPage{PageNumber: pageNum, Strategy: models.StrategyNone}
			emptyPages++
		}
		doc.PageStrategies[pageNum] = page.Strategy
		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].PageNumber < pages[j].PageNumber })

	s.logger.Info().
		Str("file", doc.FileName).
		Int("page_count", pageCount).
		Int("empty_pages", emptyPages).
		Msg("Document extraction complete")

	return pages, nil
}

// usable reports whether text carries enough content to count as extracted.
// Whitespace is normalized first so a page of stray newlines does not pass.
func (s *Service) usable(text string) bool {
	normalized := strings.Join(strings.Fields(text), " ")
	return len([]rune(normalized)) >= s.minChars
}

// pageCount determines the page count, trying the strict reader first and
// the tolerant one second. Failure of both means the container itself is
// unreadable.
func (s *Service) pageCount(path string) (int, error) {
	if count, err := api.PageCountFile(path); err == nil && count > 0 {
		return count, nil
	}

	count, err := s.pageCountTolerant(path)
	if err != nil {
		return 0, fmt.Errorf("unreadable at container level: %w", err)
	}
	return count, nil
}

func (s *Service) pageCountTolerant(path string) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page count panicked: %v", r)
		}
	}()

	f, reader, err := openTolerant(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count = reader.NumPage()
	if count <= 0 {
		return 0, fmt.Errorf("no pages found")
	}
	return count, nil
}

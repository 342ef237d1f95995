package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// writeTestPDF generates a PDF with one page per entry in pageTexts.
func writeTestPDF(t *testing.T, path string, pageTexts []string) {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pageTexts {
		doc.AddPage()
		doc.MultiCell(0, 6, text, "", "L", false)
	}
	require.NoError(t, doc.OutputFileAndClose(path))
}

// scriptedStrategy returns canned per-page text for the pages it is asked
// about, or an error for the whole document. Records each request so tests
// can assert which pages reached it.
type scriptedStrategy struct {
	name     models.ExtractStrategy
	pages    map[int]string
	err      error
	calls    int
	requests [][]int
}

func (s *scriptedStrategy) Name() models.ExtractStrategy { return s.name }

func (s *scriptedStrategy) ExtractPages(ctx context.Context, path string, pages []int) (map[int]string, error) {
	s.calls++
	s.requests = append(s.requests, append([]int(nil), pages...))
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[int]string)
	for _, pageNum := range pages {
		if text, ok := s.pages[pageNum]; ok {
			out[pageNum] = text
		}
	}
	return out, nil
}

func testDocument(t *testing.T, pageTexts []string) *models.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.pdf")
	writeTestPDF(t, path, pageTexts)
	return &models.Document{
		ID:       "doc-1",
		TenantID: "12345678",
		Path:     path,
		FileName: "input.pdf",
	}
}

func TestCascadeFirstUsableStrategyWins(t *testing.T) {
	doc := testDocument(t, []string{"page one", "page two", "page three"})

	longText := strings.Repeat("text ", 10)
	fast := &scriptedStrategy{name: models.StrategyFast, pages: map[int]string{1: longText}}
	ocr := &scriptedStrategy{name: models.StrategyOCR, pages: map[int]string{1: "should not win", 2: longText}}

	svc := NewServiceWithStrategies([]interfaces.PageStrategy{fast, ocr}, 16, arbor.NewLogger())

	pages, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	// Page 1 keeps the fast result even though OCR also produced text
	assert.Equal(t, models.StrategyFast, pages[0].Strategy)
	assert.Equal(t, models.StrategyOCR, pages[1].Strategy)

	// Page 3 was readable by nothing and stays empty instead of failing
	assert.Equal(t, models.StrategyNone, pages[2].Strategy)
	assert.True(t, pages[2].Empty())

	// Provenance is recorded per page
	assert.Equal(t, models.StrategyFast, doc.PageStrategies[1])
	assert.Equal(t, models.StrategyOCR, doc.PageStrategies[2])
	assert.Equal(t, models.StrategyNone, doc.PageStrategies[3])
	assert.Equal(t, 3, doc.PageCount)
}

func TestCascadeStrategyErrorFallsThrough(t *testing.T) {
	doc := testDocument(t, []string{"only page"})

	longText := strings.Repeat("recovered ", 5)
	broken := &scriptedStrategy{name: models.StrategyFast, err: errors.New("parse failed")}
	fallback := &scriptedStrategy{name: models.StrategyRobust, pages: map[int]string{1: longText}}

	svc := NewServiceWithStrategies([]interfaces.PageStrategy{broken, fallback}, 16, arbor.NewLogger())

	pages, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, models.StrategyRobust, pages[0].Strategy)
	assert.Equal(t, 1, broken.calls)
}

func TestCascadeShortTextFallsThrough(t *testing.T) {
	doc := testDocument(t, []string{"only page"})

	// Below the minimum character threshold after whitespace normalization
	fast := &scriptedStrategy{name: models.StrategyFast, pages: map[int]string{1: "a b\n\n c "}}
	ocr := &scriptedStrategy{name: models.StrategyOCR, pages: map[int]string{1: strings.Repeat("scanned text ", 4)}}

	svc := NewServiceWithStrategies([]interfaces.PageStrategy{fast, ocr}, 16, arbor.NewLogger())

	pages, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyOCR, pages[0].Strategy)
}

func TestCascadeLaterStrategiesSeeOnlyUnresolvedPages(t *testing.T) {
	doc := testDocument(t, []string{"page one", "page two"})

	longText := strings.Repeat("text ", 10)
	fast := &scriptedStrategy{name: models.StrategyFast, pages: map[int]string{1: longText}}
	ocr := &scriptedStrategy{name: models.StrategyOCR, pages: map[int]string{2: longText}}

	svc := NewServiceWithStrategies([]interfaces.PageStrategy{fast, ocr}, 16, arbor.NewLogger())

	_, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)

	// The first rung sees every page; the slow rung sees only the page the
	// fast parse could not read
	require.Len(t, fast.requests, 1)
	assert.Equal(t, []int{1, 2}, fast.requests[0])
	require.Len(t, ocr.requests, 1)
	assert.Equal(t, []int{2}, ocr.requests[0])
}

func TestCascadeStopsOnceAllPagesResolved(t *testing.T) {
	doc := testDocument(t, []string{"only page"})

	longText := strings.Repeat("text ", 10)
	fast := &scriptedStrategy{name: models.StrategyFast, pages: map[int]string{1: longText}}
	ocr := &scriptedStrategy{name: models.StrategyOCR}

	svc := NewServiceWithStrategies([]interfaces.PageStrategy{fast, ocr}, 16, arbor.NewLogger())

	_, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 0, ocr.calls, "later strategies should not run once every page is resolved")
}

func TestExtractUnreadableContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0644))

	doc := &models.Document{ID: "doc-x", TenantID: "12345678", Path: path, FileName: "garbage.pdf"}
	svc := NewServiceWithStrategies(nil, 16, arbor.NewLogger())

	_, err := svc.Extract(context.Background(), doc)
	require.Error(t, err)

	var exErr *models.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "garbage.pdf", exErr.FileName)
}

func TestExtractRealTextLayer(t *testing.T) {
	// End to end against the real strategy ladder, no OCR
	doc := testDocument(t, []string{
		"The quarterly revenue was 4.2 million dollars.",
		"Operating costs decreased by twelve percent.",
	})

	svc := NewServiceWithStrategies([]interfaces.PageStrategy{
		newFastStrategy(t.TempDir()),
		newRobustStrategy(),
	}, 16, arbor.NewLogger())

	pages, err := svc.Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Contains(t, pages[0].Text, "quarterly revenue")
	assert.Contains(t, pages[1].Text, "Operating costs")
	assert.NotEqual(t, models.StrategyNone, pages[0].Strategy)
}

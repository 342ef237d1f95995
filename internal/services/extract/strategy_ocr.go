package extract

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// ocrStrategy recognizes text in pages the structured parsers could not
// read, characteristically scanned pages whose only content is a full-page
// image. Embedded page images are pulled out with pdfcpu and fed to the
// recognizer one by one. Orders of magnitude slower than the parse
// strategies, so it runs last and only on leftover pages.
type ocrStrategy struct {
	recognizer interfaces.Recognizer
	tempDir    string
	logger     arbor.ILogger
}

var _ interfaces.PageStrategy = (*ocrStrategy)(nil)

func newOCRStrategy(recognizer interfaces.Recognizer, tempDir string, logger arbor.ILogger) *ocrStrategy {
	return &ocrStrategy{
		recognizer: recognizer,
		tempDir:    tempDir,
		logger:     logger,
	}
}

func (s *ocrStrategy) Name() models.ExtractStrategy {
	return models.StrategyOCR
}

func (s *ocrStrategy) ExtractPages(ctx context.Context, path string, pages []int) (map[int]string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageTexts := make(map[int]string)
	for _, pageNum := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.recognizePage(ctx, path, pageNum, conf)
		if err != nil {
			s.logger.Debug().
				Err(err).
				Str("path", path).
				Int("page", pageNum).
				Msg("OCR skipped page")
			continue
		}
		if text != "" {
			pageTexts[pageNum] = text
		}
	}

	return pageTexts, nil
}

// recognizePage extracts the page's embedded images into a scratch directory
// and runs the recognizer over each, concatenating the results.
func (s *ocrStrategy) recognizePage(ctx context.Context, path string, pageNum int, conf *model.Configuration) (string, error) {
	outDir, err := os.MkdirTemp(s.tempDir, "ocr-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractImagesFile(path, outDir, []string{strconv.Itoa(pageNum)}, conf); err != nil {
		return "", err
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		text, err := s.recognizer.Recognize(ctx, filepath.Join(outDir, file.Name()))
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

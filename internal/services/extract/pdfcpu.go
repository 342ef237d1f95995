package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractContentPages runs pdfcpu content extraction for the selected pages
// (nil means all) and returns the showable text per page, keyed by 1-indexed
// page number. Content streams land as Content_page_N files in a scratch
// directory which is removed before returning.
func extractContentPages(path, tempDir string, selectedPages []string, conf *model.Configuration) (map[int]string, error) {
	outDir, err := os.MkdirTemp(tempDir, "content-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, selectedPages, conf); err != nil {
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scratch directory: %w", err)
	}

	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		if text := textFromContentStream(string(raw)); text != "" {
			pageTexts[pageNum] = text
		}
	}

	return pageTexts, nil
}

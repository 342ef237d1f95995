// -----------------------------------------------------------------------
// OCR Recognizer - Optical character recognition via the tesseract binary
// -----------------------------------------------------------------------

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// TesseractRecognizer recognizes text in page images by invoking the
// tesseract binary. OCR is the extraction path of last resort and the only
// one that reads scanned, image-only pages; a host without tesseract simply
// reports Available() false and those pages stay empty.
type TesseractRecognizer struct {
	binPath string
	dpi     int
	logger  arbor.ILogger
}

var _ interfaces.Recognizer = (*TesseractRecognizer)(nil)

// NewTesseractRecognizer creates a recognizer using the given binary path
// and resolution hint. An empty path defaults to "tesseract" resolved via
// PATH. Images extracted from PDFs routinely lack DPI metadata, so dpi is
// passed through to tesseract when positive; zero omits the flag.
func NewTesseractRecognizer(binPath string, dpi int, logger arbor.ILogger) *TesseractRecognizer {
	if binPath == "" {
		binPath = "tesseract"
	}
	return &TesseractRecognizer{
		binPath: binPath,
		dpi:     dpi,
		logger:  logger,
	}
}

// Available reports whether the tesseract binary can be resolved on this host.
func (r *TesseractRecognizer) Available() bool {
	_, err := exec.LookPath(r.binPath)
	return err == nil
}

// Recognize runs tesseract over the image file and returns the recognized
// text. Blocking and slow (seconds per page); honors ctx cancellation.
func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binPath, r.args(imagePath)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed for %s: %w (stderr: %s)", imagePath, err, strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	r.logger.Debug().
		Str("image", imagePath).
		Int("text_length", len(text)).
		Msg("OCR completed")

	return text, nil
}

// args builds the tesseract invocation. "stdout" makes tesseract write
// recognized text to stdout instead of a file.
func (r *TesseractRecognizer) args(imagePath string) []string {
	args := []string{imagePath, "stdout"}
	if r.dpi > 0 {
		args = append(args, "--dpi", strconv.Itoa(r.dpi))
	}
	return args
}

package interfaces

import "context"

// Recognizer runs optical character recognition over a page image file and
// returns the recognized text. Implementations are blocking and potentially
// slow (seconds per page); callers must never hold cache locks across a call.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)

	// Available reports whether the recognizer can run on this host
	// (e.g. the tesseract binary is installed).
	Available() bool
}

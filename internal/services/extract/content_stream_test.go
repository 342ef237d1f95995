package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFromContentStream(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "simple Tj",
			stream: "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET",
			want:   "Hello World",
		},
		{
			name:   "TJ array with kerning",
			stream: "BT [(Hel) -20 (lo) 10 ( World)] TJ ET",
			want:   "Hello World",
		},
		{
			name:   "positioning breaks lines",
			stream: "BT (first line) Tj 0 -14 Td (second line) Tj ET",
			want:   "first line\nsecond line",
		},
		{
			name:   "escaped parentheses and backslash",
			stream: `BT (a \(nested\) \\ value) Tj ET`,
			want:   `a (nested) \ value`,
		},
		{
			name:   "balanced nested parens",
			stream: "BT ((already balanced)) Tj ET",
			want:   "(already balanced)",
		},
		{
			name:   "octal escape",
			stream: `BT (caf\151) Tj ET`,
			want:   "cafi",
		},
		{
			name:   "hex strings are skipped",
			stream: "BT <48656C6C6F> Tj (visible) Tj ET",
			want:   "visible",
		},
		{
			name:   "comments ignored",
			stream: "% a comment with (string) inside\nBT (real) Tj ET",
			want:   "real",
		},
		{
			name:   "empty stream",
			stream: "",
			want:   "",
		},
		{
			name:   "graphics only",
			stream: "q 1 0 0 1 0 0 cm 0 0 100 100 re f Q",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textFromContentStream(tt.stream))
		})
	}
}

func TestReadLiteralStringUnterminated(t *testing.T) {
	// Unterminated strings consume the rest of the input without panicking
	s, next := readLiteralString("(never closed", 0)
	assert.Equal(t, "never closed", s)
	assert.Equal(t, len("(never closed"), next)
}

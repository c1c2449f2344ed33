// Package extract turns uploaded attachments into plain text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedType is returned for extensions with no extractor.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrInvalidUTF8 is returned when a .txt attachment is not UTF-8.
	ErrInvalidUTF8 = errors.New("text file is not valid utf-8")
	// ErrEmptyPage is returned when a PDF page yields no text.
	ErrEmptyPage = errors.New("pdf page has no extractable text")
)

type extractor func(data []byte) (string, error)

var extractors = map[string]extractor{
	"txt":  extractTXT,
	"docx": extractDOCX,
	"pdf":  extractPDF,
}

// Supported lists the extensions FromBytes can handle, in a stable order.
func Supported() []string {
	return []string{"txt", "docx", "pdf"}
}

// Extension returns the lower-cased extension of fileName without the dot.
func Extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(fileName)), "."))
}

// FromBytes extracts text from an in-memory attachment, dispatching on the
// extension of fileName.
func FromBytes(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := Extension(fileName)
	fn, ok := extractors[ext]
	if !ok {
		return "", fmt.Errorf("extract %q: %w", fileName, ErrUnsupportedType)
	}
	text, err := fn(data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return text, nil
}

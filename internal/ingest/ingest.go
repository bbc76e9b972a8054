// Package ingest loads documents from disk into ordered page texts.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/factify-ai/factify/internal/types"
)

// Loader turns a file path into an ordered sequence of pages. A page with no
// extractable text yields an empty string, never a missing entry.
type Loader interface {
	Load(path string) ([]types.Page, error)
}

// DocumentLoader dispatches to a format-specific loader by file extension.
type DocumentLoader struct {
	pdf  *PDFLoader
	text *TextLoader
}

// NewDocumentLoader creates a loader supporting .pdf and plain-text files.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{
		pdf:  NewPDFLoader(),
		text: NewTextLoader(),
	}
}

// Load reads the file at path and returns its pages in order.
func (l *DocumentLoader) Load(path string) ([]types.Page, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("document not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.pdf.Load(path)
	default:
		return l.text.Load(path)
	}
}

package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/factify-ai/factify/internal/types"
)

// TextLoader loads plain-text documents. Form feeds split pages; a file
// without them is a single page.
type TextLoader struct{}

// NewTextLoader creates a plain-text loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load returns one Page per form-feed-separated section, 1-based.
func (l *TextLoader) Load(path string) ([]types.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	sections := strings.Split(string(data), "\f")
	pages := make([]types.Page, 0, len(sections))
	for i, s := range sections {
		pages = append(pages, types.Page{Number: i + 1, Text: strings.TrimSpace(s)})
	}
	return pages, nil
}

package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/factify-ai/factify/internal/types"
)

// PDFLoader extracts per-page text from a PDF via pdfcpu.
//
// Extraction is a scrape of the literal-string operands in each page's
// decoded content stream. Pages whose text lives in hex strings, CID-encoded
// fonts, or scanned images come back as empty strings, which the loader
// contract allows.
type PDFLoader struct{}

// NewPDFLoader creates a PDF page-text loader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

// Load returns one Page per PDF page, 1-based, in document order.
func (l *PDFLoader) Load(path string) ([]types.Page, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}

	pages := make([]types.Page, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("failed to extract content for page %d of %s: %w", pageNr, path, err)
		}

		text := ""
		if r != nil {
			content, err := io.ReadAll(r)
			if err != nil {
				return nil, fmt.Errorf("failed to read content for page %d of %s: %w", pageNr, path, err)
			}
			text = scrapeContentText(content)
		}

		pages = append(pages, types.Page{Number: pageNr, Text: text})
	}

	return pages, nil
}

// scrapeContentText collects the literal-string operands of a decoded PDF
// content stream. Strings shown by consecutive operators are joined with
// spaces; each TJ array contributes its fragments without separators, since
// the array's numeric entries are kerning adjustments inside one logical run.
func scrapeContentText(content []byte) string {
	var b strings.Builder
	var inArray bool

	i := 0
	for i < len(content) {
		switch content[i] {
		case '[':
			inArray = true
			i++
		case ']':
			inArray = false
			i++
		case '(':
			s, next := readLiteralString(content, i)
			if s != "" {
				if b.Len() > 0 && !inArray {
					b.WriteByte(' ')
				}
				b.WriteString(s)
			}
			i = next
		default:
			i++
		}
	}

	return strings.TrimSpace(b.String())
}

// readLiteralString parses a PDF literal string starting at the '(' at
// position start, honoring backslash escapes, octal codes, and balanced
// nested parentheses. It returns the decoded string and the position after
// the closing ')'.
func readLiteralString(content []byte, start int) (string, int) {
	var b strings.Builder
	depth := 0

	i := start
	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				return b.String(), i + 1
			}
			esc := content[i+1]
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
				// Ignored control glyphs.
			case '(', ')', '\\':
				b.WriteByte(esc)
			default:
				if esc >= '0' && esc <= '7' {
					code, consumed := readOctal(content, i+1)
					b.WriteByte(code)
					i += consumed - 1
				}
			}
			i += 2
		case '(':
			depth++
			if depth > 1 {
				b.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), i
}

// readOctal reads up to three octal digits starting at pos. It returns the
// decoded byte and the number of digits consumed.
func readOctal(content []byte, pos int) (byte, int) {
	var val int
	n := 0
	for n < 3 && pos+n < len(content) {
		c := content[pos+n]
		if c < '0' || c > '7' {
			break
		}
		val = val*8 + int(c-'0')
		n++
	}
	return byte(val), n
}

package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedType = errors.New("unsupported notes file type, use .pdf or .txt")

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize collapses runs of blank lines and trims the text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Text decodes an uploaded text file as UTF-8, dropping invalid bytes.
func Text(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// PDF extracts the plain text of every page, pages separated by a blank line.
func PDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}

	return Normalize(strings.Join(pages, "\n\n")), nil
}

// FromFile picks the extractor from the file extension.
func FromFile(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF(data)
	case ".txt", ".md":
		return Text(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}
}

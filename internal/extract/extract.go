// Package extract turns uploaded reference documents into plain text.
// PDF files get per-page extraction; everything else is decoded as text,
// with a legacy Korean encoding fallback for non-UTF-8 uploads.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/korean"
)

// File extracts text from one uploaded file based on its extension.
func File(name string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return fromPDF(data)
	}
	return decodeText(data), nil
}

// Placeholder is the inline text recorded for a file whose extraction
// failed; it keeps the batch going and leaves a trace for the operator.
func Placeholder(name string, err error) string {
	return fmt.Sprintf("[extraction failed for %s: %v]", name, err)
}

// fromPDF joins per-page text with newlines. A page with no extractable
// text contributes an empty line rather than failing the document.
func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

// decodeText decodes bytes as UTF-8, falling back to EUC-KR when the bytes
// are not valid UTF-8 at all, and substituting invalid sequences otherwise.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	// The EUC-KR decoder substitutes rather than errors, so a clean decode
	// is one that produced no replacement runes.
	if decoded, err := korean.EUCKR.NewDecoder().Bytes(data); err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded)
	}

	return string(bytes.ToValidUTF8(data, []byte("�")))
}

// Package resume extracts candidate contact details from resume files.
package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for files other than PDF, DOCX or text.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// ErrNoText is returned when a file contains no extractable text.
var ErrNoText = errors.New("no extractable text")

// ExtractText returns the normalized plain text of a resume file.
func ExtractText(path string) (string, error) {
	var (
		raw string
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		raw, err = extractPDF(path)
	case ".docx":
		raw, err = extractDOCX(path)
	case ".txt", ".md":
		var data []byte
		data, err = os.ReadFile(path)
		raw = string(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read resume %s: %w", path, err)
	}
	text := normalize(raw)
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, ErrNoText)
	}
	return text, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		data, err := io.ReadAll(rc)
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return "", err
		}
		return stripDocumentXML(data), nil
	}
	return "", errors.New("word/document.xml not found")
}

var (
	xmlTag    = regexp.MustCompile(`<[^>]+>`)
	xmlBreaks = strings.NewReplacer(
		"</w:p>", "\n",
		"<w:br/>", "\n",
		"<w:br />", "\n",
		"<w:tab/>", "\t",
	)
	xmlEntities = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
)

func stripDocumentXML(src []byte) string {
	s := xmlBreaks.Replace(string(src))
	s = xmlTag.ReplaceAllString(s, "")
	return xmlEntities.Replace(s)
}

// normalize trims every line and collapses runs of blank lines.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank++
			if blank == 1 {
				buf.WriteByte('\n')
			}
			continue
		}
		blank = 0
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return strings.TrimSpace(buf.String())
}

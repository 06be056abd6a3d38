package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug names artifacts of untitled books.
const DefaultSlug = "livro"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a book title into a file-name friendly ASCII slug. Accents are
// stripped ("Canção" becomes "cancao"); an empty result is DefaultSlug.
func Slug(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, title)
	if err != nil {
		s = title
	}
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return DefaultSlug
	}
	return s
}

// FileName returns the archive member name of an artifact.
func FileName(slug string, a Artifact) string {
	switch a {
	case ArtifactStandardPDF:
		return slug + ".pdf"
	case ArtifactBleedPDF:
		return slug + "_sangria.pdf"
	case ArtifactEPUB:
		return slug + ".epub"
	default:
		return slug + "_" + string(a)
	}
}

// Package zips the given artifacts in packaging order. Artifacts with no
// bytes are left out.
func Package(title string, files map[Artifact][]byte) ([]byte, error) {
	slug := Slug(title)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, a := range Artifacts {
		data := files[a]
		if len(data) == 0 {
			continue
		}
		w, err := zw.Create(FileName(slug, a))
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", a, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", a, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	return buf.Bytes(), nil
}

package inspect

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// Member is one file of a packaged archive.
type Member struct {
	Name string `json:"name"`
	Size uint64 `json:"size"`
	// Pages is the page count of a PDF or EPUB member, 0 otherwise.
	Pages int `json:"pages,omitempty"`
}

// Archive lists the members of a ZIP produced by export.Package.
func Archive(data []byte) ([]Member, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	members := make([]Member, 0, len(zr.File))
	for _, f := range zr.File {
		m := Member{Name: f.Name, Size: f.UncompressedSize64}

		content, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		if m.Pages, err = PageCount(f.Name, content); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		members = append(members, m)
	}
	return members, nil
}

// ArchiveFile returns the content of the named archive member.
func ArchiveFile(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			return readZipFile(f)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// PageCount dispatches on the file extension. Unknown kinds report 0 pages.
func PageCount(name string, data []byte) (int, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return PDFPageCount(data)
	case ".epub":
		return EPUBPageCount(data)
	default:
		return 0, nil
	}
}

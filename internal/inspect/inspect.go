// Package inspect reads produced artifacts back so their page counts can be
// compared.
package inspect

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

func pdfConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// PageSize is a PDF page size in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PDFPageCount returns the number of pages in a PDF.
func PDFPageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to count pdf pages: %w", err)
	}
	return n, nil
}

// PDFPageSizes returns the media box size of every page.
func PDFPageSizes(data []byte) ([]PageSize, error) {
	dims, err := api.PageDims(bytes.NewReader(data), pdfConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf page sizes: %w", err)
	}
	sizes := make([]PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opf struct {
	Manifest []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// EPUBSpine returns the hrefs of the spine items in reading order, relative
// to the package document.
func EPUBSpine(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}

	var c container
	if err := decodeXML(zr, "META-INF/container.xml", &c); err != nil {
		return nil, err
	}
	if len(c.Rootfiles) == 0 {
		return nil, errors.New("epub container lists no package document")
	}

	var pkg opf
	if err := decodeXML(zr, c.Rootfiles[0].FullPath, &pkg); err != nil {
		return nil, err
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		hrefs[item.ID] = item.Href
	}
	spine := make([]string, 0, len(pkg.Spine))
	for _, ref := range pkg.Spine {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			return nil, fmt.Errorf("spine item %q missing from manifest", ref.IDRef)
		}
		spine = append(spine, href)
	}
	return spine, nil
}

// EPUBPageCount counts the spine documents named page_NNN.xhtml.
func EPUBPageCount(data []byte) (int, error) {
	spine, err := EPUBSpine(data)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, href := range spine {
		if strings.HasPrefix(path.Base(href), "page_") {
			n++
		}
	}
	return n, nil
}

// ReadEPUBFile returns the content of one member of an EPUB, looked up by its
// base name.
func ReadEPUBFile(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	for _, f := range zr.File {
		if path.Base(f.Name) == name {
			return readZipFile(f)
		}
	}
	return nil, fmt.Errorf("%s not found in epub", name)
}

func decodeXML(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	if err := xml.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

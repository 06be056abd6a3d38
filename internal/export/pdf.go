package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/globalteceducacional/toth/internal/render"
	"github.com/jung-kurt/gofpdf"
)

// JPEGQuality is used for every page embedded in a PDF.
const JPEGQuality = 92

// Bleed page size in points: the trim size at 72 pt per inch.
const (
	BleedPageWidthPt  = render.TrimWidthIn * 72
	BleedPageHeightPt = render.TrimHeightIn * 72
)

// StandardPDF writes one page per image, each page sized to its image at one
// point per pixel. An empty page list yields nil bytes.
func StandardPDF(pages []image.Image) ([]byte, error) {
	data, err := writePDF(pages, func(img image.Image) (image.Image, float64, float64) {
		b := img.Bounds()
		return img, float64(b.Dx()), float64(b.Dy())
	})
	if err != nil {
		return nil, &EncodingError{Artifact: ArtifactStandardPDF, Err: err}
	}
	return data, nil
}

// BleedPDF cover-crops every image to the bleed canvas and places it on a
// 6.125in x 9.25in page. An empty page list yields nil bytes.
func BleedPDF(pages []image.Image) ([]byte, error) {
	w, h := render.BleedSize()
	data, err := writePDF(pages, func(img image.Image) (image.Image, float64, float64) {
		return render.Fit(img, w, h), BleedPageWidthPt, BleedPageHeightPt
	})
	if err != nil {
		return nil, &EncodingError{Artifact: ArtifactBleedPDF, Err: err}
	}
	return data, nil
}

type layoutFunc func(image.Image) (img image.Image, widthPt, heightPt float64)

func writePDF(pages []image.Image, layout layoutFunc) ([]byte, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	var buf bytes.Buffer
	for i, page := range pages {
		img, w, h := layout(page)

		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(buf.Bytes()))
		pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to add page %d: %w", i+1, err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}

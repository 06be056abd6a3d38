package request

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/globalteceducacional/toth/internal/assembly"
	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/numbering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
title: Meu Livro
pages:
  - capa.png
  - p1.jpg
  - https://example.com/p2.png
  - /abs/p3.png
moves:
  - page: capa.png
    position: 4
numbering:
  enabled: true
  start: 2
  style: Romano
  alignment: direita
  color: "#FD0"
logo: true
epub_numbering: true
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Meu Livro", f.Title)
	assert.Equal(t, []Move{{Page: "capa.png", Position: 4}}, f.Moves)
	assert.Equal(t, []string{
		filepath.Join(dir, "capa.png"),
		filepath.Join(dir, "p1.jpg"),
		"https://example.com/p2.png",
		"/abs/p3.png",
	}, f.PagePaths())
}

func TestToRequest(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	req, err := f.ToRequest(4)
	require.NoError(t, err)

	gold := color.RGBA{0xFF, 0xDD, 0x00, 0xFF}
	assert.Equal(t, assembly.Request{
		Title:         "Meu Livro",
		Numbering:     true,
		Range:         numbering.Range{Start: 2, End: 4, Initial: 1},
		Style:         numbering.Roman,
		Alignment:     numbering.Right,
		Color:         &gold,
		IncludeLogo:   true,
		EpubNumbering: true,
	}, req)
}

func TestToRequest_Defaults(t *testing.T) {
	f, err := Parse([]byte("title: x\n"))
	require.NoError(t, err)

	req, err := f.ToRequest(7)
	require.NoError(t, err)
	assert.True(t, req.Numbering)
	assert.True(t, req.EpubNumbering)
	assert.Equal(t, numbering.Range{Start: 1, End: 7, Initial: 1}, req.Range)
	assert.Equal(t, numbering.Standard, req.Style)
	assert.Equal(t, numbering.Center, req.Alignment)
	assert.Nil(t, req.Color)
}

func TestToRequest_Disabled(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		pdf, epub bool
	}{
		{"pdf off", "numbering: {enabled: false}", false, true},
		{"epub off", "epub_numbering: false", true, false},
		{"both off", "numbering: {enabled: false}\nepub_numbering: false", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			req, err := f.ToRequest(3)
			require.NoError(t, err)
			assert.Equal(t, tt.pdf, req.Numbering)
			assert.Equal(t, tt.epub, req.EpubNumbering)
		})
	}
}

func TestToRequest_EpubOnlyValidatesRange(t *testing.T) {
	f, err := Parse([]byte("numbering: {enabled: false, end: 9}"))
	require.NoError(t, err)
	_, err = f.ToRequest(3)
	var rangeErr *numbering.RangeError
	assert.ErrorAs(t, err, &rangeErr)

	f.EpubNumbering = Bool(false)
	_, err = f.ToRequest(3)
	assert.NoError(t, err)
}

func TestApplyMoves(t *testing.T) {
	s := book.NewSession()
	for _, name := range []string{"capa.png", "p1.png", "p2.png"} {
		_, _, err := s.Ingest(name, onePixelPNG(t))
		require.NoError(t, err)
	}

	f := &File{Moves: []Move{{Page: "capa.png", Position: 9}}}
	require.NoError(t, f.ApplyMoves(s))

	var names []string
	for _, p := range s.Pages() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"p1.png", "p2.png", "capa.png"}, names)

	f.Moves = []Move{{Page: "missing.png", Position: 1}}
	assert.ErrorIs(t, f.ApplyMoves(s), book.ErrPageNotFound)
}

func onePixelPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestToRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"end past last page", "numbering: {enabled: true, end: 9}"},
		{"start after end", "numbering: {enabled: true, start: 3, end: 2}"},
		{"unknown style", "numbering: {style: gothic}"},
		{"bad alignment", "numbering: {alignment: top}"},
		{"bad color", "numbering: {color: '#12'}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = f.ToRequest(3)
			assert.Error(t, err)
		})
	}
}

func TestToRequest_RangeErrorType(t *testing.T) {
	f, err := Parse([]byte("numbering: {enabled: true, start: 2, end: 5}"))
	require.NoError(t, err)

	_, err = f.ToRequest(3)
	var rangeErr *numbering.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 3, rangeErr.Pages)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("titel: typo\n"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	data, err := f.Marshal()
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.True(t, IsURL("http://example.com/a.png"))
	assert.False(t, IsURL("pages/a.png"))
	assert.False(t, IsURL("file:///a.png"))
	assert.False(t, IsURL("C:/pages/a.png"))
}

package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/globalteceducacional/toth/internal/config"
	"github.com/globalteceducacional/toth/internal/inspect"
	"github.com/globalteceducacional/toth/internal/manifest"
	"github.com/globalteceducacional/toth/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 180))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func testApp(t *testing.T) *app {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	return &app{cfg: cfg}
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()
	assert.NotEmpty(t, Version)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"build", "upload", "inspect", "serve"}, names)
}

func TestParseMove(t *testing.T) {
	m, err := parseMove("capa.png=3")
	require.NoError(t, err)
	assert.Equal(t, request.Move{Page: "capa.png", Position: 3}, m)

	for _, bad := range []string{"capa.png", "=2", "capa.png=x"} {
		_, err := parseMove(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "A.png", color.RGBA{200, 0, 0, 255})
	b := writePNG(t, dir, "B.png", color.RGBA{0, 200, 0, 255})
	c := writePNG(t, dir, "C.png", color.RGBA{0, 0, 200, 255})
	out := filepath.Join(dir, "out")
	manifestPath := filepath.Join(dir, "pages.jsonl")

	cmd := newBuildCmd(testApp(t))
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{a, b, c,
		"--title", "Meu Livro",
		"--style", "romano",
		"--move", "C.png=1",
		"--epub-numbering",
		"--out", out,
		"--manifest", manifestPath,
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	archivePath := filepath.Join(out, "meu-livro.zip")
	assert.Equal(t, archivePath, strings.TrimSpace(stdout.String()))

	data, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	members, err := inspect.Archive(data)
	require.NoError(t, err)
	require.Len(t, members, 3)
	for _, m := range members {
		assert.Equal(t, 3, m.Pages, m.Name)
	}

	rows, err := manifest.ReadFile(manifestPath)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "C.png", rows[0].Name)
	assert.Equal(t, []string{"I", "II", "III"}, []string{rows[0].Label, rows[1].Label, rows[2].Label})
}

func TestBuild_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "p1.png", color.RGBA{10, 10, 10, 255})
	writePNG(t, dir, "p2.png", color.RGBA{20, 20, 20, 255})
	cfgPath := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
title: Arquivo
pages: [p1.png, p2.png]
numbering: {enabled: true, start: 2}
`), 0o644))

	cmd := newBuildCmd(testApp(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "--out", dir, "--initial", "5", "--manifest", filepath.Join(dir, "m.parquet")})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	rows, err := manifest.ReadFile(filepath.Join(dir, "m.parquet"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Numbered)
	assert.Equal(t, "5", rows[1].Label)

	_, err = os.Stat(filepath.Join(dir, "arquivo.zip"))
	assert.NoError(t, err)
}

func TestBuild_NumberingDefaults(t *testing.T) {
	dir := t.TempDir()
	p1 := writePNG(t, dir, "p1.png", color.RGBA{10, 10, 10, 255})
	p2 := writePNG(t, dir, "p2.png", color.RGBA{20, 20, 20, 255})

	tests := []struct {
		name   string
		flags  []string
		labels []string
		epub   bool
	}{
		{"defaults", nil, []string{"1", "2"}, true},
		{"pdf off", []string{"--numbering=false"}, []string{"", ""}, true},
		{"epub off", []string{"--epub-numbering=false"}, []string{"1", "2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			manifestPath := filepath.Join(out, "m.jsonl")
			cmd := newBuildCmd(testApp(t))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(append([]string{p1, p2, "--out", out, "--manifest", manifestPath}, tt.flags...))
			require.NoError(t, cmd.ExecuteContext(context.Background()))

			rows, err := manifest.ReadFile(manifestPath)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, tt.labels, []string{rows[0].Label, rows[1].Label})

			data, err := os.ReadFile(filepath.Join(out, "livro.zip"))
			require.NoError(t, err)
			epub, err := inspect.ArchiveFile(data, "livro.epub")
			require.NoError(t, err)
			page, err := inspect.ReadEPUBFile(epub, "page_002.xhtml")
			require.NoError(t, err)
			assert.Equal(t, tt.epub, strings.Contains(string(page), "page-number"))
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	dir := t.TempDir()
	p := writePNG(t, dir, "p.png", color.RGBA{1, 1, 1, 255})

	tests := map[string][]string{
		"no pages":      {"--out", dir},
		"bad range":     {p, "--end", "4", "--out", dir},
		"unknown move":  {p, "--move", "x.png=1", "--out", dir},
		"missing image": {filepath.Join(dir, "missing.png"), "--out", dir},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := newBuildCmd(testApp(t))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(args)
			assert.Error(t, cmd.ExecuteContext(context.Background()))
		})
	}
}

func TestExecuteInspect(t *testing.T) {
	var out bytes.Buffer
	err := executeInspect(&out, "notes.txt", nil)
	assert.ErrorContains(t, err, "unsupported file type")

	dir := t.TempDir()
	p := writePNG(t, dir, "p.png", color.RGBA{1, 1, 1, 255})
	cmd := newBuildCmd(testApp(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{p, "--out", dir})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "livro.zip"))
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, executeInspect(&out, "livro.zip", data))
	assert.Contains(t, out.String(), "livro_sangria.pdf")
	assert.Contains(t, out.String(), "livro.epub")
}

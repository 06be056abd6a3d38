package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/globalteceducacional/toth/internal/book"
	"github.com/globalteceducacional/toth/internal/export"
	"github.com/globalteceducacional/toth/internal/images"
	"github.com/globalteceducacional/toth/internal/manifest"
	"github.com/globalteceducacional/toth/internal/request"
	"github.com/spf13/cobra"
)

type buildOptions struct {
	configPath    string
	title         string
	numbering     bool
	start         int
	end           int
	initial       int
	style         string
	align         string
	color         string
	logo          bool
	epubNumbering bool
	moves         []string
	outDir        string
	manifestPath  string
	upload        bool
	folderID      string
}

func newBuildCmd(a *app) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [images...]",
		Short: "Assemble page images into a ZIP with both PDFs and the EPUB",
		Long: `Builds the standard PDF, the full-bleed PDF and the EPUB from page images
and packages them as <title>.zip.

Pages come from a YAML request (--config) followed by any images given as
arguments. Images may be local files or http(s) URLs. Flags override the
values of the request file.`,
		Example: `  # Number every page in Roman numerals
  toth build capa.png p1.png p2.png --title "Meu Livro" --style romano

  # Use a request file, move the cover last and write a manifest
  toth build --config book.yaml --move capa.png=3 --manifest pages.parquet

  # Number pages 3-10 starting at 1, right aligned, and upload to Drive
  toth build scans/*.jpg --start 3 --end 10 --align direita --upload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := opts.requestFile(cmd, args)
			if err != nil {
				return err
			}
			if len(file.Pages) == 0 {
				return fmt.Errorf("no pages given: pass images as arguments or use --config")
			}
			return a.runBuild(cmd.Context(), cmd, file, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML book request")
	f.StringVarP(&opts.title, "title", "t", "", "Book title, also used for file names")
	f.BoolVar(&opts.numbering, "numbering", true, "Draw page numbers on the PDF pages (implied by the numbering flags below)")
	f.IntVar(&opts.start, "start", 0, "First numbered page position (default 1)")
	f.IntVar(&opts.end, "end", 0, "Last numbered page position (default: last page)")
	f.IntVar(&opts.initial, "initial", 0, "Number shown on the first numbered page (default 1)")
	f.StringVar(&opts.style, "style", "", "Number style: standard, roman, fresco, modern, vintage, elegant")
	f.StringVar(&opts.align, "align", "", "Number alignment: left, center, right")
	f.StringVar(&opts.color, "color", "", "Number color as #RRGGBB (default: the style color)")
	f.BoolVar(&opts.logo, "logo", false, "Composite the configured logo in the footer")
	f.BoolVar(&opts.epubNumbering, "epub-numbering", true, "Number the EPUB pages")
	f.StringArrayVar(&opts.moves, "move", nil, "Move a page: name=position (repeatable)")
	f.StringVarP(&opts.outDir, "out", "o", ".", "Output directory")
	f.StringVar(&opts.manifestPath, "manifest", "", "Write a page manifest (.parquet or .jsonl)")
	f.BoolVar(&opts.upload, "upload", false, "Upload the archive to Google Drive")
	f.StringVar(&opts.folderID, "folder", "", "Drive folder ID (default TOTH_DRIVE_FOLDER_ID)")

	return cmd
}

// requestFile merges the request file, the image arguments and the flags.
func (o *buildOptions) requestFile(cmd *cobra.Command, args []string) (*request.File, error) {
	file := &request.File{}
	if o.configPath != "" {
		var err error
		if file, err = request.Load(o.configPath); err != nil {
			return nil, err
		}
		file.Pages = file.PagePaths()
	}
	file.Pages = append(file.Pages, args...)

	changed := cmd.Flags().Changed
	if changed("title") {
		file.Title = o.title
	}
	n := &file.Numbering
	if changed("start") {
		n.Start = o.start
	}
	if changed("end") {
		n.End = o.end
	}
	if changed("initial") {
		n.Initial = o.initial
	}
	if changed("style") {
		n.Style = o.style
	}
	if changed("align") {
		n.Alignment = o.align
	}
	if changed("color") {
		n.Color = o.color
	}
	if changed("numbering") {
		n.Enabled = request.Bool(o.numbering)
	}
	for _, name := range []string{"start", "end", "initial", "style", "align", "color"} {
		if changed(name) && !changed("numbering") {
			n.Enabled = request.Bool(true)
		}
	}
	if changed("logo") {
		file.Logo = o.logo
	}
	if changed("epub-numbering") {
		file.EpubNumbering = request.Bool(o.epubNumbering)
	}

	for _, m := range o.moves {
		move, err := parseMove(m)
		if err != nil {
			return nil, err
		}
		file.Moves = append(file.Moves, move)
	}
	return file, nil
}

func parseMove(s string) (request.Move, error) {
	name, pos, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return request.Move{}, fmt.Errorf("invalid --move %q: expected name=position", s)
	}
	position, err := strconv.Atoi(pos)
	if err != nil {
		return request.Move{}, fmt.Errorf("invalid --move %q: %w", s, err)
	}
	return request.Move{Page: name, Position: position}, nil
}

func (a *app) runBuild(ctx context.Context, cmd *cobra.Command, file *request.File, opts buildOptions) error {
	session, err := ingestPages(ctx, file.Pages)
	if err != nil {
		return err
	}
	if err := file.ApplyMoves(session); err != nil {
		return err
	}

	req, err := file.ToRequest(session.Len())
	if err != nil {
		return err
	}

	res, err := a.newAssembler().Assemble(ctx, session, req)
	if err != nil {
		return err
	}

	archive, err := res.Archive()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name := export.Slug(req.Title) + ".zip"
	out := filepath.Join(opts.outDir, name)
	if err := os.WriteFile(out, archive, 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	slog.Info("Archive written", "path", out, "pages", session.Len())
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if opts.manifestPath != "" {
		if err := manifest.WriteFile(opts.manifestPath, manifest.FromResult(res, req)); err != nil {
			return err
		}
	}

	if opts.upload {
		uploader, err := a.newUploader(ctx)
		if err != nil {
			return err
		}
		ref, err := uploader.Upload(ctx, name, archive, opts.folderID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ref.URL)
	}

	if err := res.Err(); err != nil {
		return fmt.Errorf("%w: %w", errArtifactsFailed, err)
	}
	return nil
}

// ingestPages fetches every source into a new session. Repeated names are
// ingested once.
func ingestPages(ctx context.Context, srcs []string) (*book.Session, error) {
	sources, err := images.NewFetcher().FetchAll(ctx, srcs)
	if err != nil {
		return nil, err
	}

	session := book.NewSession()
	for _, src := range sources {
		_, added, err := session.Ingest(src.Name, src.Data)
		if err != nil {
			return nil, err
		}
		if !added {
			slog.Warn("Skipping duplicate page", "name", src.Name)
		}
	}
	return session, nil
}

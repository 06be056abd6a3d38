package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/globalteceducacional/toth/internal/inspect"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the page counts of an archive, PDF or EPUB",
		Long: `Reads back a built archive (.zip), PDF or EPUB and prints its page counts,
so the three artifacts of a book can be checked against each other.`,
		Example: `  toth inspect livro.zip
  toth inspect livro_sangria.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return executeInspect(cmd.OutOrStdout(), args[0], data)
		},
	}
	return cmd
}

func executeInspect(out io.Writer, path string, data []byte) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		members, err := inspect.Archive(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "NAME\tSIZE\tPAGES")
		for _, m := range members {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", m.Name, m.Size, m.Pages)
		}
	case ".pdf":
		sizes, err := inspect.PDFPageSizes(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d pages\n", filepath.Base(path), len(sizes))
		for i, s := range sizes {
			fmt.Fprintf(tw, "  %d\t%.1f x %.1f pt\n", i+1, s.Width, s.Height)
		}
	case ".epub":
		spine, err := inspect.EPUBSpine(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d spine items\n", filepath.Base(path), len(spine))
		for i, href := range spine {
			fmt.Fprintf(tw, "  %d\t%s\n", i+1, href)
		}
	default:
		return fmt.Errorf("unsupported file type: %s (supported: .zip, .pdf, .epub)", filepath.Ext(path))
	}
	return nil
}

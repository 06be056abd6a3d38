package cmd

import (
	"log/slog"
	"os"

	"github.com/globalteceducacional/toth/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is stamped at build time:
//
//	go build -ldflags "-X github.com/globalteceducacional/toth/cmd.Version=v1.2.0"
var Version = "dev"

// app carries the configuration loaded before any subcommand runs.
type app struct {
	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "toth",
		Short: "Assemble page images into numbered PDF and EPUB editions",
		Long: `Toth turns an ordered set of page images into a finished publication:
a standard PDF, a full-bleed PDF at 6.125in x 9.25in and an EPUB, all
consistently page-numbered and packaged into one ZIP archive.

Settings are read from TOTH_* environment variables and a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	cmd.AddCommand(newBuildCmd(a))
	cmd.AddCommand(newUploadCmd(a))
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newServeCmd(a))

	return cmd
}

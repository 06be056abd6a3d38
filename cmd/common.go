package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/globalteceducacional/toth/internal/assembly"
	"github.com/globalteceducacional/toth/internal/drive"
	"github.com/globalteceducacional/toth/internal/render"
)

// newAssembler builds an assembler from the configured font and logo. Missing
// assets are logged and skipped.
func (a *app) newAssembler() *assembly.Assembler {
	numberer := render.NewNumberer(a.cfg.FontPath)

	var logo *render.Logo
	if a.cfg.LogoPath != "" {
		var err error
		logo, err = render.LoadLogo(a.cfg.LogoPath, a.cfg.LogoOptions())
		if err != nil {
			slog.Warn("Logo unavailable, pages will not be branded", "error", err)
		}
	}

	return assembly.New(assembly.Options{
		Workers:  a.cfg.Workers,
		Numberer: numberer,
		Logo:     logo,
		Author:   a.cfg.Author,
		Language: a.cfg.Language,
	})
}

func (a *app) newUploader(ctx context.Context) (*drive.Uploader, error) {
	return drive.New(ctx, drive.Options{
		CredentialsFile: a.cfg.CredentialsFile(),
		FolderID:        a.cfg.DriveFolderID,
		Retries:         a.cfg.UploadRetries,
	})
}

var errArtifactsFailed = errors.New("some artifacts could not be produced")

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUploadCmd(a *app) *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "upload <archive.zip>",
		Short: "Upload a built archive to Google Drive",
		Long: `Uploads a ZIP produced by "toth build" to Google Drive using the
service-account key in TOTH_DRIVE_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS.`,
		Example: `  toth upload livro.zip --folder 1AbCdEf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read archive: %w", err)
			}

			uploader, err := a.newUploader(cmd.Context())
			if err != nil {
				return err
			}
			ref, err := uploader.Upload(cmd.Context(), filepath.Base(args[0]), data, folderID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&folderID, "folder", "", "Drive folder ID (default TOTH_DRIVE_FOLDER_ID)")

	return cmd
}

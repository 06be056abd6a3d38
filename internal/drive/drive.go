// Package drive uploads packaged books to Google Drive.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const zipMimeType = "application/zip"

// UploadError reports a failed Drive operation. Local artifacts are never
// touched by the uploader, so callers may retry with the same bytes.
type UploadError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("drive %s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Options configures an Uploader.
type Options struct {
	// CredentialsFile is a service-account JSON key.
	CredentialsFile string
	// FolderID is the default parent folder. Empty uploads to the root.
	FolderID string
	// Retries is the maximum number of attempts per upload.
	Retries int
	// Backoff is the delay before the first retry; it doubles each attempt.
	Backoff time.Duration
	// ClientOptions replace the credentials-based options when set.
	ClientOptions []option.ClientOption
}

// Uploader stores archives in Drive.
type Uploader struct {
	files    *drive.FilesService
	folderID string
	retries  int
	backoff  time.Duration
}

// Reference points to an uploaded file.
type Reference struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
}

// New creates an Uploader authenticated with the service account.
func New(ctx context.Context, opts Options) (*Uploader, error) {
	clientOpts := opts.ClientOptions
	if len(clientOpts) == 0 {
		if opts.CredentialsFile == "" {
			return nil, &UploadError{Op: "auth", Err: errors.New("no credentials file configured")}
		}
		clientOpts = []option.ClientOption{
			option.WithCredentialsFile(opts.CredentialsFile),
			option.WithScopes(drive.DriveScope),
		}
	}

	svc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, &UploadError{Op: "auth", Err: err}
	}

	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Uploader{
		files:    svc.Files,
		folderID: opts.FolderID,
		retries:  retries,
		backoff:  backoff,
	}, nil
}

// Upload stores data as name in folderID, or in the default folder when
// folderID is empty. Transient failures are retried with exponential backoff.
func (u *Uploader) Upload(ctx context.Context, name string, data []byte, folderID string) (*Reference, error) {
	if folderID == "" {
		folderID = u.folderID
	}
	meta := &drive.File{Name: name, MimeType: zipMimeType}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	var lastErr error
	for attempt := 1; attempt <= u.retries; attempt++ {
		file, err := u.files.Create(meta).
			Media(bytes.NewReader(data), googleapi.ContentType(zipMimeType)).
			Fields("id").
			Context(ctx).
			Do()
		if err == nil {
			slog.Info("Uploaded archive", "name", name, "file_id", file.Id, "attempts", attempt)
			return &Reference{FileID: file.Id, URL: FileURL(file.Id)}, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, &UploadError{Op: "upload", Attempts: attempt, Err: ctx.Err()}
		}
		if !Retryable(err) || attempt == u.retries {
			return nil, &UploadError{Op: "upload", Attempts: attempt, Err: err}
		}

		delay := u.backoff << (attempt - 1)
		slog.Warn("Upload failed, retrying", "name", name, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, &UploadError{Op: "upload", Attempts: attempt, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return nil, &UploadError{Op: "upload", Attempts: u.retries, Err: lastErr}
}

// FileURL is the browser link of a Drive file.
func FileURL(id string) string {
	return "https://drive.google.com/file/d/" + url.PathEscape(id) + "/view"
}

// Retryable reports whether err is transient: a 429 or 5xx from the API, or
// a network failure.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

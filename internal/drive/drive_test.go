package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// fakeDrive answers with the given status codes in turn, then keeps
// answering with the last one.
type fakeDrive struct {
	statuses []int
	calls    atomic.Int32
	lastBody atomic.Value
	lastPath atomic.Value
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(f.calls.Add(1))
	body, _ := io.ReadAll(r.Body)
	f.lastBody.Store(string(body))
	f.lastPath.Store(r.URL.Path)

	status := f.statuses[min(n, len(f.statuses))-1]
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusOK {
		fmt.Fprint(w, `{"id":"file-123"}`)
		return
	}
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"fake failure"}}`, status)
}

func newUploader(t *testing.T, fake *fakeDrive, retries int) *Uploader {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := New(context.Background(), Options{
		FolderID: "default-folder",
		Retries:  retries,
		Backoff:  time.Millisecond,
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithHTTPClient(srv.Client()),
		},
	})
	require.NoError(t, err)
	return u
}

func TestUpload_Success(t *testing.T) {
	fake := &fakeDrive{statuses: []int{http.StatusOK}}
	u := newUploader(t, fake, 3)

	ref, err := u.Upload(context.Background(), "livro.zip", []byte("PK zip bytes"), "folder-9")
	require.NoError(t, err)

	assert.Equal(t, "file-123", ref.FileID)
	assert.Equal(t, "https://drive.google.com/file/d/file-123/view", ref.URL)
	assert.Equal(t, int32(1), fake.calls.Load())

	body := fake.lastBody.Load().(string)
	assert.Contains(t, body, `"name":"livro.zip"`)
	assert.Contains(t, body, `"parents":["folder-9"]`)
	assert.Contains(t, body, "PK zip bytes")
	assert.Contains(t, fake.lastPath.Load().(string), "upload/drive/v3/files")
}

func TestUpload_DefaultFolder(t *testing.T) {
	fake := &fakeDrive{statuses: []int{http.StatusOK}}
	u := newUploader(t, fake, 1)

	_, err := u.Upload(context.Background(), "livro.zip", []byte("data"), "")
	require.NoError(t, err)
	assert.Contains(t, fake.lastBody.Load().(string), `"parents":["default-folder"]`)
}

func TestUpload_RetriesTransient(t *testing.T) {
	fake := &fakeDrive{statuses: []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK}}
	u := newUploader(t, fake, 3)

	ref, err := u.Upload(context.Background(), "livro.zip", []byte("data"), "")
	require.NoError(t, err)
	assert.Equal(t, "file-123", ref.FileID)
	assert.Equal(t, int32(3), fake.calls.Load())
	assert.Contains(t, fake.lastBody.Load().(string), "data", "every attempt resends the archive")
}

func TestUpload_GivesUp(t *testing.T) {
	fake := &fakeDrive{statuses: []int{http.StatusInternalServerError}}
	u := newUploader(t, fake, 2)

	_, err := u.Upload(context.Background(), "livro.zip", []byte("data"), "")
	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 2, upErr.Attempts)
	assert.Equal(t, int32(2), fake.calls.Load())

	var apiErr *googleapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
}

func TestUpload_PermanentErrorNotRetried(t *testing.T) {
	fake := &fakeDrive{statuses: []int{http.StatusForbidden}}
	u := newUploader(t, fake, 5)

	_, err := u.Upload(context.Background(), "livro.zip", []byte("data"), "")
	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 1, upErr.Attempts)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestUpload_Canceled(t *testing.T) {
	fake := &fakeDrive{statuses: []int{http.StatusOK}}
	u := newUploader(t, fake, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := u.Upload(ctx, "livro.zip", []byte("data"), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{})
	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "auth", upErr.Op)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 502}, true},
		{"forbidden", &googleapi.Error{Code: 403}, false},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"network", &url.Error{Op: "Post", URL: "https://x", Err: errors.New("connection reset")}, true},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Retryable(tt.err))
		})
	}
}

func TestFileURL(t *testing.T) {
	assert.True(t, strings.HasSuffix(FileURL("abc"), "/d/abc/view"))
}

package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeVideo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	if got := DefaultConfig().WriteTimeout; got != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want 30s", got)
	}
}

func TestServeFile(t *testing.T) {
	path := writeVideo(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/video/0.mp4", nil)
	rec := httptest.NewRecorder()

	if err := ServeFile(rec, req, path, "video/mp4", DefaultConfig()); err != nil {
		t.Fatalf("ServeFile failed: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", ct)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rec.Body.String() != "0123456789" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServeFileContentTypeFromCaller(t *testing.T) {
	// The extension on disk does not decide the content type
	path := writeVideo(t, "data")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/video/0.mkv", nil)
	if err := ServeFile(rec, req, path, "video/mkv", Config{}); err != nil {
		t.Fatal(err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mkv" {
		t.Errorf("Content-Type = %q, want video/mkv", ct)
	}
}

func TestServeFileRange(t *testing.T) {
	path := writeVideo(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/video/0.mp4", nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := httptest.NewRecorder()

	if err := ServeFile(rec, req, path, "video/mp4", DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	if rec.Code != http.StatusPartialContent {
		t.Errorf("status = %d, want 206", rec.Code)
	}
	if rec.Body.String() != "2345" {
		t.Errorf("body = %q, want 2345", rec.Body.String())
	}
	if cr := rec.Header().Get("Content-Range"); cr != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q", cr)
	}
}

func TestServeFileNotModified(t *testing.T) {
	path := writeVideo(t, "abc")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/video/0.mp4", nil)
	req.Header.Set("If-Modified-Since", info.ModTime().Add(time.Hour).UTC().Format(http.TimeFormat))
	rec := httptest.NewRecorder()

	if err := ServeFile(rec, req, path, "video/mp4", DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
}

func TestServeFileHead(t *testing.T) {
	path := writeVideo(t, "0123456789")

	req := httptest.NewRequest(http.MethodHead, "/video/0.mp4", nil)
	rec := httptest.NewRecorder()

	if err := ServeFile(rec, req, path, "video/mp4", DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD returned %d body bytes", rec.Body.Len())
	}
	if cl := rec.Header().Get("Content-Length"); cl != "10" {
		t.Errorf("Content-Length = %q, want 10", cl)
	}
}

func TestServeFileOpenErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "gone.mp4")},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/video/0.mp4", nil)

			err := ServeFile(rec, req, tt.path, "video/mp4", DefaultConfig())

			var openErr *OpenError
			if !errors.As(err, &openErr) {
				t.Fatalf("error = %v, want *OpenError", err)
			}
			if openErr.Path != tt.path {
				t.Errorf("OpenError.Path = %q, want %q", openErr.Path, tt.path)
			}
			if rec.Body.Len() != 0 || rec.Header().Get("Content-Type") != "" {
				t.Error("nothing may be written before an OpenError")
			}
		})
	}
}

func TestOpenErrorUnwrap(t *testing.T) {
	err := &OpenError{Path: "/videos/a.mp4", Err: os.ErrNotExist}

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("OpenError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "/videos/a.mp4") {
		t.Errorf("Error() = %q should name the path", err.Error())
	}
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	header http.Header
	err    error
}

func (f *failingWriter) Header() http.Header       { return f.header }
func (f *failingWriter) WriteHeader(int)           {}
func (f *failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestServeFileClientGone(t *testing.T) {
	path := writeVideo(t, "0123456789")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/video/0.mp4", nil).WithContext(ctx)
	w := &failingWriter{header: http.Header{}, err: errors.New("broken pipe")}

	if err := ServeFile(w, req, path, "video/mp4", DefaultConfig()); !errors.Is(err, ErrClientGone) {
		t.Errorf("error = %v, want ErrClientGone", err)
	}
}

func TestServeFileWriteTimeout(t *testing.T) {
	path := writeVideo(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/video/0.mp4", nil)
	w := &failingWriter{header: http.Header{}, err: os.ErrDeadlineExceeded}

	if err := ServeFile(w, req, path, "video/mp4", DefaultConfig()); !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("error = %v, want ErrWriteTimeout", err)
	}
}

func TestServeFileOverRealConnection(t *testing.T) {
	content := strings.Repeat("v", 256*1024)
	path := writeVideo(t, content)

	errCh := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errCh <- ServeFile(w, r, path, "video/mp4", Config{WriteTimeout: 5 * time.Second})
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != len(content) {
		t.Errorf("received %d bytes, want %d", len(body), len(content))
	}
	if err := <-errCh; err != nil {
		t.Errorf("ServeFile = %v", err)
	}
}

func TestDeadlineWriterUnsupported(t *testing.T) {
	rec := httptest.NewRecorder()
	dw := newDeadlineWriter(rec, time.Second)

	if _, err := dw.Write([]byte("abc")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if dw.deadlines {
		t.Error("deadlines should be disabled when the writer cannot set them")
	}
	if dw.bytesWritten != 3 {
		t.Errorf("bytesWritten = %d, want 3", dw.bytesWritten)
	}
	if dw.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}

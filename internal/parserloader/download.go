package parserloader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/logging"
)

// ProgressFunc reports (downloaded, total) bytes. total is -1 when neither
// the HEAD nor the GET response carried a content length.
type ProgressFunc func(downloaded, total int64)

const fetchTimeout = 30 * time.Second

// ErrDownload wraps a transport/HTTP/IO failure, carrying the offending
// URL.
type ErrDownload struct {
	URL string
	Err error
}

func (e *ErrDownload) Error() string {
	return fmt.Sprintf("parserloader: download %s: %v", e.URL, e.Err)
}
func (e *ErrDownload) Unwrap() error { return e.Err }

// URL builds the download location for a (language, os, arch, ext) tuple.
func URL(lang, os_, arch, ext string) string {
	base := config.ParserBaseURL()
	return fmt.Sprintf("%s/tree-sitter/parsers/tree-sitter-%s/latest/%s-%s.%s", base, lang, os_, arch, ext)
}

// CachePath builds the local cache path for a (language, os, arch, ext)
// tuple.
func CachePath(lang, os_, arch, ext string) (string, error) {
	dir, err := config.ParserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, lang, fmt.Sprintf("%s-%s.%s", os_, arch, ext)), nil
}

// Fetch downloads url to destPath, HEAD-ing first for a content-length so
// progress can be reported, then streaming the GET body with periodic
// progress callbacks.
func Fetch(url, destPath string, onProgress ProgressFunc) error {
	client := &http.Client{Timeout: fetchTimeout}

	var total int64 = -1
	if resp, err := client.Head(url); err == nil {
		total = resp.ContentLength
		resp.Body.Close()
	}

	resp, err := client.Get(url)
	if err != nil {
		return &ErrDownload{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ErrDownload{URL: url, Err: fmt.Errorf("status %s", resp.Status)}
	}
	if total < 0 {
		total = resp.ContentLength
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &ErrDownload{URL: url, Err: err}
	}
	f, err := os.Create(destPath)
	if err != nil {
		return &ErrDownload{URL: url, Err: err}
	}
	defer f.Close()

	var downloaded int64
	buf := make([]byte, 32*1024)
	log := logging.Get(logging.CategoryParserLoader)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return &ErrDownload{URL: url, Err: werr}
			}
			downloaded += int64(n)
			if onProgress != nil {
				onProgress(downloaded, total)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return &ErrDownload{URL: url, Err: rerr}
		}
	}
	log.Debugw("downloaded parser", "url", url, "bytes", downloaded)
	return f.Sync()
}

// Package utils provides download and cache helpers for the threat map's
// optional remote assets.
package utils

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("file not found on server")

type progressWriter struct {
	io.Writer
	total uint64
	last  uint64
	label string
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total-pw.last > 5*1024*1024 { // Log every 5MB
		slog.Info("Download progress", slog.String("file", pw.label), slog.Uint64("mb", pw.total/1024/1024))
		pw.last = pw.total
	}
	return n, err
}

// IsRemote reports whether src should be fetched over HTTP.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// DownloadFile downloads a file from a URL to a local path safely.
func DownloadFile(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Error closing response body", slog.Any("error", err))
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	// Temp file in the same directory so the rename is atomic.
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			slog.Warn("Error removing temp file", slog.String("path", tmpName), slog.Any("error", err))
		}
	}()

	pw := &progressWriter{Writer: tmpFile, label: filepath.Base(path)}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// GetCacheFileName returns the local filename for a URL and label.
func GetCacheFileName(url, label string) string {
	urlParts := strings.Split(url, "/")
	fileName := urlParts[len(urlParts)-1]
	if i := strings.IndexAny(fileName, "?#"); i >= 0 {
		fileName = fileName[:i]
	}
	prefix := strings.ReplaceAll(strings.Trim(label, "[]"), " ", "_")
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	return fileName
}

// GetCachedReader returns a reader for url. With a non-empty cacheDir the
// file is downloaded once and served from disk afterwards.
func GetCachedReader(url, cacheDir, label string) (io.ReadCloser, error) {
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
		localPath := filepath.Join(cacheDir, GetCacheFileName(url, label))

		if _, err := os.Stat(localPath); os.IsNotExist(err) {
			slog.Info("Downloading", slog.String("label", label), slog.String("url", url))
			if err := DownloadFile(url, localPath); err != nil {
				return nil, err
			}
		} else {
			slog.Info("Using cached file", slog.String("label", label), slog.String("path", localPath))
		}
		f, err := os.Open(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		return f, nil
	}

	slog.Info("Streaming", slog.String("label", label), slog.String("url", url))
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Error closing response body", slog.Any("error", err))
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp.Body, nil
}

// Open opens src as a local file or as a (cached) remote URL.
func Open(src, cacheDir, label string) (io.ReadCloser, error) {
	if IsRemote(src) {
		return GetCachedReader(src, cacheDir, label)
	}
	return os.Open(src)
}

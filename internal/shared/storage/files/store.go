// Package files implements the on-disk store for uploaded artifacts.
//
// Uploads land in a staging directory first; only after validation and
// extraction succeed does the caller commit them to their permanent
// category-partitioned directory (articles/, editor-speaks/, thumbnails/).
// Keys are paths relative to the store root and are what gets persisted
// on the content record.
package files

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"magazine-backend/internal/shared/telemetry"
	"magazine-backend/internal/shared/util"
)

const stagingDir = "staging"

// Directories for committed artifacts.
const (
	DirArticles     = "articles"
	DirEditorSpeaks = "editor-speaks"
	DirThumbnails   = "thumbnails"
)

// Store reads and writes artifacts under a single base directory.
type Store struct {
	baseDir string
}

// New creates a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the store root, for static file serving.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// SaveStaging writes the reader into the staging area with a random prefix
// and returns the staging key, size, and sniffed mime type.
func (s *Store) SaveStaging(ctx context.Context, fileName string, r io.Reader) (string, int64, string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}

	finalName := fmt.Sprintf("%s_%s", randomID(), sanitizedName)

	dirPath := filepath.Join(s.baseDir, stagingDir)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", 0, "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dirPath, finalName)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return "", 0, "", fmt.Errorf("read sniff: %w", readErr)
	}

	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return "", 0, "", fmt.Errorf("write sniff: %w", err)
		}
		size += int64(n)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		return "", 0, "", fmt.Errorf("write body: %w", err)
	}
	size += written

	key := filepath.ToSlash(filepath.Join(stagingDir, finalName))
	return key, size, mimeType, nil
}

// Commit moves a staged file into its permanent directory and returns the new key.
func (s *Store) Commit(ctx context.Context, stagingKey string, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := s.fullPath(stagingKey)
	if err != nil {
		return "", err
	}

	name := filepath.Base(src)
	dstDir := filepath.Join(s.baseDir, dir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	dst := filepath.Join(dstDir, name)
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("commit %s: %w", stagingKey, err)
	}

	return filepath.ToSlash(filepath.Join(dir, name)), nil
}

// Open opens a stored artifact for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.fullPath(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// ReadAll reads an entire stored artifact into memory.
func (s *Store) ReadAll(ctx context.Context, key string) ([]byte, error) {
	f, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// FullPath resolves a key to an absolute path for direct serving.
func (s *Store) FullPath(key string) (string, error) {
	return s.fullPath(key)
}

// Cleanup removes the given keys best-effort. A missing file is ignored;
// removal failures are logged and swallowed so the caller's primary error
// is the one surfaced. Empty keys are skipped.
func (s *Store) Cleanup(keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		fullPath, err := s.fullPath(key)
		if err != nil {
			telemetry.Warn("files.cleanup.skip", map[string]any{"key": key, "error": err.Error()})
			continue
		}
		err = os.Remove(fullPath)
		switch {
		case err == nil:
			telemetry.Info("files.cleanup.removed", map[string]any{"key": key})
		case os.IsNotExist(err):
			// Already gone; nothing to do.
		default:
			telemetry.Warn("files.cleanup.failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
}

func (s *Store) fullPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

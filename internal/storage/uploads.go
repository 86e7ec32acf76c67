package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/complaint-service/internal/config"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// UploadStore writes complaint images to the local upload directory with
// sanitized, timestamp-prefixed names.
type UploadStore struct {
	dir     string
	allowed map[string]struct{}
}

// NewUploadStore ensures the upload directory exists.
func NewUploadStore(cfg config.UploadConfig) (*UploadStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[ext] = struct{}{}
	}
	return &UploadStore{dir: cfg.Dir, allowed: allowed}, nil
}

// Dir returns the backing directory, used for static serving.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Allowed reports whether the filename carries a permitted extension.
func (s *UploadStore) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// Save persists a multipart upload and returns the web path (relative,
// under uploads/) and the on-disk path.
func (s *UploadStore) Save(file *multipart.FileHeader) (string, string, error) {
	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), SanitizeFilename(file.Filename))
	diskPath := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(diskPath)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}
	return "uploads/" + name, diskPath, nil
}

// SanitizeFilename strips any path components and replaces characters
// outside [a-zA-Z0-9._-].
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := unsafeFilenameChars.ReplaceAllString(base, "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		cleaned = "upload"
	}
	return cleaned
}

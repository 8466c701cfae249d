// Package media stores uploaded images (company logos) on local disk.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

var extByMIME = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Store writes base64 data URLs to a directory served under /public.
type Store struct {
	dir string
}

// NewStore constructs a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root directory served as /public.
func (s *Store) Dir() string {
	return s.dir
}

// SaveDataURL decodes a base64 data URL and writes it under the logos
// subdirectory. It returns the public path for the stored file.
func (s *Store) SaveDataURL(dataURL string) (string, error) {
	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return "", fmt.Errorf("media: not a base64 data url")
	}
	ext, ok := extByMIME[match[1]]
	if !ok {
		return "", fmt.Errorf("media: unsupported image type %s", match[1])
	}
	payload, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return "", fmt.Errorf("media: decode payload: %w", err)
	}

	dir := filepath.Join(s.dir, "logos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("media: create dir: %w", err)
	}
	name := fmt.Sprintf("logo_%s.%s", uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("media: write file: %w", err)
	}
	return "/public/logos/" + name, nil
}

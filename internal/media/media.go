// Package media stores product images on local disk and derives the square
// thumbnails the catalog grid displays.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const thumbSize = 256

// Store writes product images under a base directory
type Store struct {
	dir string
}

// NewStore creates a media store, making the directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveProductImage stores the uploaded image for a product and generates its
// thumbnail. Returns the relative paths of the full image and the thumbnail.
func (s *Store) SaveProductImage(productID int64, file multipart.File, filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", "", fmt.Errorf("unsupported image type: %s", ext)
	}

	name := fmt.Sprintf("product-%d%s", productID, ext)
	full := filepath.Join(s.dir, name)

	out, err := os.Create(full)
	if err != nil {
		return "", "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(full)
		return "", "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", "", err
	}

	thumbName := fmt.Sprintf("product-%d-thumb.jpg", productID)
	if err := s.makeThumbnail(full, filepath.Join(s.dir, thumbName)); err != nil {
		os.Remove(full)
		return "", "", err
	}

	return name, thumbName, nil
}

// DeleteProductImages removes all stored images for a product. Missing files
// are not an error. The patterns match the exact stem so product 1 never
// takes product 12's files with it.
func (s *Store) DeleteProductImages(productID int64) {
	stem := fmt.Sprintf("product-%d", productID)
	for _, pattern := range []string{stem + ".*", stem + "-thumb.jpg"} {
		matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			os.Remove(m)
		}
	}
}

// Path resolves a stored image name to its on-disk path
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) makeThumbnail(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	thumb := imaging.Fill(img, thumbSize, thumbSize, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

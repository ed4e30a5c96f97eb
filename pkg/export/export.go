// Package export writes rendered images to disk or streams in the format
// implied by a file extension.
package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-sphere-raytracer/pkg/ppm"
)

// ErrUnsupportedFormat is returned for file extensions with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// JPEGQuality is used for .jpg/.jpeg output
const JPEGQuality = 95

// normalizeExt returns the lower-case extension without the leading dot
func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Encode writes img to w in the format named by ext (for example "ppm" or ".png")
func Encode(w io.Writer, img image.Image, ext string) error {
	ext = normalizeExt(ext)
	if ext == "ppm" {
		return ppm.Encode(w, img)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(JPEGQuality))
}

// ContentType returns the MIME type for the format named by ext
func ContentType(ext string) string {
	switch normalizeExt(ext) {
	case "ppm":
		return "image/x-portable-pixmap"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "tif", "tiff":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Save writes img to path, creating parent directories as needed
func Save(img image.Image, path string) (err error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	// Reject unknown formats before touching the filesystem
	if normalizeExt(ext) != "ppm" {
		if _, err := imaging.FormatFromExtension(normalizeExt(ext)); err != nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close image file: %w", cerr)
		}
	}()

	if err := Encode(file, img, ext); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down to fit within maxSize x maxSize, keeping the aspect ratio.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
}

// ThumbnailPath derives the thumbnail file name, e.g. out/render.png -> out/render_thumb.png
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}

package scanner

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Dimension sanity bounds. A chart page scanned at 300dpi lands well inside
// these; anything outside indicates a truncated or bogus driver output.
const (
	minScanPixels = 16
	maxScanPixels = 50000
)

// verifyImage decodes the image header to confirm the driver wrote a
// readable file with plausible dimensions. Unknown extensions are accepted
// unchecked since the chart reader is the real consumer.
func verifyImage(path string) error {
	var decode func(f *os.File) (image.Config, error)
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
	case "tif", "tiff":
		decode = func(f *os.File) (image.Config, error) { return tiff.DecodeConfig(f) }
	case "png":
		decode = func(f *os.File) (image.Config, error) { return png.DecodeConfig(f) }
	default:
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width < minScanPixels || cfg.Height < minScanPixels ||
		cfg.Width > maxScanPixels || cfg.Height > maxScanPixels {
		return fmt.Errorf("implausible scan dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}

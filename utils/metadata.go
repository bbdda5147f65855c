package utils

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo carries decoded pixel dimensions and, when EXIF data is
// present, the time the photo was taken
type ImageInfo struct {
	Width   int
	Height  int
	TakenAt *int64
}

// ProbeImage reads dimensions and EXIF metadata from the image at path.
// EXIF failures are not errors, many uploads lack metadata entirely
func ProbeImage(path string) (*ImageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config for %s: %w", path, err)
	}

	info := &ImageInfo{Width: cfg.Width, Height: cfg.Height}

	if _, err := file.Seek(0, 0); err != nil {
		return info, nil
	}
	exifData, err := exif.Decode(file)
	if err != nil {
		return info, nil
	}
	if taken, err := exifData.DateTime(); err == nil {
		unix := taken.Unix()
		info.TakenAt = &unix
	}

	return info, nil
}

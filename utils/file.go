package utils

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// GenerateStoredFilename produces the unique on-disk name for an upload,
// keeping the original extension so derived-artifact names stay predictable
func GenerateStoredFilename(originalFilename string) (string, error) {
	fileUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for upload filename: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if ext == "" {
		ext = ".jpg"
	}
	return fileUUID.String() + ext, nil
}

// GenerateThumbnail creates a thumbnail of the image at originalPath and
// saves it to destPath, fitting within maxSize on the longest side
func GenerateThumbnail(originalPath, destPath string, maxSize int) error {
	img, err := imaging.Open(originalPath)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", originalPath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	if err := imaging.Save(thumb, destPath, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("failed to save thumbnail to %s: %w", destPath, err)
	}

	log.Printf("generated thumbnail for %s at %s", originalPath, destPath)
	return nil
}

// GeneratePreview creates a downscaled preview of the image at originalPath
// and saves it to destPath, resized to maxWidth with aspect ratio preserved
func GeneratePreview(originalPath, destPath string, maxWidth int) error {
	img, err := imaging.Open(originalPath)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", originalPath, err)
	}

	preview := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	if err := imaging.Save(preview, destPath, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to save preview to %s: %w", destPath, err)
	}

	log.Printf("generated preview for %s at %s", originalPath, destPath)
	return nil
}

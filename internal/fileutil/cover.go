package fileutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveCover writes cover image bytes to savePath. Covers wider than maxWidth
// are scaled down first; maxWidth <= 0 writes the bytes untouched. The
// storefronts serve print-resolution scans, so capping the width keeps
// library folders sane.
func SaveCover(data []byte, savePath string, maxWidth int) error {
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return fmt.Errorf("failed to create cover directory: %w", err)
	}

	if maxWidth <= 0 {
		return os.WriteFile(savePath, data, 0o644)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		// Not an image format imaging understands; keep the original bytes.
		return os.WriteFile(savePath, data, 0o644)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	return imaging.Save(img, savePath, imaging.JPEGQuality(85))
}

// BuildCoverFilename creates a standard cover filename from a title.
// Returns: "Title - cover.jpg"
func BuildCoverFilename(title string) string {
	return SanitizeFilename(title) + " - cover.jpg"
}

package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

type OCROption struct {
	MaxEdge int // px, 0 keeps the original size
}

// PrepareForOCR writes a grayscale, orientation-corrected PNG copy of the
// image next to the input and returns its path. Images with a side longer
// than MaxEdge are scaled down, keeping the aspect ratio.
func PrepareForOCR(inputPath string, options OCROption) (string, error) {
	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	if options.MaxEdge > 0 && (bounds.Dx() > options.MaxEdge || bounds.Dy() > options.MaxEdge) {
		img = imaging.Fit(img, options.MaxEdge, options.MaxEdge, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(filepath.Dir(inputPath), base+"_ocr.png")
	if err := imaging.Save(gray, outputPath); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return outputPath, nil
}

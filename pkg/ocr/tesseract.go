package ocr

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes slip text with a local Tesseract install via
// gosseract. Slips mix Thai and Latin script, so both language packs are
// loaded by default.
type Tesseract struct {
	Languages string
}

// NewTesseract returns a recognizer for Thai bank slips.
func NewTesseract() *Tesseract {
	return &Tesseract{Languages: "tha+eng"}
}

// Recognize extracts text from the image at path. The image is lightly
// preprocessed first; phone photos of slips are often small and low-contrast
// and Tesseract degrades quickly below ~900px of height.
func (t *Tesseract) Recognize(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}

	// OCR from a temp PNG of the preprocessed image; fall back to the
	// original file if staging fails.
	tmp := path
	if tmpFile, err := os.CreateTemp("", "slip-ocr-*.png"); err == nil {
		tmp = tmpFile.Name()
		_ = tmpFile.Close()
		if err := imaging.Save(gray, tmp); err != nil {
			tmp = path
		}
	}
	if tmp != path {
		defer os.Remove(tmp)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(t.Languages); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	client.SetImage(tmp)
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	return normalizeText(text), nil
}

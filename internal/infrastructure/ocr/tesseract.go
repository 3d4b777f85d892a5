// Package ocr provides the Tesseract-backed text recognition engine used for
// label scanning.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// rotationDegrees are the passes run over every label photo. Expiry prints
// often run sideways along an edge, so each rotation gets its own pass and
// the text blobs are concatenated; the date parser dedups any dates found by
// more than one pass.
var rotationDegrees = []int{0, 90, 180, 270}

// TesseractEngine implements domain.OCREngine using the gosseract client
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine
func NewTesseractEngine(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{
		clientFactory: gosseract.NewClient,
		languages:     languages,
	}
}

// Recognize runs OCR over the image at every rotation and returns the
// concatenated text. Individual rotation failures are tolerated; an error is
// returned only when no pass produces text.
func (e *TesseractEngine) Recognize(ctx context.Context, imageData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var blobs []string
	var lastErr error
	for _, degrees := range rotationDegrees {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		rotated, err := encodePNG(rotate(img, degrees))
		if err != nil {
			lastErr = err
			continue
		}
		text, err := e.recognizeOnce(rotated)
		if err != nil {
			log.Printf("[OCR] pass at %d deg failed: %v", degrees, err)
			lastErr = err
			continue
		}
		if text != "" {
			blobs = append(blobs, text)
		}
	}

	if len(blobs) == 0 {
		if lastErr != nil {
			return "", lastErr
		}
		return "", nil
	}
	return strings.Join(blobs, "\n"), nil
}

// recognizeOnce runs a single gosseract pass over one encoded image
func (e *TesseractEngine) recognizeOnce(imageData []byte) (string, error) {
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// rotate returns img turned clockwise by the given multiple of 90 degrees
func rotate(img image.Image, degrees int) image.Image {
	if degrees%360 == 0 {
		return img
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var out *image.RGBA
	switch degrees % 360 {
	case 90, 270:
		out = image.NewRGBA(image.Rect(0, 0, h, w))
	default:
		out = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			switch degrees % 360 {
			case 90:
				out.Set(h-1-y, x, c)
			case 180:
				out.Set(w-1-x, h-1-y, c)
			case 270:
				out.Set(y, w-1-x, c)
			}
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Package debug provides offline visualization and capture utilities.
package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture writes timestamped PNG captures of raw framebuffer
// pixels.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
}

// NewScreenshotCapture returns a capture handler writing PNGs named
// prefix_timestamp.png under outputDir.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{outputDir: outputDir, prefix: prefix}
}

// CaptureFromPixels writes a screenshot from raw RGBA pixel data,
// width*height*4 bytes, bottom row first as GL delivers it. Returns
// the path written.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := sc.GenerateFilename()
	if err := writePNG(path, flipRGBA(pixels, width, height)); err != nil {
		return "", err
	}
	return path, nil
}

// flipRGBA copies rows in reverse order; PNG rows run top-down while GL
// reads back bottom-up.
func flipRGBA(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*row:]
		copy(img.Pix[y*img.Stride:y*img.Stride+row], src[:row])
	}
	return img
}

// GenerateFilename returns the next capture path without writing it.
func (sc *ScreenshotCapture) GenerateFilename() string {
	name := fmt.Sprintf("%s_%s.png", sc.prefix, time.Now().Format("2006-01-02_15-04-05"))
	if sc.outputDir == "" {
		return name
	}
	return filepath.Join(sc.outputDir, name)
}

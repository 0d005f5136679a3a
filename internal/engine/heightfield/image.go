package heightfield

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/png"
)

// ImageField samples elevations from a grayscale heightmap stretched over
// the world footprint. Lookups clamp to the image edge and interpolate
// bilinearly between texels.
type ImageField struct {
	heights []float32
	width   int
	depth   int
	worldW  float32
	worldD  float32
}

// NewImageField converts an image to an elevation grid. Pixel luminance 0
// maps to elevation 0 and full luminance to maxHeight; the image spans
// [0, worldW] by [0, worldD] in world units.
func NewImageField(img image.Image, worldW, worldD, maxHeight float32) *ImageField {
	bounds := img.Bounds()
	w, d := bounds.Dx(), bounds.Dy()

	heights := make([]float32, w*d)
	for y := 0; y < d; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit channels; standard luminance weights.
			lum := (299*r + 587*g + 114*b) / 1000
			heights[y*w+x] = float32(lum) / 0xFFFF * maxHeight
		}
	}

	return &ImageField{
		heights: heights,
		width:   w,
		depth:   d,
		worldW:  worldW,
		worldD:  worldD,
	}
}

// LoadImage reads a heightmap file. TGA files use the package decoder;
// anything else goes through the stdlib image registry.
func LoadImage(path string, worldW, worldD, maxHeight float32) (*ImageField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heightmap: %w", err)
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode heightmap %s: %w", path, err)
	}

	if img.Bounds().Dx() < 2 || img.Bounds().Dy() < 2 {
		return nil, fmt.Errorf("heightmap %s too small: need at least 2x2 texels", path)
	}
	return NewImageField(img, worldW, worldD, maxHeight), nil
}

// At samples the field with bilinear interpolation.
func (f *ImageField) At(x, z float32) float32 {
	// Texel 0 sits on world 0 and the last texel on the far edge.
	fx := x / f.worldW * float32(f.width-1)
	fz := z / f.worldD * float32(f.depth-1)

	ix := int(fx)
	iz := int(fz)
	if ix < 0 {
		ix = 0
	}
	if iz < 0 {
		iz = 0
	}
	if ix >= f.width-1 {
		ix = f.width - 2
	}
	if iz >= f.depth-1 {
		iz = f.depth - 2
	}

	tx := clampf(fx-float32(ix), 0, 1)
	tz := clampf(fz-float32(iz), 0, 1)

	h00 := f.heights[iz*f.width+ix]
	h10 := f.heights[iz*f.width+ix+1]
	h01 := f.heights[(iz+1)*f.width+ix]
	h11 := f.heights[(iz+1)*f.width+ix+1]

	south := h00*(1-tx) + h10*tx
	north := h01*(1-tx) + h11*tx
	return south*(1-tz) + north*tz
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Package debug provides offline visualization and capture utilities.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/Faultbox/veldt/internal/engine/tessellate"
	"github.com/Faultbox/veldt/pkg/patchfile"
)

// lodColors maps density buckets to heat-map colors, coarse to fine.
var lodColors = [tessellate.NumBuckets]color.RGBA{
	{R: 38, G: 70, B: 125, A: 255},
	{R: 42, G: 135, B: 98, A: 255},
	{R: 200, G: 166, B: 58, A: 255},
	{R: 196, G: 70, B: 58, A: 255},
}

// background marks grid units no patch covers (culled or out of world).
var background = color.RGBA{R: 14, G: 14, B: 18, A: 255}

// LODMap renders the tessellator's final lists to an image, one pixel
// per grid unit, colored by density bucket. The left and top rows of
// each patch are darkened so the quadtree structure stays visible.
func LODMap(ts *tessellate.Tessellator) *image.RGBA {
	img := newMapImage(int(ts.View().WorldExtent))
	for b := 0; b < tessellate.NumBuckets; b++ {
		for _, p := range ts.Bucket(b) {
			paintPatch(img, b, int(p.X*p.Size), int(p.Y*p.Size), int(p.Size))
		}
	}
	return img
}

// LODMapFile renders a baked patch file the same way LODMap renders a
// live build.
func LODMapFile(f *patchfile.File) *image.RGBA {
	img := newMapImage(int(f.Params.WorldExtent))
	for b, records := range f.Buckets {
		for _, r := range records {
			x0, y0, _, _ := r.GridRect()
			paintPatch(img, b, int(x0), int(y0), int(r.Size))
		}
	}
	return img
}

func newMapImage(extent int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, extent, extent))
	for y := 0; y < extent; y++ {
		for x := 0; x < extent; x++ {
			img.SetRGBA(x, y, background)
		}
	}
	return img
}

func paintPatch(img *image.RGBA, bucket, x0, y0, size int) {
	extent := img.Bounds().Dx()
	fill := lodColors[bucket]
	border := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 255}
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			// Patches at the world rim may overhang the extent.
			x, y := x0+dx, y0+dy
			if x >= extent || y >= extent {
				continue
			}
			if dx == 0 || dy == 0 {
				img.SetRGBA(x, y, border)
			} else {
				img.SetRGBA(x, y, fill)
			}
		}
	}
}

// WriteLODMap renders the LOD map and writes it as a PNG.
func WriteLODMap(path string, ts *tessellate.Tessellator) error {
	return writePNG(path, LODMap(ts))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

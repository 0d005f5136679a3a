package heightfield

import (
	"fmt"
	"image"
)

// TGA image types accepted for heightmaps.
const (
	tgaTypeTrueColor = 2  // uncompressed true-color
	tgaTypeGray      = 3  // uncompressed grayscale
	tgaTypeRLE       = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA heightmap into a grayscale image. True-color
// pixels collapse to luminance; 8-bit grayscale files pass through.
// The stdlib image registry has no TGA support, and heightmap painting
// tools commonly export it.
func DecodeTGA(data []byte) (*image.Gray, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped files not supported")
	}
	switch imageType {
	case tgaTypeTrueColor, tgaTypeRLE:
		if bpp != 24 && bpp != 32 {
			return nil, fmt.Errorf("tga: unsupported true-color depth %d", bpp)
		}
	case tgaTypeGray:
		if bpp != 8 {
			return nil, fmt.Errorf("tga: unsupported grayscale depth %d", bpp)
		}
	default:
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tga: bad dimensions %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: data truncated")
	}
	pixelData := data[offset:]

	img := image.NewGray(image.Rect(0, 0, width, height))
	bytesPerPixel := bpp / 8

	// Bit 5 of the descriptor flags top-to-bottom row order; the default
	// is bottom-to-top.
	topToBottom := descriptor&0x20 != 0

	if imageType == tgaTypeRLE {
		decodeTGAGrayRLE(img, pixelData, width, height, bytesPerPixel, topToBottom)
		return img, nil
	}

	if len(pixelData) < width*height*bytesPerPixel {
		return nil, fmt.Errorf("tga: pixel data truncated")
	}
	for y := 0; y < height; y++ {
		destY := y
		if !topToBottom {
			destY = height - 1 - y
		}
		row := img.Pix[destY*img.Stride:]
		for x := 0; x < width; x++ {
			row[x] = grayAt(pixelData, (y*width+x)*bytesPerPixel, bytesPerPixel)
		}
	}
	return img, nil
}

// grayAt reads one pixel as 8-bit luminance. TGA stores true color as BGR.
func grayAt(pixelData []byte, i, bytesPerPixel int) uint8 {
	if bytesPerPixel == 1 {
		return pixelData[i]
	}
	b := uint32(pixelData[i])
	g := uint32(pixelData[i+1])
	r := uint32(pixelData[i+2])
	return uint8((299*r + 587*g + 114*b) / 1000)
}

func decodeTGAGrayRLE(img *image.Gray, pixelData []byte, width, height, bytesPerPixel int, topToBottom bool) {
	pixelCount := width * height
	pixelIdx := 0
	dataIdx := 0

	set := func(v uint8) {
		x := pixelIdx % width
		y := pixelIdx / width
		if !topToBottom {
			y = height - 1 - y
		}
		img.Pix[y*img.Stride+x] = v
		pixelIdx++
	}

	for pixelIdx < pixelCount && dataIdx < len(pixelData) {
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel value repeated.
			if dataIdx+bytesPerPixel > len(pixelData) {
				return
			}
			v := grayAt(pixelData, dataIdx, bytesPerPixel)
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				set(v)
			}
		} else {
			// Raw packet: count literal pixels.
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				if dataIdx+bytesPerPixel > len(pixelData) {
					return
				}
				set(grayAt(pixelData, dataIdx, bytesPerPixel))
				dataIdx += bytesPerPixel
			}
		}
	}
}

package utils

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// FrameImage converts an RGB24 frame buffer into an image.
func FrameImage(fb []byte, width, height int) (*image.RGBA, error) {
	if len(fb) != width*height*3 {
		return nil, fmt.Errorf("utils: frame buffer is %d bytes, expected %d", len(fb), width*height*3)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4] = fb[i*3]
		img.Pix[i*4+1] = fb[i*3+1]
		img.Pix[i*4+2] = fb[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	return img, nil
}

// ScaleImage scales img up by factor, keeping pixels sharp.
func ScaleImage(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SaveImage encodes img as a PNG to the given path.
func SaveImage(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

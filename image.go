package vectrace

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	// Registers the webp decoder, the other formats come with imaging.
	_ "golang.org/x/image/webp"
)

// decode decodes the source image and applies its EXIF orientation.
func decode(r io.Reader) (*image.NRGBA, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode the source image: %w", err)
	}
	return toNRGBA(src), nil
}

// prepare downscales and smooths the image according to the options.
func (p *Processor) prepare(img *image.NRGBA) *image.NRGBA {
	if p.MaxSize > 0 {
		b := img.Bounds()
		if b.Dx() > p.MaxSize || b.Dy() > p.MaxSize {
			img = imaging.Fit(img, p.MaxSize, p.MaxSize, imaging.Lanczos)
		}
	}
	if p.BlurRadius > 0 {
		img = imaging.Blur(img, p.BlurRadius)
	}
	return img
}

// toNRGBA returns img as an NRGBA image whose bounds start at (0, 0), the
// layout GreyGrid and Contour.Sample index pixels in. Such an image is
// returned as is, any other is copied.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

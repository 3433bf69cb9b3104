package vectrace

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	"github.com/esimov/vectrace/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ToNRGBA(t *testing.T) {
	origin := makeNRGBAImage(image.Rect(0, 0, 8, 8), palette.Plan9)
	assert.Same(t, origin, toNRGBA(origin), "an NRGBA image at the origin is used as is")

	rect := image.Rect(-1, -1, 15, 15)
	testCases := map[string]image.Image{
		"shifted NRGBA": makeNRGBAImage(rect, palette.Plan9),
		"YCbCr":         makeYCbCrImage(rect, palette.Plan9, image.YCbCrSubsampleRatio444),
		"Gray":          makeGrayImage(rect, palette.Plan9),
	}
	for name, img := range testCases {
		t.Run(name, func(t *testing.T) {
			dst := toNRGBA(img)
			r := img.Bounds()
			require.Equal(t, image.Rect(0, 0, r.Dx(), r.Dy()), dst.Bounds())

			for y := r.Min.Y; y < r.Max.Y; y++ {
				i := dst.PixOffset(0, y-r.Min.Y)
				got := dst.Pix[i : i+r.Dx()*4]
				want := readRow(img, y)
				if !compareBytes(got, want, 1) {
					t.Errorf("row %d: got %v want %v", y, got, want)
				}
			}
		})
	}
}

func TestImage_Decode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, makeNRGBAImage(image.Rect(0, 0, 16, 8), palette.Plan9)))

	img, err := decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())

	_, err = decode(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestImage_Prepare(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))

	p := &Processor{MaxSize: 10}
	assert.Equal(t, image.Rect(0, 0, 10, 5), p.prepare(img).Bounds())

	p = &Processor{MaxSize: 100, BlurRadius: 1.5}
	assert.Equal(t, img.Bounds(), p.prepare(img).Bounds())

	p = &Processor{}
	assert.Same(t, img, p.prepare(img))
}

func makeYCbCrImage(rect image.Rectangle, colors []color.Color, sr image.YCbCrSubsampleRatio) *image.YCbCr {
	img := image.NewYCbCr(rect, sr)
	j := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			iy := img.YOffset(x, y)
			ic := img.COffset(x, y)
			c := color.NRGBAModel.Convert(colors[j]).(color.NRGBA)
			img.Y[iy], img.Cb[ic], img.Cr[ic] = color.RGBToYCbCr(c.R, c.G, c.B)
			j++
		}
	}
	return img
}

func makeNRGBAImage(rect image.Rectangle, colors []color.Color) *image.NRGBA {
	img := image.NewNRGBA(rect)
	fillDrawImage(img, colors)
	return img
}

func makeGrayImage(rect image.Rectangle, colors []color.Color) *image.Gray {
	img := image.NewGray(rect)
	fillDrawImage(img, colors)
	return img
}

func fillDrawImage(img draw.Image, colors []color.Color) {
	colorsNRGBA := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		nrgba.A = uint8(i % 256)
		colorsNRGBA[i] = nrgba
	}
	rect := img.Bounds()
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, colorsNRGBA[i%len(colorsNRGBA)])
			i++
		}
	}
}

func readRow(img image.Image, y int) []uint8 {
	row := make([]byte, img.Bounds().Dx()*4)
	i := 0
	for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
		i += 4
	}
	return row
}

func compareBytes(a, b []uint8, delta int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if utils.Abs(int(a[i])-int(b[i])) > delta {
			return false
		}
	}
	return true
}

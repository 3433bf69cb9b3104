package vectrace

import (
	"image"
	"image/color"
	"math"

	"github.com/esimov/vectrace/grid"
	"github.com/esimov/vectrace/utils"
)

// Luma returns the relative luminance of c on [0,1].
func Luma(c color.Color) float64 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return (float64(n.R)*0.2126 + float64(n.G)*0.7152 + float64(n.B)*0.0722) / 255
}

// Quantize maps v on one of levels evenly spaced grey levels l_0 = 0 ...
// l_{levels-1} = 1. Zero stays zero, any other value becomes the middle of
// the (l_i, l_{i+1}] interval holding it.
func Quantize(v float64, levels int) float64 {
	if v <= 0 || levels < 2 {
		return 0
	}
	step := 1 / float64(levels-1)
	i := utils.Clamp(int(math.Ceil(v/step))-1, 0, levels-2)
	return (float64(i) + 0.5) * step
}

// GreyGrid converts img to its quantized grey levels surrounded by the
// border ring.
func GreyGrid(img image.Image, levels int) (*grid.Grid, error) {
	b := img.Bounds()
	values := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			values = append(values, Quantize(Luma(img.At(x, y)), levels))
		}
	}
	return grid.New(b.Dx(), b.Dy(), values)
}

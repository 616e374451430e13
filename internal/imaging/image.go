// Package imaging holds the decoded pixel grid and the read-only lookup
// tables derived from it that every segmentation operator borrows.
package imaging

import (
	"image"
	"image/color"
	"math"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Image is a row-major RGB pixel grid. Pixel (row, col) lives at
// row*Width+col.
type Image struct {
	Width  int
	Height int
	Pix    []RGB
}

func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

// FromImage copies any image.Image into an RGB grid, discarding alpha.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	out := NewImage(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			out.Pix[y*out.Width+x] = RGB{R: c.R, G: c.G, B: c.B}
		}
	}
	return out
}

func (im *Image) Area() int {
	return im.Width * im.Height
}

func (im *Image) Index(row, col int) int {
	return row*im.Width + col
}

func (im *Image) InBounds(row, col int) bool {
	return row >= 0 && row < im.Height && col >= 0 && col < im.Width
}

func (im *Image) At(idx int) RGB {
	return im.Pix[idx]
}

// ToRGBA renders the grid back into a standard library image.
func (im *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for i, p := range im.Pix {
		out.Pix[i*4] = p.R
		out.Pix[i*4+1] = p.G
		out.Pix[i*4+2] = p.B
		out.Pix[i*4+3] = 0xff
	}
	return out
}

// EuclideanDistance is the straight-line distance between two colours in RGB space.
func EuclideanDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

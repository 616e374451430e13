// Package render turns label maps into images: coloured regions, a
// black-on-white border map and a border overlay on the source image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

const goldenAngle = 137.50776405003785

var overlayBorder = color.RGBA{G: 0xff, A: 0xff}

// Palette returns n visually distinct colours. Hues advance by the golden
// angle; saturation and value cycle so neighbouring ids stay apart.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		sat := 0.55 + 0.15*float64(i%3)
		val := 0.95 - 0.2*float64((i/3)%2)
		r, g, b := colorful.Hsv(hue, sat, val).Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out
}

// Segments paints every region in its own palette colour.
func Segments(labels genotype.LabelMap) *image.RGBA {
	palette := Palette(labels.Regions())
	out := image.NewRGBA(image.Rect(0, 0, labels.Width, labels.Height))
	for idx, l := range labels.Labels {
		out.SetRGBA(idx%labels.Width, idx/labels.Width, palette[l-1])
	}
	return out
}

// Borders draws region borders black on white, with the image frame
// counted as border.
func Borders(labels genotype.LabelMap) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, labels.Width, labels.Height))
	border := labels.Border()
	for idx := range labels.Labels {
		x, y := idx%labels.Width, idx/labels.Width
		frame := x == 0 || y == 0 || x == labels.Width-1 || y == labels.Height-1
		if border[idx] || frame {
			out.SetGray(x, y, color.Gray{Y: 0})
		} else {
			out.SetGray(x, y, color.Gray{Y: 0xff})
		}
	}
	return out
}

// Overlay draws region borders in green over the source image.
func Overlay(src *imaging.Image, labels genotype.LabelMap) (*image.RGBA, error) {
	if src.Width != labels.Width || src.Height != labels.Height {
		return nil, fmt.Errorf("overlay: image %dx%d does not match labels %dx%d",
			src.Width, src.Height, labels.Width, labels.Height)
	}
	out := src.ToRGBA()
	for idx, b := range labels.Border() {
		if b {
			out.SetRGBA(idx%labels.Width, idx/labels.Width, overlayBorder)
		}
	}
	return out, nil
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path. When maxDimension is positive and the
// longer side exceeds it, the image is downscaled preserving aspect ratio.
func Load(path string, maxDimension int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty %s image", path, format)
	}
	return FromImage(Downscale(src, maxDimension)), nil
}

// Downscale returns src unchanged unless its longer side exceeds maxDimension.
func Downscale(src image.Image, maxDimension int) image.Image {
	if maxDimension <= 0 {
		return src
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	longest := max(w, h)
	if longest <= maxDimension {
		return src
	}
	scale := float64(maxDimension) / float64(longest)
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	return transform.Resize(src, nw, nh, transform.Linear)
}

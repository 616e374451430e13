package imaging

import "fmt"

const (
	// NearRadius spans the 3x3 window used by the objectives.
	NearRadius = 1
	// WideRadius spans the 7x7 window used by deviation-search mutations.
	WideRadius = 3
)

// NeighborTable stores, for every pixel, the colour distance to each pixel
// of a (2r+1)x(2r+1) window centred on it. Offsets falling outside the
// image hold zero.
type NeighborTable struct {
	Radius int
	width  int
	height int
	span   int
	dist   []float64
}

func NewNeighborTable(img *Image, radius int) (*NeighborTable, error) {
	if img == nil || img.Area() == 0 {
		return nil, fmt.Errorf("neighbor table: image is empty")
	}
	if radius < 1 {
		return nil, fmt.Errorf("neighbor table: radius must be >= 1, got %d", radius)
	}
	span := 2*radius + 1
	t := &NeighborTable{
		Radius: radius,
		width:  img.Width,
		height: img.Height,
		span:   span,
		dist:   make([]float64, img.Area()*span*span),
	}
	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			idx := img.Index(row, col)
			base := idx * span * span
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					if !img.InBounds(row+dr, col+dc) {
						continue
					}
					other := img.Index(row+dr, col+dc)
					t.dist[base+(dr+radius)*span+dc+radius] = EuclideanDistance(img.Pix[idx], img.Pix[other])
				}
			}
		}
	}
	return t, nil
}

func (t *NeighborTable) Width() int  { return t.width }
func (t *NeighborTable) Height() int { return t.height }

// At returns the distance from pixel idx to the pixel dRow rows and dCol
// columns away. Offsets beyond the window radius panic.
func (t *NeighborTable) At(idx, dRow, dCol int) float64 {
	if dRow < -t.Radius || dRow > t.Radius || dCol < -t.Radius || dCol > t.Radius {
		panic(fmt.Sprintf("neighbor table: offset (%d,%d) outside radius %d", dRow, dCol, t.Radius))
	}
	return t.dist[idx*t.span*t.span+(dRow+t.Radius)*t.span+dCol+t.Radius]
}

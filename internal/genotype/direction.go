// Package genotype encodes a segmentation as one pointer per pixel and
// decodes those pointers into connected regions.
package genotype

import "fmt"

// Direction names the orthogonal neighbour a pixel joins. None marks a
// region root.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists every symbol, Moves only the four that point somewhere.
var (
	Directions = [...]Direction{None, Up, Down, Left, Right}
	Moves      = [...]Direction{Up, Down, Left, Right}
)

var symbols = [...]byte{None: 'N', Up: 'U', Down: 'D', Left: 'L', Right: 'R'}

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Offset returns the row and column delta of the pointed-to neighbour.
func (d Direction) Offset() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

func (d Direction) Symbol() byte {
	if int(d) < len(symbols) {
		return symbols[d]
	}
	return '?'
}

func ParseDirection(b byte) (Direction, error) {
	for d, s := range symbols {
		if s == b {
			return Direction(d), nil
		}
	}
	return None, fmt.Errorf("unknown direction symbol %q", b)
}

// Step follows d from idx. It reports false for None and for moves that
// leave the width x height grid.
func Step(idx int, d Direction, width, height int) (int, bool) {
	if d == None {
		return idx, false
	}
	dRow, dCol := d.Offset()
	row, col := idx/width+dRow, idx%width+dCol
	if row < 0 || row >= height || col < 0 || col >= width {
		return idx, false
	}
	return row*width + col, true
}

// DirectionTo returns the direction leading from one pixel to an
// orthogonally adjacent one.
func DirectionTo(from, to, width int) (Direction, bool) {
	fr, fc := from/width, from%width
	tr, tc := to/width, to%width
	switch {
	case tr == fr-1 && tc == fc:
		return Up, true
	case tr == fr+1 && tc == fc:
		return Down, true
	case tr == fr && tc == fc-1:
		return Left, true
	case tr == fr && tc == fc+1:
		return Right, true
	default:
		return None, false
	}
}

// OrthogonalNeighbors appends the in-bounds 4-neighbours of idx to dst.
func OrthogonalNeighbors(dst []int, idx, width, height int) []int {
	for _, d := range Moves {
		if next, ok := Step(idx, d, width, height); ok {
			dst = append(dst, next)
		}
	}
	return dst
}

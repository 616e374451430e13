package genotype

import "fmt"

// LabelMap assigns every pixel a positive region id. Ids are dense,
// 1..Regions(), in order of first appearance during the row-major sweep.
type LabelMap struct {
	Width   int
	Height  int
	Labels  []int
	regions int
}

// Decode resolves the pointer graph into regions. Each unlabeled pixel's
// chain is followed iteratively until it reaches a root (None, a move off
// the image, or a pixel already on the current path) or an already
// labeled pixel; the whole path then takes that label.
func Decode(g Genome, width, height int) LabelMap {
	n := width * height
	if len(g) != n {
		panic(fmt.Sprintf("decode: genome length %d does not match %dx%d", len(g), width, height))
	}
	labels := make([]int, n)
	onPath := make([]bool, n)
	path := make([]int, 0, 64)
	next := 1

	for start := 0; start < n; start++ {
		if labels[start] != 0 {
			continue
		}
		path = path[:0]
		label := 0
		cur := start
		for {
			if labels[cur] != 0 {
				label = labels[cur]
				break
			}
			if onPath[cur] {
				break
			}
			onPath[cur] = true
			path = append(path, cur)
			following, ok := Step(cur, g[cur], width, height)
			if !ok {
				break
			}
			cur = following
		}
		if label == 0 {
			label = next
			next++
		}
		for _, p := range path {
			labels[p] = label
			onPath[p] = false
		}
	}
	return LabelMap{Width: width, Height: height, Labels: labels, regions: next - 1}
}

func (m LabelMap) Regions() int { return m.regions }

func (m LabelMap) At(row, col int) int { return m.Labels[row*m.Width+col] }

// Sizes returns pixel counts indexed by label; index 0 is unused.
func (m LabelMap) Sizes() []int {
	sizes := make([]int, m.regions+1)
	for _, l := range m.Labels {
		sizes[l]++
	}
	return sizes
}

// Members returns the pixel indexes of each region, indexed by label.
func (m LabelMap) Members() [][]int {
	sizes := m.Sizes()
	members := make([][]int, m.regions+1)
	for l := 1; l <= m.regions; l++ {
		members[l] = make([]int, 0, sizes[l])
	}
	for idx, l := range m.Labels {
		members[l] = append(members[l], idx)
	}
	return members
}

// Border marks pixels with at least one 4-neighbour in another region.
func (m LabelMap) Border() []bool {
	border := make([]bool, len(m.Labels))
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			idx := row*m.Width + col
			l := m.Labels[idx]
			if (col+1 < m.Width && m.Labels[idx+1] != l) ||
				(col > 0 && m.Labels[idx-1] != l) ||
				(row+1 < m.Height && m.Labels[idx+m.Width] != l) ||
				(row > 0 && m.Labels[idx-m.Width] != l) {
				border[idx] = true
			}
		}
	}
	return border
}

// SamePartition reports whether two label maps group pixels identically,
// ignoring the concrete label values.
func SamePartition(a, b LabelMap) bool {
	if len(a.Labels) != len(b.Labels) || a.regions != b.regions {
		return false
	}
	forward := make(map[int]int, a.regions)
	backward := make(map[int]int, b.regions)
	for i := range a.Labels {
		la, lb := a.Labels[i], b.Labels[i]
		if mapped, ok := forward[la]; ok && mapped != lb {
			return false
		}
		if mapped, ok := backward[lb]; ok && mapped != la {
			return false
		}
		forward[la] = lb
		backward[lb] = la
	}
	return true
}

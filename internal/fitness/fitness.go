// Package fitness scores a decoded segmentation against the three
// competing objectives and folds them into a weighted scalar.
package fitness

import (
	"fmt"
	"math"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

// Objectives are the raw scores of one segmentation. EdgeValue is
// maximized; Connectivity and Deviation are minimized.
type Objectives struct {
	EdgeValue    float64 `json:"edge_value"`
	Connectivity float64 `json:"connectivity"`
	Deviation    float64 `json:"deviation"`
}

func (o Objectives) String() string {
	return fmt.Sprintf("(%g,%g,%g)", o.EdgeValue, o.Connectivity, o.Deviation)
}

// Weights are the multipliers of the scalarized fitness.
type Weights struct {
	EdgeValue    float64 `json:"edge_value_multiplier"`
	Connectivity float64 `json:"connectivity_multiplier"`
	Deviation    float64 `json:"overall_deviation_multiplier"`
}

// Scalarize folds objectives into one maximized value. Only weighted
// selection strategies read it.
func (w Weights) Scalarize(o Objectives) float64 {
	return o.EdgeValue*w.EdgeValue - o.Connectivity*w.Connectivity - o.Deviation*w.Deviation
}

// connectivityWeights is indexed [dRow+1][dCol+1].
var connectivityWeights = [3][3]float64{
	{7, 3, 5},
	{2, 0, 1},
	{8, 4, 6},
}

// ConnectivityWeight returns the nearest-neighbour rank of the pixel at
// the given column and row offset. The table is direction specific.
func ConnectivityWeight(dCol, dRow int) float64 {
	if dCol < -1 || dCol > 1 || dRow < -1 || dRow > 1 || (dCol == 0 && dRow == 0) {
		panic(fmt.Sprintf("connectivity weight: offset (%d,%d) is not an 8-neighbour", dCol, dRow))
	}
	return connectivityWeights[dRow+1][dCol+1]
}

// Evaluate computes the objectives of labels over the shared image data.
func Evaluate(labels genotype.LabelMap, gd *imaging.GlobalData) Objectives {
	img := gd.Image
	if labels.Width != img.Width || labels.Height != img.Height {
		panic(fmt.Sprintf("evaluate: label map %dx%d does not match image %dx%d",
			labels.Width, labels.Height, img.Width, img.Height))
	}

	var out Objectives
	for row := 0; row < img.Height; row++ {
		for col := 0; col < img.Width; col++ {
			idx := img.Index(row, col)
			own := labels.Labels[idx]
			for dRow := -1; dRow <= 1; dRow++ {
				for dCol := -1; dCol <= 1; dCol++ {
					if dRow == 0 && dCol == 0 {
						continue
					}
					if !img.InBounds(row+dRow, col+dCol) {
						continue
					}
					if labels.Labels[img.Index(row+dRow, col+dCol)] == own {
						continue
					}
					out.EdgeValue += gd.Near.At(idx, dRow, dCol)
					out.Connectivity += 1 / ConnectivityWeight(dCol, dRow)
				}
			}
		}
	}
	out.Deviation = Deviation(labels, img)
	return out
}

// Deviation sums each pixel's colour distance to its region's mean colour.
func Deviation(labels genotype.LabelMap, img *imaging.Image) float64 {
	n := labels.Regions() + 1
	sums := make([][3]float64, n)
	counts := make([]float64, n)
	for idx, l := range labels.Labels {
		p := img.Pix[idx]
		sums[l][0] += float64(p.R)
		sums[l][1] += float64(p.G)
		sums[l][2] += float64(p.B)
		counts[l]++
	}
	centroids := make([][3]float64, n)
	for l := 1; l < n; l++ {
		if counts[l] == 0 {
			continue
		}
		for ch := 0; ch < 3; ch++ {
			centroids[l][ch] = sums[l][ch] / counts[l]
		}
	}

	total := 0.0
	for idx, l := range labels.Labels {
		p := img.Pix[idx]
		c := centroids[l]
		dr := float64(p.R) - c[0]
		dg := float64(p.G) - c[1]
		db := float64(p.B) - c[2]
		total += math.Sqrt(dr*dr + dg*dg + db*db)
	}
	return total
}

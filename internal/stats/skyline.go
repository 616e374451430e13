package stats

import (
	"fmt"
	"path/filepath"
	"strconv"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
	"paretoseg/internal/model"
	"paretoseg/internal/render"
)

// SkylineImage lists the files written for one skyline member.
type SkylineImage struct {
	CandidateID string `json:"candidate_id"`
	Segments    string `json:"segments"`
	Borders     string `json:"borders"`
	Overlay     string `json:"overlay"`
}

// WriteSkylineImages decodes every skyline genome against src and writes its
// segment, border and overlay PNGs to runDir/skyline/<i>/.
func WriteSkylineImages(runDir string, src *imaging.Image, skyline []model.CandidateRecord) ([]SkylineImage, error) {
	out := make([]SkylineImage, 0, len(skyline))
	for i, rec := range skyline {
		g, err := genotype.ParseGenome(rec.Genome, src.Area())
		if err != nil {
			return nil, fmt.Errorf("skyline member %s: %w", rec.ID, err)
		}
		labels := genotype.Decode(g, src.Width, src.Height)

		dir := filepath.Join(runDir, skylineDir, strconv.Itoa(i))
		img := SkylineImage{
			CandidateID: rec.ID,
			Segments:    filepath.Join(dir, "segments.png"),
			Borders:     filepath.Join(dir, "borders.png"),
			Overlay:     filepath.Join(dir, "overlay.png"),
		}
		if err := render.WritePNG(img.Segments, render.Segments(labels)); err != nil {
			return nil, err
		}
		if err := render.WritePNG(img.Borders, render.Borders(labels)); err != nil {
			return nil, err
		}
		overlay, err := render.Overlay(src, labels)
		if err != nil {
			return nil, err
		}
		if err := render.WritePNG(img.Overlay, overlay); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

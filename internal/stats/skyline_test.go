package stats

import (
	"image/png"
	"os"
	"testing"

	"paretoseg/internal/imaging"
	"paretoseg/internal/model"
)

func TestWriteSkylineImages(t *testing.T) {
	src := imaging.NewImage(3, 2)
	runDir := t.TempDir()
	skyline := []model.CandidateRecord{
		{ID: "a", Genome: "RNNUUN"},
		{ID: "b", Genome: "NNNNNN"},
	}

	images, err := WriteSkylineImages(runDir, src, skyline)
	if err != nil {
		t.Fatalf("write skyline images: %v", err)
	}
	if len(images) != 2 || images[1].CandidateID != "b" {
		t.Fatalf("unexpected images: %+v", images)
	}
	for _, img := range images {
		for _, path := range []string{img.Segments, img.Borders, img.Overlay} {
			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("open %s: %v", path, err)
			}
			decoded, err := png.Decode(f)
			f.Close()
			if err != nil {
				t.Fatalf("decode %s: %v", path, err)
			}
			if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
				t.Fatalf("unexpected bounds for %s: %v", path, b)
			}
		}
	}
}

func TestWriteSkylineImagesRejectsBadGenome(t *testing.T) {
	src := imaging.NewImage(3, 2)
	if _, err := WriteSkylineImages(t.TempDir(), src, []model.CandidateRecord{{ID: "x", Genome: "RR"}}); err == nil {
		t.Fatal("expected error for genome of the wrong length")
	}
}

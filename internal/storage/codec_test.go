package storage

import (
	"errors"
	"testing"

	"paretoseg/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	run := sampleRun("r1")
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != run {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, run)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	run := sampleRun("r1")
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}

	skyline := sampleSkyline("r1")
	skyline[0].VersionedRecord = model.VersionedRecord{}
	data, err = EncodeSkyline(skyline)
	if err != nil {
		t.Fatalf("encode skyline: %v", err)
	}
	if _, err := DecodeSkyline(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeFronts([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := DecodeGenerationDiagnostics([]byte("[1")); err == nil {
		t.Fatal("expected decode error")
	}
}

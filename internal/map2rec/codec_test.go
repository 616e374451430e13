package map2rec

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestDefaultRecordSupportsAllRecordKinds(t *testing.T) {
	for _, kind := range []string{KindRun, KindFunction} {
		record, err := DefaultRecord(kind)
		if err != nil {
			t.Fatalf("default record for %s: %v", kind, err)
		}
		if record == nil {
			t.Fatalf("default record for %s is nil", kind)
		}
	}
}

func TestDefaultRecordUnsupportedKind(t *testing.T) {
	if _, err := DefaultRecord("unknown"); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestEncodeDecodeRunRecord(t *testing.T) {
	record := defaultRunConfigRecord()
	record.RunID = "run-1"
	record.ProblemInstance = "img.png"

	data, err := EncodeRecord(KindRun, record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	kind, got, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if kind != KindRun {
		t.Fatalf("kind mismatch: got=%s want=%s", kind, KindRun)
	}
	gotJSON := canonicalJSON(t, got)
	wantJSON := canonicalJSON(t, record)
	if !bytes.Equal(gotJSON, wantJSON) {
		t.Fatalf("record mismatch:\n got=%s\nwant=%s", gotJSON, wantJSON)
	}
}

func TestEncodeRecordUnsupportedKind(t *testing.T) {
	if _, err := EncodeRecord("unknown", struct{}{}); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}

func TestDecodeRecordVersionMismatch(t *testing.T) {
	payload, err := json.Marshal(defaultFunctionRecord())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	data, err := json.Marshal(RecordEnvelope{
		SchemaVersion: SupportedSchemaVersion + 1,
		CodecVersion:  SupportedCodecVersion,
		Kind:          KindFunction,
		Payload:       payload,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	if _, _, err := DecodeRecord(data); !errors.Is(err, ErrRecordVersionMismatch) {
		t.Fatalf("expected ErrRecordVersionMismatch, got %v", err)
	}
}

func TestParseRunConfigRoundTripsMarshalledConfig(t *testing.T) {
	want := defaultRunConfigRecord()
	want.ProblemInstance = "img.png"
	want.PreserveSkyline = true

	data, err := MarshalRunConfig(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ParseRunConfig(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(canonicalJSON(t, got), canonicalJSON(t, want)) {
		t.Fatalf("round trip mismatch:\n got=%s\nwant=%s", canonicalJSON(t, got), canonicalJSON(t, want))
	}
}

func TestParseRunConfigRejectsMalformedJSON(t *testing.T) {
	if _, err := ParseRunConfig([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseRunConfigReportsInvalidField(t *testing.T) {
	_, err := ParseRunConfig([]byte(`{"population_size": "many"}`))
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestDecodeRunRecord(t *testing.T) {
	want := defaultRunConfigRecord()
	want.RunID = "run-7"
	data, err := EncodeRecord(KindRun, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRunRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(canonicalJSON(t, got), canonicalJSON(t, want)) {
		t.Fatalf("record mismatch:\n got=%s\nwant=%s", canonicalJSON(t, got), canonicalJSON(t, want))
	}

	fn, err := EncodeRecord(KindFunction, FunctionRecord{Name: "uniform"})
	if err != nil {
		t.Fatalf("encode function: %v", err)
	}
	if _, err := DecodeRunRecord(fn); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind for a function record, got %v", err)
	}
}

func canonicalJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal canonical json: %v", err)
	}
	return data
}

package map2rec

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	SupportedSchemaVersion = 1
	SupportedCodecVersion  = 1
)

var ErrRecordVersionMismatch = errors.New("record version mismatch")

type RecordEnvelope struct {
	SchemaVersion int             `json:"schema_version"`
	CodecVersion  int             `json:"codec_version"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
}

func DefaultRecord(kind string) (any, error) {
	switch kind {
	case KindRun:
		return defaultRunConfigRecord(), nil
	case KindFunction:
		return defaultFunctionRecord(), nil
	default:
		return nil, ErrUnsupportedKind
	}
}

// ParseRunConfig decodes a run configuration file body. The body is a plain
// JSON object using the run configuration keys, not an envelope.
func ParseRunConfig(data []byte) (RunConfigRecord, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return RunConfigRecord{}, fmt.Errorf("parse run config: %w", err)
	}
	rec, err := Convert(KindRun, raw)
	if err != nil {
		return RunConfigRecord{}, err
	}
	return rec.(RunConfigRecord), nil
}

// DecodeRunRecord decodes an envelope that must hold a run configuration.
func DecodeRunRecord(data []byte) (RunConfigRecord, error) {
	kind, rec, err := DecodeRecord(data)
	if err != nil {
		return RunConfigRecord{}, err
	}
	run, ok := rec.(RunConfigRecord)
	if !ok {
		return RunConfigRecord{}, fmt.Errorf("%w: expected %s record, got %s", ErrUnsupportedKind, KindRun, kind)
	}
	return run, nil
}

// MarshalRunConfig renders a run configuration in the same plain form that
// ParseRunConfig reads.
func MarshalRunConfig(rec RunConfigRecord) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal run config: %w", err)
	}
	return append(data, '\n'), nil
}

func EncodeRecord(kind string, record any) ([]byte, error) {
	if _, err := DefaultRecord(kind); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	env := RecordEnvelope{
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
		Kind:          kind,
		Payload:       payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", kind, err)
	}
	return data, nil
}

func DecodeRecord(data []byte) (string, any, error) {
	var env RecordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, err
	}
	if env.SchemaVersion != SupportedSchemaVersion || env.CodecVersion != SupportedCodecVersion {
		return "", nil, fmt.Errorf("%w: schema=%d codec=%d", ErrRecordVersionMismatch, env.SchemaVersion, env.CodecVersion)
	}

	record, err := decodeRecordPayload(env.Kind, env.Payload)
	if err != nil {
		return "", nil, err
	}
	return env.Kind, record, nil
}

func decodeRecordPayload(kind string, payload []byte) (any, error) {
	switch kind {
	case KindRun:
		var rec RunConfigRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case KindFunction:
		var rec FunctionRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, ErrUnsupportedKind
	}
}

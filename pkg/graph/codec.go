package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Payload Serialization API
// =============================================================================

// MarshalPayload converts a payload to indented JSON bytes.
func MarshalPayload(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePayload(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePayload writes a payload as indented JSON to w.
func WritePayload(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// UnmarshalPayload decodes JSON bytes into a payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	return ReadPayload(bytes.NewReader(data))
}

// ReadPayload decodes a payload from r. A document with neither nodes nor
// links decodes to an empty payload, which renders nothing.
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// ReadPayloadFile reads a JSON payload file.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPayload(f)
}

// ReadGraphFile reads a payload file and ingests it.
func ReadGraphFile(path string) (*Graph, IngestReport, error) {
	p, err := ReadPayloadFile(path)
	if err != nil {
		return nil, IngestReport{}, err
	}
	g, rep := Ingest(p)
	return g, rep, nil
}

// =============================================================================
// Loop Serialization API
// =============================================================================

// UnmarshalLoops decodes a loop query response. It also accepts a bare JSON
// array of loops or a single loop object.
func UnmarshalLoops(data []byte) (LoopSet, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return LoopSet{}, fmt.Errorf("decode loops: empty document")
	}
	switch trimmed[0] {
	case '[':
		var loops []Loop
		if err := json.Unmarshal(trimmed, &loops); err != nil {
			return LoopSet{}, fmt.Errorf("decode loops: %w", err)
		}
		return LoopSet{Loops: loops}, nil
	default:
		var probe struct {
			Loops json.RawMessage `json:"loops"`
			Nodes json.RawMessage `json:"nodes"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return LoopSet{}, fmt.Errorf("decode loops: %w", err)
		}
		if probe.Loops == nil && probe.Nodes != nil {
			var l Loop
			if err := json.Unmarshal(trimmed, &l); err != nil {
				return LoopSet{}, fmt.Errorf("decode loop: %w", err)
			}
			return LoopSet{Loops: []Loop{l}}, nil
		}
		var set LoopSet
		if err := json.Unmarshal(trimmed, &set); err != nil {
			return LoopSet{}, fmt.Errorf("decode loops: %w", err)
		}
		return set, nil
	}
}

// ReadLoopsFile reads a loop document from disk.
func ReadLoopsFile(path string) (LoopSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoopSet{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLoops(data)
}

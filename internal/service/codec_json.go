package service

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonCodec handles JSON manifests with a top-level "version" string.
type jsonCodec struct{}

// NewJSONCodec creates the json ManifestCodec.
func NewJSONCodec() ManifestCodec {
	return jsonCodec{}
}

func (jsonCodec) ReadVersion(data []byte) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to parse json: %w", err)
	}
	raw, ok := doc[VersionKey]
	if !ok {
		return "", fmt.Errorf("no top-level %q field", VersionKey)
	}
	var version string
	if err := json.Unmarshal(raw, &version); err != nil {
		return "", fmt.Errorf("top-level %q is not a string: %w", VersionKey, err)
	}
	return version, nil
}

// WriteVersion swaps the top-level version literal in place using decoder
// offsets, so key order and indentation survive.
func (jsonCodec) WriteVersion(data []byte, version string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("json manifest is not an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
		keyEnd := dec.InputOffset()
		if key, _ := keyTok.(string); key != VersionKey {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("failed to parse json: %w", err)
			}
			continue
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
		if _, ok := valTok.(string); !ok {
			return nil, fmt.Errorf("top-level %q is not a string", VersionKey)
		}
		seg := data[keyEnd:dec.InputOffset()]
		open := int(keyEnd) + bytes.IndexByte(seg, '"')
		end := int(keyEnd) + bytes.LastIndexByte(seg, '"') + 1
		quoted, err := json.Marshal(version)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(data)+len(quoted))
		out = append(out, data[:open]...)
		out = append(out, quoted...)
		out = append(out, data[end:]...)
		return out, nil
	}
	return nil, fmt.Errorf("no top-level %q field", VersionKey)
}

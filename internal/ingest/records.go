package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRecords decodes a JSON array of objects. The header follows the key
// order of the first object; later objects may carry different keys.
func DecodeRecords(data []byte) ([]string, []map[string]any, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("decoding records: %w", err)
	}
	if len(raws) == 0 {
		return nil, nil, nil
	}

	header, err := objectKeys(raws[0])
	if err != nil {
		return nil, nil, fmt.Errorf("record 1: %w", err)
	}

	records := make([]map[string]any, 0, len(raws))
	for i, raw := range raws {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return header, records, nil
}

func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

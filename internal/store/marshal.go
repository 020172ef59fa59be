package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalOptions converts RunOptions to JSON TEXT for storage.
// Struct field order is fixed, so the encoding is deterministic.
func marshalOptions(opts RunOptions) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(opts); err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func unmarshalOptions(data string) (RunOptions, error) {
	var opts RunOptions
	if err := json.Unmarshal([]byte(data), &opts); err != nil {
		return RunOptions{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return opts, nil
}

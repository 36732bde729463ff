// Package data reads chart requests from and writes responses to disk.
package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"plancharts/internal/protocol"
)

// LoadRequest reads a request envelope from path, or from stdin when path
// is "-". The bytes are returned as read; only JSON well-formedness is
// checked here.
func LoadRequest(path string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("failed to parse request file %s: invalid JSON", path)
	}
	return raw, nil
}

// SaveResponse writes resp as indented JSON to path.
func SaveResponse(resp protocol.Response, path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write response file: %w", err)
	}

	return nil
}

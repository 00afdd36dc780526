package blobhttp

import (
	"encoding/json"
	"os"

	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

// writeManifest сохраняет манифест расшаренного файла на диск.
func writeManifest(path string, m blobproto.Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, b, 0o644)
}

// readManifest читает манифест с диска.
func readManifest(path string) (*blobproto.Manifest, error) {
	// Манифест мал, ReadFile достаточно.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m blobproto.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

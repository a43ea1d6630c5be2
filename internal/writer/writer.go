// Package writer persists scrape results to local JSON files.
package writer

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// WriteJSON marshals v with two-space indentation and writes it to path,
// creating parent directories as needed. An empty path is a no-op so
// callers can pass the flag value through unconditionally.
func WriteJSON(path string, v any) error {
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "writer: marshal output")
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "writer: create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "writer: write %s", path)
	}

	zap.L().Debug("wrote output file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

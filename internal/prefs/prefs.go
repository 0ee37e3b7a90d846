// Package prefs keeps the choices a user makes inside the list between runs.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const fileName = "prefs.json"

// Prefs is what the list remembers.
type Prefs struct {
	MoveMode string `json:"move_mode,omitempty"`
}

// DefaultPath is prefs.json under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stitchlist", fileName), nil
}

// Save writes p through a temp file so a crash never leaves half a file.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load returns the zero Prefs when nothing was saved yet.
func Load(path string) (Prefs, error) {
	var p Prefs
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

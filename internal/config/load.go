package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileNames lists configuration file names Find looks for, in order.
var FileNames = []string{".spanweave.yaml", ".spanweave.yml", ".spanweave.json"}

// Load reads, parses and resolves a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg, err := Resolve(p)
	if err != nil {
		return nil, fmt.Errorf("resolve config %s: %w", path, err)
	}

	return cfg, nil
}

// Find walks up from dir and returns the first configuration file found, or
// an empty string if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			switch {
			case err == nil && !info.IsDir():
				return candidate, nil
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return "", fmt.Errorf("check %s: %w", candidate, err)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

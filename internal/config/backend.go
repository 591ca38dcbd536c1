package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Backend loads and saves a Config.
type Backend interface {
	Load() (Config, error)
	Save(Config) error
}

// ConfigPath returns ~/.config/twinpane/config.json on every platform.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "twinpane", "config.json")
}

// FileBackend keeps the config as indented JSON in one file.
type FileBackend struct {
	path string

	mu       sync.Mutex
	parseErr error
}

// NewFileBackend uses path, or ConfigPath when path is empty.
func NewFileBackend(path string) *FileBackend {
	if path == "" {
		path = ConfigPath()
	}
	return &FileBackend{path: path}
}

func (f *FileBackend) Path() string { return f.path }

// Load reads the file. A missing file yields defaults. An unparsable file
// also yields defaults, with the parse error kept for ParseError.
func (f *FileBackend) Load() (Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parseErr = nil

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		log.Printf("Config: no config at %s, using defaults", f.path)
		return Default(), nil
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", f.path, err)
		return Default(), err
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Config: JSON parse error: %v", err)
		f.parseErr = err
		return Default(), nil
	}
	if cfg.RecentPaths == nil {
		cfg.RecentPaths = []string{}
	}
	if len(cfg.RecentPaths) > MaxRecentPaths {
		cfg.RecentPaths = cfg.RecentPaths[:MaxRecentPaths]
	}
	log.Printf("Config: loaded from %s", f.path)
	return cfg, nil
}

// Save writes cfg through a temp file and rename so a crash never leaves
// a half-written config.
func (f *FileBackend) Save(cfg Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// ParseError returns the error from the last Load if the file was malformed.
func (f *FileBackend) ParseError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parseErr
}

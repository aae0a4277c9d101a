package watch

// Package watch loads the registry of subscription references the bridge
// polls, declared in YAML/JSON config files.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Watch is a single subscription the bridge keeps an eye on. When Simulate
// is set, every poll pass also issues a dry-run renewal with that value and
// publishes its outcome downstream.
type Watch struct {
	ID        string `json:"id" yaml:"id"`
	Reference string `json:"reference" yaml:"reference"`
	Simulate  string `json:"simulate" yaml:"simulate"`
	Enabled   *bool  `json:"enabled" yaml:"enabled"`
}

// configFile represents the structure of the watches configuration file.
type configFile struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

// Registry materializes watch definitions loaded from config files.
type Registry struct {
	mu      sync.RWMutex
	watches []Watch
	idx     map[string]Watch
}

// LoadRegistry loads the watch registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watches file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watches file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watches file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Watches) == 0 {
		return nil, errors.New("watches file contains no watches entries")
	}

	reg := &Registry{
		watches: make([]Watch, len(fileReg.Watches)),
		idx:     make(map[string]Watch, len(fileReg.Watches)),
	}

	for i := range fileReg.Watches {
		w := sanitizeWatch(fileReg.Watches[i])
		if err := validateWatch(w); err != nil {
			return nil, fmt.Errorf("watches[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches[i] = w
		reg.idx[w.ID] = w
	}

	return reg, nil
}

// parseRegistry attempts to decode the watches file content.
func parseRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var decodeErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		reg, err := unmarshalRegistry(d.name, data, d.fn)
		if err == nil {
			return reg, nil
		}
		if decodeErr == nil {
			decodeErr = err
		}
	}

	if decodeErr != nil {
		return configFile{}, decodeErr
	}
	return configFile{}, errors.New("watches file format not recognized (expected YAML or JSON)")
}

// unmarshalRegistry decodes the watches file using the provided function.
func unmarshalRegistry(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var reg configFile
	if err := fn(data, &reg); err != nil {
		return configFile{}, fmt.Errorf("decode %s watches: %w", name, err)
	}
	return reg, nil
}

func sanitizeWatch(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.Reference = strings.TrimSpace(w.Reference)
	w.Simulate = strings.TrimSpace(w.Simulate)
	if w.Enabled == nil {
		def := true
		w.Enabled = &def
	}
	return w
}

func validateWatch(w Watch) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	if w.Reference == "" {
		return fmt.Errorf("reference is required for watch %q", w.ID)
	}
	return nil
}

// All returns a copy of every loaded watch.
func (r *Registry) All() []Watch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// Enabled returns the watches that are not explicitly disabled.
func (r *Registry) Enabled() []Watch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Watch
	for _, w := range r.watches {
		if w.Enabled != nil && !*w.Enabled {
			continue
		}
		out = append(out, w)
	}
	return out
}

// ByID returns the watch entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Watch, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Watch{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.idx[id]
	return w, ok
}

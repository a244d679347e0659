package repository

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"plugsetup/pkg/schema"
)

// FileConfigStore persists plugin configuration as a YAML document on disk.
// It satisfies the dispatcher's ConfigStore port. All writes go through an
// atomic replace so a crash mid-save never leaves a torn file.
type FileConfigStore struct {
	path string
	mu   sync.Mutex
}

// NewFileConfigStore creates a store backed by the given YAML file. The file
// does not need to exist yet.
func NewFileConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{path: path}
}

// Current reads the full configuration map. A missing file is an empty
// configuration, not an error.
func (s *FileConfigStore) Current() (map[string]schema.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]schema.Value{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := map[string]schema.Value{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// Save replaces the stored configuration with the given map.
func (s *FileConfigStore) Save(config map[string]schema.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := writeFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (s *FileConfigStore) Path() string {
	return s.path
}

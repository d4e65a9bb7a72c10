package rules

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Source provides the structured rules configuration from somewhere.
// Deserialization mechanics live here; Build owns the semantics.
type Source interface {
	Load() (map[string]DomainConfig, error)
}

// FileSource reads the configuration from a TOML file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load() (map[string]DomainConfig, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %q: %w", s.Path, err)
	}

	var cfg map[string]DomainConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rules file %q: %w", s.Path, err)
	}

	return cfg, nil
}

// LoadFile is the convenience path used by the binaries: read, parse, build.
func LoadFile(path string) (*Store, error) {
	cfg, err := NewFileSource(path).Load()
	if err != nil {
		return nil, err
	}
	return Build(cfg)
}

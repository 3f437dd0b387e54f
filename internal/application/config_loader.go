package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-medals/internal/ports"
)

// Environment variables that override file configuration.
const (
	EnvConfigPath = "MEDALS_CONFIG"
	EnvAddr       = "MEDALS_ADDR"
	EnvDataset    = "MEDALS_DATASET"
	EnvStorePath  = "MEDALS_STORE"
	EnvLocale     = "MEDALS_LOCALE"
)

// ConfigLoader parses and validates dashboard configuration files.
// It is safe for concurrent use.
type ConfigLoader struct {
	validator *validator.Validate
	lookupEnv func(string) (string, bool)
}

// NewConfigLoader creates a loader that reads overrides from the process
// environment.
func NewConfigLoader() (*ConfigLoader, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &ConfigLoader{validator: v, lookupEnv: os.LookupEnv}, nil
}

// WithEnv returns a copy of the loader that resolves environment overrides
// through lookup.
func (cl *ConfigLoader) WithEnv(lookup func(string) (string, bool)) *ConfigLoader {
	clone := *cl
	clone.lookupEnv = lookup
	return &clone
}

// Load reads the file at path, or uses DefaultConfig when path is empty,
// then applies environment overrides and validates the result.
func (cl *ConfigLoader) Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		return cl.finish(&cfg)
	}
	return cl.LoadFromFile(path)
}

// LoadFromFile loads configuration from a YAML file.
func (cl *ConfigLoader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.NewConfigError(path, ports.ErrConfigNotFound)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return cl.load(data)
}

// LoadFromReader loads configuration from an io.Reader.
func (cl *ConfigLoader) LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return cl.load(data)
}

func (cl *ConfigLoader) load(data []byte) (*Config, error) {
	cfg, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cl.finish(cfg)
}

func (cl *ConfigLoader) finish(cfg *Config) (*Config, error) {
	cl.applyEnv(cfg)
	if err := cl.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Validate runs struct tag validation followed by semantic validation.
func (cl *ConfigLoader) Validate(cfg *Config) error {
	if err := cl.validator.Struct(cfg); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}
	if err := validateSemantics(cfg); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}
	return nil
}

// parseYAML decodes data over DefaultConfig so omitted fields keep their
// defaults. Unknown fields are rejected.
func parseYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &cfg, nil
}

func (cl *ConfigLoader) applyEnv(cfg *Config) {
	if cl.lookupEnv == nil {
		return
	}
	if v, ok := cl.lookupEnv(EnvAddr); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := cl.lookupEnv(EnvDataset); ok && v != "" {
		var paths []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.Dataset.Paths = paths
	}
	if v, ok := cl.lookupEnv(EnvStorePath); ok && v != "" {
		cfg.Store.Path = v
	}
	if v, ok := cl.lookupEnv(EnvLocale); ok && v != "" {
		cfg.Locale = v
	}
}

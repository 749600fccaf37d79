package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/aretw0/iiifanno/pkg/core"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = ".iiifanno.yaml"

// Config holds defaults for command line flags. Flags given explicitly
// take precedence over the file.
type Config struct {
	ReferenceMode      string `yaml:"reference_mode"`
	URLPrefix          string `yaml:"url_prefix"`
	AnnolistNameScheme string `yaml:"annolist_name_scheme"`
	OutputDirectory    string `yaml:"output_directory"`
	Log                string `yaml:"log"`
	Format             string `yaml:"format"`
}

// LoadConfig reads a YAML config file. A missing file yields an empty
// config unless required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated values.
func (c *Config) Validate() error {
	if _, err := core.ParseReferenceMode(c.ReferenceMode); err != nil {
		return err
	}
	if _, err := core.ParseNameScheme(c.AnnolistNameScheme); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log); err != nil {
		return err
	}
	return nil
}

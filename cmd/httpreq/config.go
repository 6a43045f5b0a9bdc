package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds defaults that flags may override.
type Config struct {
	Headers        map[string]string `yaml:"headers,omitempty"`
	ConnectTimeout time.Duration     `yaml:"connect_timeout,omitempty"`
	ReadTimeout    time.Duration     `yaml:"read_timeout,omitempty"`
	WriteTimeout   time.Duration     `yaml:"write_timeout,omitempty"`
	MaxHeadLength  uint              `yaml:"max_head_length,omitempty"`
	CACerts        []string          `yaml:"ca_certs,omitempty"`
	RequestID      bool              `yaml:"request_id,omitempty"`
	NoColor        bool              `yaml:"no_color,omitempty"`
}

// LoadConfig reads a YAML config. An empty path yields the zero Config.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errConfig, err.Error())
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(errConfig, "parsing %s: %s", path, err)
	}
	return cfg, nil
}

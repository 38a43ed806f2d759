// Package config holds the renderer defaults that deployments tune without
// touching templates: hidden field names, default classes, label keys.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned (wrapped) when a configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the YAML document shape:
//
//	csrf:
//	  field: _csrf
//	  container_style: "display:none;"
//	error_list:
//	  class: error
//	checkbox:
//	  value: "1"
//	classes:
//	  text: input
//	label_key_prefix: "label."
type Config struct {
	CSRF      CSRFConfig      `yaml:"csrf"`
	ErrorList ErrorListConfig `yaml:"error_list"`
	Checkbox  CheckboxConfig  `yaml:"checkbox"`
	// Classes maps widget kinds ("text", "select", "label", ...) to the class
	// applied when the caller does not set one.
	Classes        map[string]string `yaml:"classes"`
	LabelKeyPrefix string            `yaml:"label_key_prefix"`
}

type CSRFConfig struct {
	Field          string `yaml:"field"`
	ContainerStyle string `yaml:"container_style"`
}

type ErrorListConfig struct {
	Class string `yaml:"class"`
	// Separator is written between <li> elements.
	Separator string `yaml:"separator"`
}

type CheckboxConfig struct {
	Value string `yaml:"value"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CSRF: CSRFConfig{
			Field:          "_csrf",
			ContainerStyle: "display:none;",
		},
		ErrorList: ErrorListConfig{
			Class:     "error",
			Separator: "\n",
		},
		Checkbox: CheckboxConfig{
			Value: "1",
		},
		LabelKeyPrefix: "label.",
	}
}

// Parse decodes YAML on top of the defaults and validates the result. Keys
// absent from the document keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses path from fsys.
func Load(fsys fs.FS, path string) (Config, error) {
	if fsys == nil {
		return Config{}, errors.New("config: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks required values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CSRF.Field) == "" {
		return fmt.Errorf("%w: csrf.field is required", ErrInvalid)
	}
	if strings.TrimSpace(c.Checkbox.Value) == "" {
		return fmt.Errorf("%w: checkbox.value is required", ErrInvalid)
	}
	for kind := range c.Classes {
		if strings.TrimSpace(kind) == "" {
			return fmt.Errorf("%w: classes contains an empty widget kind", ErrInvalid)
		}
	}
	return nil
}

// Class returns the configured default class for a widget kind.
func (c Config) Class(kind string) string {
	if c.Classes == nil {
		return ""
	}
	return strings.TrimSpace(c.Classes[kind])
}

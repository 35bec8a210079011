package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration.
type Config struct {
	Capability string  `yaml:"capability" json:"capability"`
	Writer     string  `yaml:"writer" json:"writer"`
	Options    Options `yaml:"options" json:"options"`
}

// Options represents generation options.
type Options struct {
	MethodName   string   `yaml:"methodName" json:"methodName"`
	UnitSuffix   string   `yaml:"unitSuffix" json:"unitSuffix"`
	Indent       string   `yaml:"indent" json:"indent"`
	ExportedOnly bool     `yaml:"exportedOnly" json:"exportedOnly"`
	IncludeTypes []string `yaml:"includeTypes" json:"includeTypes"`
	ExcludeTypes []string `yaml:"excludeTypes" json:"excludeTypes"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Capability: DefaultCapability,
		Writer:     DefaultWriter,
		Options:    DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	ext := strings.ToLower(filepath.Ext(path))

	var loaded Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return errors.Wrap(err, "parsing YAML config")
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return errors.Wrap(err, "parsing JSON config")
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return errors.Newf("unable to parse %s as YAML or JSON", path)
			}
		}
	}

	c.merge(&loaded)

	return c.Validate()
}

// merge merges the loaded config into the current config.
func (c *Config) merge(loaded *Config) {
	if loaded.Capability != "" {
		c.Capability = loaded.Capability
	}
	if loaded.Writer != "" {
		c.Writer = loaded.Writer
	}
	if loaded.Options.MethodName != "" {
		c.Options.MethodName = loaded.Options.MethodName
	}
	if loaded.Options.UnitSuffix != "" {
		c.Options.UnitSuffix = loaded.Options.UnitSuffix
	}
	if loaded.Options.Indent != "" {
		c.Options.Indent = loaded.Options.Indent
	}
	if loaded.Options.ExportedOnly {
		c.Options.ExportedOnly = true
	}
	if loaded.Options.IncludeTypes != nil {
		c.Options.IncludeTypes = loaded.Options.IncludeTypes
	}
	if loaded.Options.ExcludeTypes != nil {
		c.Options.ExcludeTypes = loaded.Options.ExcludeTypes
	}
}

// Validate checks that qualified identifiers have the importpath.Name form.
func (c *Config) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"capability", c.Capability},
		{"writer", c.Writer},
	} {
		if _, _, ok := SplitQualified(f.value); !ok {
			return errors.WithHint(
				errors.Newf("config: %s %q is not a qualified type name", f.name, f.value),
				`use the form "import/path.TypeName"`,
			)
		}
	}
	if c.Options.MethodName == "" {
		return errors.New("config: options.methodName must not be empty")
	}
	return nil
}

// SplitQualified splits "import/path.Name" into its import path and name.
func SplitQualified(qualified string) (path, name string, ok bool) {
	i := strings.LastIndex(qualified, ".")
	if i <= 0 || i == len(qualified)-1 || strings.HasSuffix(qualified[:i], "/") {
		return "", "", false
	}
	return qualified[:i], qualified[i+1:], true
}

// ShouldIncludeType checks if a type should be included based on config.
func (c *Config) ShouldIncludeType(name string, isExported bool) bool {
	if c.Options.ExportedOnly && !isExported {
		return false
	}

	// Check include list (if specified, type must be in it)
	if len(c.Options.IncludeTypes) > 0 && !slices.Contains(c.Options.IncludeTypes, name) {
		return false
	}

	return !slices.Contains(c.Options.ExcludeTypes, name)
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formats understood by Parse.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatForPath returns the format implied by the file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Load reads, decodes and validates the file at path.
func Load(path string) (*Config, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(path, data, format)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, returning the defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes data over the defaults. source names the input in errors.
func Parse(source string, data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, tomlParseError(source, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Source: source, Format: FormatYAML, Err: err}
		}
	default:
		return nil, fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
	return cfg, nil
}

func tomlParseError(source string, err error) error {
	pe := &ParseError{Source: source, Format: FormatTOML, Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
	}
	return pe
}

package override

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eugenenazirov/siteconfig/internal/registry"
)

// TablePrefixKey is the lower-case key that overrides the table prefix.
// It is not an entry.
const TablePrefixKey = "table_prefix"

// DefaultNames lists the override file names tried when none is configured.
var DefaultNames = []string{"local-config.yaml", "local-config.yml", "local-config.toml"}

var (
	// ErrUnsupportedFormat is returned for files that are neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported override format")
	// ErrUnsupportedValue is returned when a key maps to a non-scalar value.
	ErrUnsupportedValue = errors.New("override values must be scalars")
)

// Format identifies the syntax of an override file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Definition is one entry defined by the override layer.
type Definition struct {
	Name  string
	Value registry.Value
}

// Layer is the parsed content of an override file.
type Layer struct {
	Path        string
	Definitions []Definition
	TablePrefix string
	// HasTablePrefix is set when the file contains the table_prefix key.
	HasTablePrefix bool
}

// FormatOf derives the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Find returns the path of the first existing candidate inside dir. found is
// false when none exists; err is only set for failures other than absence.
func Find(dir string, names ...string) (path string, found bool, err error) {
	if len(names) == 0 {
		names = DefaultNames
	}
	for _, name := range names {
		candidate := name
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(dir, name)
		}
		info, statErr := os.Stat(candidate)
		if statErr == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("override %s is a directory", candidate)
			}
			return candidate, true, nil
		}
		if !errors.Is(statErr, fs.ErrNotExist) {
			return "", false, fmt.Errorf("stat override %s: %w", candidate, statErr)
		}
	}
	return "", false, nil
}

// Load reads and parses the override file at path.
func Load(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read override: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data using the format implied by path.
func Parse(path string, data []byte) (*Layer, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var pairs []pair
	switch format {
	case FormatYAML:
		pairs, err = decodeYAML(data)
	case FormatTOML:
		pairs, err = decodeTOML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse override %s: %w", path, err)
	}

	layer, err := buildLayer(pairs)
	if err != nil {
		return nil, fmt.Errorf("parse override %s: %w", path, err)
	}
	layer.Path = path
	return layer, nil
}

type pair struct {
	key string
	raw any
}

func buildLayer(pairs []pair) (*Layer, error) {
	layer := &Layer{
		Definitions: make([]Definition, 0, len(pairs)),
	}
	for _, p := range pairs {
		if p.key == TablePrefixKey {
			prefix, ok := p.raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a string", ErrUnsupportedValue, TablePrefixKey)
			}
			if !layer.HasTablePrefix {
				layer.TablePrefix = prefix
				layer.HasTablePrefix = true
			}
			continue
		}
		if !registry.ValidName(p.key) {
			return nil, fmt.Errorf("%w: %q", registry.ErrInvalidName, p.key)
		}
		value, err := registry.ValueOf(p.raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.key, errors.Join(ErrUnsupportedValue, err))
		}
		layer.Definitions = append(layer.Definitions, Definition{Name: p.key, Value: value})
	}
	return layer, nil
}

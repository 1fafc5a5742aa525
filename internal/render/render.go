// Package render prints a loaded site. YAML and TOML use the flat layout the
// override layer accepts, so such a dump can seed a new override file. JSON
// lists the entries with their kinds for other tools and is not an override
// format.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/siteconfig/internal/override"
	"github.com/eugenenazirov/siteconfig/internal/registry"
	"github.com/eugenenazirov/siteconfig/internal/schema"
)

// Redacted replaces sensitive values unless secrets are requested.
const Redacted = "********"

// Format selects the output syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for unknown output formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML)}
}

// Options controls rendering.
type Options struct {
	Format      Format
	ShowSecrets bool
}

// Document is the flat content rendered for a site. An empty TablePrefix is omitted.
type Document struct {
	Entries     []schema.Entry
	TablePrefix string
}

// NewDocument collects the entries of settings and the table prefix.
func NewDocument(settings *registry.Settings, tablePrefix string, showSecrets bool) Document {
	doc := Document{TablePrefix: tablePrefix}
	settings.Each(func(name string, value registry.Value) bool {
		if !showSecrets && schema.Sensitive(name) {
			value = registry.String(Redacted)
		}
		doc.Entries = append(doc.Entries, schema.Entry{Name: name, Value: value})
		return true
	})
	return doc
}

// Write renders doc to w.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatYAML, "":
		return writeYAML(w, doc)
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatTOML:
		return writeTOML(w, doc)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func writeYAML(w io.Writer, doc Document) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendPair := func(key string, value any) error {
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&valueNode,
		)
		return nil
	}

	for _, e := range doc.Entries {
		if err := appendPair(e.Name, e.Value.Interface()); err != nil {
			return err
		}
	}
	if doc.TablePrefix != "" {
		if err := appendPair(override.TablePrefixKey, doc.TablePrefix); err != nil {
			return err
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}

type jsonEntry struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

type jsonDocument struct {
	Entries     []jsonEntry `json:"entries"`
	TablePrefix string      `json:"table_prefix,omitempty"`
}

func writeJSON(w io.Writer, doc Document) error {
	out := jsonDocument{
		Entries:     make([]jsonEntry, 0, len(doc.Entries)),
		TablePrefix: doc.TablePrefix,
	}
	for _, e := range doc.Entries {
		out.Entries = append(out.Entries, jsonEntry{
			Name:  e.Name,
			Kind:  e.Value.Kind().String(),
			Value: e.Value.Interface(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func writeTOML(w io.Writer, doc Document) error {
	out := make(map[string]any, len(doc.Entries)+1)
	for _, e := range doc.Entries {
		out[e.Name] = e.Value.Interface()
	}
	if doc.TablePrefix != "" {
		out[override.TablePrefixKey] = doc.TablePrefix
	}

	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("write toml: %w", err)
	}
	return nil
}

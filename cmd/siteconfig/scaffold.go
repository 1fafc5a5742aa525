package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eugenenazirov/siteconfig/internal/loader"
	"github.com/eugenenazirov/siteconfig/internal/override"
	"github.com/eugenenazirov/siteconfig/internal/registry"
	"github.com/eugenenazirov/siteconfig/internal/render"
	"github.com/eugenenazirov/siteconfig/internal/schema"
	"github.com/eugenenazirov/siteconfig/internal/secrets"
)

var errOverrideExists = errors.New("override file already exists, use --force to replace it")

// writeOverrideFile writes a starter override file with fresh keys and salts.
func writeOverrideFile(dir, name string, force bool) (string, error) {
	if name == "" {
		name = override.DefaultNames[0]
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}

	format, err := override.FormatOf(path)
	if err != nil {
		return "", err
	}

	doc, err := starterDocument()
	if err != nil {
		return "", err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", errOverrideExists, path)
		}
		return "", fmt.Errorf("create override file: %w", err)
	}

	if err := render.Write(f, doc, render.Format(format)); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close override file: %w", err)
	}
	return path, nil
}

func starterDocument() (render.Document, error) {
	entries := []schema.Entry{
		{Name: schema.DBName, Value: registry.String("dbname")},
		{Name: schema.DBUser, Value: registry.String("dbuser")},
		{Name: schema.DBPassword, Value: registry.String("dbpassword")},
		{Name: schema.DBHost, Value: registry.String("dbhost")},
	}
	entries = append(entries, schema.OverrideDefaults()...)

	keys, err := generatedKeys()
	if err != nil {
		return render.Document{}, err
	}
	entries = append(entries, keys...)

	return render.Document{Entries: entries, TablePrefix: loader.DefaultTablePrefix}, nil
}

func generatedKeys() ([]schema.Entry, error) {
	keys, err := secrets.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate keys: %w", err)
	}
	return keys, nil
}

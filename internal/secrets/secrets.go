// Package secrets generates authentication keys and salts and reports the
// ones still carrying the placeholder phrase.
package secrets

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/eugenenazirov/siteconfig/internal/registry"
	"github.com/eugenenazirov/siteconfig/internal/schema"
)

// Alphabet leaves out quotes, backslashes, '$' and '`' so a phrase stays
// literal inside single or double quotes, including shell double quotes.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#%^&*()-_[]{}<>~+=,.;:/?|"

// PhraseLength is the length of a generated key or salt.
const PhraseLength = 64

// Phrase returns a random phrase of PhraseLength characters.
func Phrase() (string, error) {
	phrase, err := nanoid.Generate(Alphabet, PhraseLength)
	if err != nil {
		return "", fmt.Errorf("generate phrase: %w", err)
	}
	return phrase, nil
}

// Generate returns a fresh phrase for every key and salt, in definition order.
func Generate() ([]schema.Entry, error) {
	out := make([]schema.Entry, 0, len(schema.KeyNames))
	for _, name := range schema.KeyNames {
		phrase, err := Phrase()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, schema.Entry{Name: name, Value: registry.String(phrase)})
	}
	return out, nil
}

// Placeholders returns the keys and salts that are missing or still set to
// the placeholder phrase.
func Placeholders(settings *registry.Settings) []string {
	var out []string
	for _, name := range schema.KeyNames {
		v, ok := settings.String(name)
		if !ok || v == "" || v == schema.Placeholder {
			out = append(out, name)
		}
	}
	return out
}

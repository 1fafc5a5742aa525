package loader

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/eugenenazirov/siteconfig/internal/registry"
	"github.com/eugenenazirov/siteconfig/internal/schema"
)

// DefaultTablePrefix is used when the override layer does not set one.
const DefaultTablePrefix = "wp_"

var tablePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Site is the result of a load: frozen entries plus the mutable table prefix.
type Site struct {
	settings     *registry.Settings
	dir          string
	overridePath string

	mu           sync.RWMutex
	tablePrefix  string
	bootstrapped bool
}

// Settings returns the frozen entries.
func (s *Site) Settings() *registry.Settings {
	return s.settings
}

// Dir returns the absolute loader directory.
func (s *Site) Dir() string {
	return s.dir
}

// OverridePath returns the override file that was applied, or "" when none was found.
func (s *Site) OverridePath() string {
	return s.overridePath
}

// AbsPath returns the value of the root path marker.
func (s *Site) AbsPath() string {
	v, _ := s.settings.String(schema.AbsPath)
	return v
}

// AccessibleHosts returns the outbound HTTP allow-list, if defined.
func (s *Site) AccessibleHosts() []string {
	raw, ok := s.settings.String(schema.AccessibleHosts)
	if !ok {
		return nil
	}
	return schema.SplitHosts(raw)
}

// TablePrefix returns the current table prefix.
func (s *Site) TablePrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tablePrefix
}

// SetTablePrefix replaces the table prefix. It fails once the site has been
// handed to the bootstrap entry point.
func (s *Site) SetTablePrefix(prefix string) error {
	if err := validateTablePrefix(prefix); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bootstrapped {
		return ErrBootstrapped
	}
	s.tablePrefix = prefix
	return nil
}

// Bootstrapped reports whether the bootstrap entry point has been invoked.
func (s *Site) Bootstrapped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstrapped
}

func (s *Site) markBootstrapped() {
	s.mu.Lock()
	s.bootstrapped = true
	s.mu.Unlock()
}

func validateTablePrefix(prefix string) error {
	if !tablePrefixPattern.MatchString(prefix) {
		return fmt.Errorf("%w: %q", ErrInvalidTablePrefix, prefix)
	}
	return nil
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eugenenazirov/siteconfig/internal/override"
	"github.com/eugenenazirov/siteconfig/internal/registry"
	"github.com/eugenenazirov/siteconfig/internal/schema"
	"github.com/eugenenazirov/siteconfig/internal/secrets"
)

// DefaultBootstrapFile is the bootstrap entry point looked up under the root path.
const DefaultBootstrapFile = "wp-settings.php"

// Bootstrapper continues startup once configuration loading has finished.
// entry is the absolute path of the located bootstrap file.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, site *Site, entry string) error
}

// BootstrapFunc adapts a function to the Bootstrapper interface.
type BootstrapFunc func(ctx context.Context, site *Site, entry string) error

// Bootstrap calls f(ctx, site, entry).
func (f BootstrapFunc) Bootstrap(ctx context.Context, site *Site, entry string) error {
	return f(ctx, site, entry)
}

// Options configures a Loader.
type Options struct {
	// Dir is the loader directory. Relative paths are resolved against the
	// working directory; empty means the working directory.
	Dir string
	// OverrideFiles are tried in order inside Dir. Empty uses override.DefaultNames.
	OverrideFiles []string
	// BootstrapFile is resolved against the root path marker unless absolute.
	BootstrapFile string
	Logger        *zap.Logger
}

// Loader runs the configuration sequence for one site directory.
type Loader struct {
	dir           string
	overrideFiles []string
	bootstrapFile string
	logger        *zap.Logger

	redefinitions rate.Sometimes
}

// New resolves the loader directory and returns a Loader.
func New(opts Options) (*Loader, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve loader directory: %w", err)
	}

	bootstrapFile := opts.BootstrapFile
	if bootstrapFile == "" {
		bootstrapFile = DefaultBootstrapFile
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		dir:           abs,
		overrideFiles: opts.OverrideFiles,
		bootstrapFile: bootstrapFile,
		logger:        logger,
		redefinitions: rate.Sometimes{First: 10, Interval: time.Second},
	}, nil
}

// Dir returns the absolute loader directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Load applies the override layer, the fixed entries, the table prefix and
// the root path marker, and returns the resulting Site.
func (l *Loader) Load() (*Site, error) {
	reg := registry.New()
	site := &Site{dir: l.dir}

	path, found, err := override.Find(l.dir, l.overrideFiles...)
	if err != nil {
		return nil, err
	}

	var layer *override.Layer
	if found {
		layer, err = override.Load(path)
		if err != nil {
			return nil, err
		}
		for _, def := range layer.Definitions {
			if err := l.define(reg, def.Name, def.Value); err != nil {
				return nil, fmt.Errorf("override %s: %w", path, err)
			}
		}
		site.overridePath = path
		l.logger.Info("override applied",
			zap.String("path", path),
			zap.Int("definitions", len(layer.Definitions)),
		)
	} else {
		l.logger.Debug("no override file", zap.String("dir", l.dir))
	}

	for _, e := range schema.Fixed() {
		if err := l.define(reg, e.Name, e.Value); err != nil {
			return nil, err
		}
	}

	site.tablePrefix = DefaultTablePrefix
	if layer != nil && layer.HasTablePrefix {
		site.tablePrefix = layer.TablePrefix
	}
	if err := validateTablePrefix(site.tablePrefix); err != nil {
		return nil, err
	}

	if !reg.Defined(schema.AbsPath) {
		if err := l.define(reg, schema.AbsPath, registry.String(withTrailingSeparator(l.dir))); err != nil {
			return nil, err
		}
	}

	site.settings = reg.Freeze()

	if missing := secrets.Placeholders(site.settings); len(missing) > 0 {
		l.logger.Warn("authentication keys use placeholder values", zap.Strings("keys", missing))
	}
	l.logger.Info("configuration loaded",
		zap.Int("entries", site.settings.Len()),
		zap.String("table_prefix", site.tablePrefix),
		zap.String("abspath", site.AbsPath()),
	)

	return site, nil
}

// Locate returns the absolute path of the bootstrap entry point for site.
func (l *Loader) Locate(site *Site) (string, error) {
	entry := l.bootstrapFile
	if !filepath.IsAbs(entry) {
		entry = site.AbsPath() + entry
	}

	info, err := os.Stat(entry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMissingBootstrapFile, entry)
		}
		return "", fmt.Errorf("stat bootstrap file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrMissingBootstrapFile, entry)
	}
	return entry, nil
}

// Run loads the site and hands it to b. The bootstrap entry point is not
// invoked when loading or locating it fails.
func (l *Loader) Run(ctx context.Context, b Bootstrapper) error {
	site, err := l.Load()
	if err != nil {
		return err
	}
	return l.Bootstrap(ctx, site, b)
}

// Bootstrap locates the bootstrap entry point and invokes b with the frozen
// settings carried in ctx. The table prefix of site is fixed from here on.
func (l *Loader) Bootstrap(ctx context.Context, site *Site, b Bootstrapper) error {
	entry, err := l.Locate(site)
	if err != nil {
		return err
	}

	site.markBootstrapped()
	l.logger.Info("invoking bootstrap", zap.String("entry", entry))

	ctx = registry.NewContext(ctx, site.settings)
	return b.Bootstrap(ctx, site, entry)
}

// define stores value unless name is taken. A redefinition is ignored
// whatever its kind, so only first definitions are kind-checked.
func (l *Loader) define(reg *registry.Registry, name string, value registry.Value) error {
	if reg.Defined(name) {
		l.ignored(name)
		return nil
	}
	if err := schema.Check(name, value); err != nil {
		return err
	}
	stored, err := reg.Define(name, value)
	if err != nil {
		return err
	}
	if !stored {
		l.ignored(name)
	}
	return nil
}

func (l *Loader) ignored(name string) {
	l.redefinitions.Do(func() {
		l.logger.Debug("ignored redefinition", zap.String("name", name))
	})
}

func withTrailingSeparator(dir string) string {
	sep := string(filepath.Separator)
	if strings.HasSuffix(dir, sep) {
		return dir
	}
	return dir + sep
}

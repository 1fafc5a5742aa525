// Package bootstrap provides bootstrap entry points that take over once the
// site configuration has been loaded.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/siteconfig/internal/loader"
	"github.com/eugenenazirov/siteconfig/internal/registry"
)

// TablePrefixEnv carries the table prefix to the bootstrap process.
const TablePrefixEnv = "TABLE_PREFIX"

// ExitError reports a bootstrap process that exited with a non-zero status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("bootstrap exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exec runs the bootstrap file as a child process. Every entry is exported as
// an environment variable of the same name; the table prefix is exported as
// TABLE_PREFIX.
type Exec struct {
	// Interpreter runs the entry file when set, e.g. []string{"php"}.
	// Otherwise the entry file is executed directly.
	Interpreter []string
	Args        []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the base environment. Nil means the current process environment.
	Env []string

	// GracePeriod bounds how long the child may run after ctx is cancelled.
	GracePeriod time.Duration
	Logger      *zap.Logger
}

var _ loader.Bootstrapper = (*Exec)(nil)

// Bootstrap starts the entry file and waits for it to exit.
func (e *Exec) Bootstrap(ctx context.Context, site *loader.Site, entry string) error {
	name, args := e.command(entry)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = site.Dir()
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	base := e.Env
	if base == nil {
		base = os.Environ()
	}
	cmd.Env = append(append([]string{}, base...), Environ(site)...)

	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.GracePeriod

	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("starting bootstrap process", zap.String("command", name), zap.Strings("args", args))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	// A child killed or exiting after cancellation reports the interruption,
	// not its own status.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("bootstrap %s interrupted: %w", entry, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("run bootstrap %s: %w", entry, err)
}

func (e *Exec) command(entry string) (string, []string) {
	if len(e.Interpreter) == 0 {
		return entry, append([]string{}, e.Args...)
	}
	args := make([]string, 0, len(e.Interpreter)+len(e.Args))
	args = append(args, e.Interpreter[1:]...)
	args = append(args, entry)
	args = append(args, e.Args...)
	return e.Interpreter[0], args
}

// Environ renders the site as KEY=value pairs in definition order, followed
// by the table prefix.
func Environ(site *loader.Site) []string {
	settings := site.Settings()
	env := make([]string, 0, settings.Len()+1)
	settings.Each(func(name string, value registry.Value) bool {
		env = append(env, name+"="+value.Text())
		return true
	})
	return append(env, TablePrefixEnv+"="+site.TablePrefix())
}

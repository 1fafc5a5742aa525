package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/siteconfig/internal/bootstrap"
	"github.com/eugenenazirov/siteconfig/internal/config"
	"github.com/eugenenazirov/siteconfig/internal/database"
	"github.com/eugenenazirov/siteconfig/internal/loader"
	"github.com/eugenenazirov/siteconfig/internal/logging"
	"github.com/eugenenazirov/siteconfig/internal/render"
)

var signalNotify = signal.Notify

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("siteconfig", "Site configuration loader - applies the local override layer, defines site entries and hands over to the bootstrap file")
	kingpinApp.UsageWriter(stderr)
	kingpinApp.ErrorWriter(stderr)

	dir := kingpinApp.Flag("dir", "Site directory holding the override and bootstrap files").Short('d').String()
	overrideFile := kingpinApp.Flag("override", "Override file name (default: local-config.yaml, .yml or .toml)").String()
	bootstrapFile := kingpinApp.Flag("bootstrap", "Bootstrap file, relative to ABSPATH").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	var graceSet bool
	gracePeriod := kingpinApp.Flag("shutdown-grace-period", "Time the bootstrap process gets to exit after a signal").IsSetByUser(&graceSet).Duration()

	runCmd := kingpinApp.Command("run", "Load the site and invoke the bootstrap file").Default()
	interpreter := runCmd.Flag("interpreter", "Command used to run the bootstrap file, e.g. php").String()
	runArgs := runCmd.Arg("args", "Arguments passed to the bootstrap file").Strings()

	dumpCmd := kingpinApp.Command("dump", "Load the site and print its entries")
	dumpFormat := dumpCmd.Flag("format", "Output format").Short('f').Default(string(render.FormatYAML)).Enum(render.Formats()...)
	showSecrets := dumpCmd.Flag("show-secrets", "Print passwords, keys and salts").Bool()

	dsnCmd := kingpinApp.Command("dsn", "Load the site and print the database data source name")
	showPassword := dsnCmd.Flag("show-password", "Print the database password").Bool()

	initCmd := kingpinApp.Command("init", "Write an override file with fresh keys and salts")
	force := initCmd.Flag("force", "Overwrite an existing override file").Bool()

	saltsCmd := kingpinApp.Command("salts", "Print freshly generated keys and salts")
	saltsFormat := saltsCmd.Flag("format", "Output format").Short('f').Default(string(render.FormatYAML)).Enum(render.Formats()...)

	command, err := kingpinApp.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "siteconfig: %v\n", err)
		return 2
	}

	overrides := &config.CLIOverrides{}

	if *dir != "" {
		overrides.Dir = dir
	}

	if *overrideFile != "" {
		overrides.OverrideFile = overrideFile
	}

	if *bootstrapFile != "" {
		overrides.BootstrapFile = bootstrapFile
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if graceSet {
		overrides.ShutdownGracePeriod = gracePeriod
	}

	if *interpreter != "" {
		overrides.Interpreter = interpreter
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "siteconfig: failed to load configuration: %v\n", err)
		return 2
	}

	logger, err := logging.New(cfg.Level())
	if err != nil {
		fmt.Fprintf(stderr, "siteconfig: failed to initialize logger: %v\n", err)
		return 2
	}
	defer func() {
		_ = logger.Sync()
	}()

	l, err := loader.New(loader.Options{
		Dir:           cfg.Dir,
		OverrideFiles: cfg.OverrideFiles(),
		BootstrapFile: cfg.BootstrapFile,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to initialize loader", zap.Error(err))
		return 1
	}

	switch command {
	case runCmd.FullCommand():
		ctx, stop := signalContext(context.Background(), logger)
		defer stop()

		runner := &bootstrap.Exec{
			Interpreter: cfg.InterpreterArgs(),
			Args:        *runArgs,
			Stdin:       stdin,
			Stdout:      stdout,
			Stderr:      stderr,
			GracePeriod: cfg.ShutdownGracePeriod,
			Logger:      logger,
		}
		return exitCode(l.Run(ctx, runner), logger)

	case dumpCmd.FullCommand():
		site, err := l.Load()
		if err != nil {
			return exitCode(err, logger)
		}
		doc := render.NewDocument(site.Settings(), site.TablePrefix(), *showSecrets)
		return exitCode(render.Write(stdout, doc, render.Format(*dumpFormat)), logger)

	case dsnCmd.FullCommand():
		site, err := l.Load()
		if err != nil {
			return exitCode(err, logger)
		}
		creds, err := database.FromSettings(site.Settings())
		if err != nil {
			return exitCode(err, logger)
		}
		dsn := creds.Redacted()
		if *showPassword {
			dsn = creds.DSN()
		}
		fmt.Fprintln(stdout, dsn)
		return 0

	case initCmd.FullCommand():
		path, err := writeOverrideFile(l.Dir(), cfg.OverrideFile, *force)
		if err != nil {
			return exitCode(err, logger)
		}
		logger.Info("override file written", zap.String("path", path))
		return 0

	case saltsCmd.FullCommand():
		entries, err := generatedKeys()
		if err != nil {
			return exitCode(err, logger)
		}
		return exitCode(render.Write(stdout, render.Document{Entries: entries}, render.Format(*saltsFormat)), logger)
	}

	return 0
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-quit:
			logger.Info("shutting down bootstrap", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(quit)
		cancel()
	}
}

func exitCode(err error, logger *zap.Logger) int {
	if err == nil {
		return 0
	}

	var exitErr *bootstrap.ExitError
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted")
		return 130
	case errors.As(err, &exitErr):
		logger.Warn("bootstrap exited", zap.Int("status", exitErr.Code))
		if exitErr.Code < 0 {
			return 1
		}
		return exitErr.Code
	case errors.Is(err, loader.ErrMissingBootstrapFile):
		logger.Error("cannot continue without bootstrap file", zap.Error(err))
		return 1
	default:
		logger.Error("command failed", zap.Error(err))
		return 1
	}
}

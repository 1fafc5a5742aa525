package main

import (
	"context"
	"fmt"
	"os"
	osSignal "os/signal"
	"runtime"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/siteconfig/internal/bootstrap"
)

func TestSignalContextCancelsOnSignal(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			ch <- syscall.SIGTERM
		}()
	}

	ctx, stop := signalContext(context.Background(), zaptest.NewLogger(t))
	defer stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected context to be cancelled by signal")
	}
}

func TestSignalContextStop(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})
	signalNotify = func(chan<- os.Signal, ...os.Signal) {}

	ctx, stop := signalContext(context.Background(), zaptest.NewLogger(t))
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected stop to cancel the context")
	}
}

func TestRunInterruptedExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	signalNotify = func(ch chan<- os.Signal, sig ...os.Signal) {
		go func() {
			time.Sleep(200 * time.Millisecond)
			ch <- syscall.SIGTERM
		}()
	}

	dir := t.TempDir()
	writeSiteFile(t, dir, "local-config.yaml", localConfig, 0o600)
	writeSiteFile(t, dir, "boot.sh", "trap 'exit 3' TERM\nsleep 10 >/dev/null 2>&1 &\nwait\n", 0o600)

	code, _ := execute(t, "--dir", dir, "--bootstrap", "boot.sh", "run", "--interpreter", "/bin/sh")
	if code != 130 {
		t.Fatalf("expected interrupted exit code 130, got %d", code)
	}
}

func TestExitCodeInterruptedWinsOverExitStatus(t *testing.T) {
	logger := zaptest.NewLogger(t)

	interrupted := fmt.Errorf("bootstrap wp-settings.php interrupted: %w", context.Canceled)
	if code := exitCode(interrupted, logger); code != 130 {
		t.Fatalf("expected 130, got %d", code)
	}

	exited := &bootstrap.ExitError{Code: 143, Err: fmt.Errorf("signal: terminated")}
	if code := exitCode(exited, logger); code != 143 {
		t.Fatalf("expected 143 for an uninterrupted exit status, got %d", code)
	}
}

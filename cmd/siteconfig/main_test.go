package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/eugenenazirov/siteconfig/internal/schema"
)

const localConfig = `DB_NAME: dbname
DB_USER: dbuser
DB_PASSWORD: dbpassword
DB_HOST: dbhost
AUTOMATIC_UPDATER_DISABLED: true
WP_AUTO_UPDATE_CORE: false
DISALLOW_FILE_MODS: true
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SITECONFIG_DIR",
		"SITECONFIG_OVERRIDE_FILE",
		"SITECONFIG_BOOTSTRAP_FILE",
		"SITECONFIG_INTERPRETER",
		"SITECONFIG_LOG_LEVEL",
		"SITECONFIG_SHUTDOWN_GRACE_PERIOD",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	clearEnv(t)

	if !slices.Contains(args, "--log-level") {
		args = append([]string{"--log-level", "error"}, args...)
	}

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String()
}

func writeSiteFile(t *testing.T, dir, name, content string, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), perm); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
}

func TestDumpRedactsSecrets(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "local-config.yaml", localConfig, 0o600)

	code, out := execute(t, "--dir", dir, "dump")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "DB_HOST: dbhost") {
		t.Fatalf("expected DB_HOST in output, got:\n%s", out)
	}
	if strings.Contains(out, "dbpassword") {
		t.Fatalf("expected password to be redacted, got:\n%s", out)
	}
	if !strings.Contains(out, "table_prefix: wp_") {
		t.Fatalf("expected table prefix in output, got:\n%s", out)
	}
}

func TestDumpWithoutOverride(t *testing.T) {
	dir := t.TempDir()

	code, out := execute(t, "--dir", dir, "dump", "--format", "json", "--show-secrets")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, schema.Placeholder) {
		t.Fatalf("expected placeholders in output, got:\n%s", out)
	}
	if strings.Contains(out, "DB_HOST") {
		t.Fatalf("DB_HOST must be absent without override, got:\n%s", out)
	}
}

func TestDumpMalformedOverride(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "local-config.yaml", "DB_HOST: [oops\n", 0o600)

	if code, _ := execute(t, "--dir", dir, "dump"); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRunMissingBootstrapFile(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "local-config.yaml", localConfig, 0o600)

	if code, _ := execute(t, "--dir", dir); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRunBootstrapProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	writeSiteFile(t, dir, "local-config.yaml", localConfig, 0o600)
	writeSiteFile(t, dir, "boot.sh", "echo \"$DB_NAME:$DB_CHARSET:$TABLE_PREFIX:$1\"\nexit 7\n", 0o600)

	code, out := execute(t, "--dir", dir, "--bootstrap", "boot.sh", "run", "--interpreter", "/bin/sh", "hello")
	if code != 7 {
		t.Fatalf("expected bootstrap exit code 7, got %d", code)
	}
	if got := strings.TrimSpace(out); got != "dbname:utf8:wp_:hello" {
		t.Fatalf("unexpected bootstrap output %q", got)
	}
}

func TestDSN(t *testing.T) {
	dir := t.TempDir()
	writeSiteFile(t, dir, "local-config.yaml", localConfig, 0o600)

	code, out := execute(t, "--dir", dir, "dsn")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.Contains(out, "dbpassword") || !strings.Contains(out, "tcp(dbhost:3306)/dbname") {
		t.Fatalf("unexpected dsn %q", out)
	}

	_, out = execute(t, "--dir", dir, "dsn", "--show-password")
	if !strings.Contains(out, "dbuser:dbpassword@") {
		t.Fatalf("expected password in dsn, got %q", out)
	}
}

func TestDSNWithoutHost(t *testing.T) {
	if code, _ := execute(t, "--dir", t.TempDir(), "dsn"); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestInitWritesLoadableOverride(t *testing.T) {
	dir := t.TempDir()

	if code, _ := execute(t, "--dir", dir, "init"); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	info, err := os.Stat(filepath.Join(dir, "local-config.yaml"))
	if err != nil {
		t.Fatalf("expected override file: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	code, out := execute(t, "--dir", dir, "dump", "--show-secrets")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.Contains(out, schema.Placeholder) {
		t.Fatalf("expected generated keys, got:\n%s", out)
	}
	if !strings.Contains(out, "DISALLOW_FILE_MODS: true") {
		t.Fatalf("expected override defaults, got:\n%s", out)
	}

	if code, _ := execute(t, "--dir", dir, "init"); code != 1 {
		t.Fatalf("expected init to refuse overwriting, got %d", code)
	}
	if code, _ := execute(t, "--dir", dir, "init", "--force"); code != 0 {
		t.Fatalf("expected forced init to succeed, got %d", code)
	}
}

func TestInitTOML(t *testing.T) {
	dir := t.TempDir()

	if code, _ := execute(t, "--dir", dir, "--override", "local-config.toml", "init"); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	code, out := execute(t, "--dir", dir, "--override", "local-config.toml", "dump")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "DB_HOST: dbhost") {
		t.Fatalf("expected TOML override to be applied, got:\n%s", out)
	}
}

func TestSalts(t *testing.T) {
	code, out := execute(t, "salts")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(schema.KeyNames) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(schema.KeyNames), len(lines), out)
	}
	for i, name := range schema.KeyNames {
		if !strings.HasPrefix(lines[i], name+":") {
			t.Fatalf("expected line %d to define %s, got %q", i, name, lines[i])
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	if code, _ := execute(t, "dump", "--format", "xml"); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if code, _ := execute(t, "--log-level", "loud", "dump"); code != 2 {
		t.Fatalf("expected exit code 2 for invalid log level, got %d", code)
	}
}

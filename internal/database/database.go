// Package database derives driver connection settings from the DB_* entries.
// It never opens a connection.
package database

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/eugenenazirov/siteconfig/internal/registry"
	"github.com/eugenenazirov/siteconfig/internal/schema"
)

// DefaultPort is appended to DB_HOST values without a port.
const DefaultPort = "3306"

var (
	// ErrMissingHost is returned when DB_HOST is not defined or empty.
	ErrMissingHost = errors.New("DB_HOST is not defined")
	// ErrMissingName is returned when DB_NAME is not defined or empty.
	ErrMissingName = errors.New("DB_NAME is not defined")
)

// Credentials are the database entries of a site.
type Credentials struct {
	Name     string
	User     string
	Password string
	Host     string
	Charset  string
	Collate  string
}

// FromSettings reads the DB_* entries.
func FromSettings(settings *registry.Settings) (Credentials, error) {
	creds := Credentials{}
	creds.Name, _ = settings.String(schema.DBName)
	creds.User, _ = settings.String(schema.DBUser)
	creds.Password, _ = settings.String(schema.DBPassword)
	creds.Host, _ = settings.String(schema.DBHost)
	creds.Charset, _ = settings.String(schema.DBCharset)
	creds.Collate, _ = settings.String(schema.DBCollate)

	if strings.TrimSpace(creds.Host) == "" {
		return Credentials{}, ErrMissingHost
	}
	if strings.TrimSpace(creds.Name) == "" {
		return Credentials{}, ErrMissingName
	}
	return creds, nil
}

// Config returns the driver configuration for the credentials.
func (c Credentials) Config() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net, cfg.Addr = SplitHost(c.Host)
	cfg.DBName = c.Name
	if c.Collate != "" {
		cfg.Collation = c.Collate
	}
	if c.Charset != "" {
		cfg.Params = map[string]string{"charset": c.Charset}
	}
	return cfg
}

// DSN formats the credentials as a driver data source name.
func (c Credentials) DSN() string {
	return c.Config().FormatDSN()
}

// Redacted formats the DSN with the password masked.
func (c Credentials) Redacted() string {
	if c.Password == "" {
		return c.DSN()
	}
	masked := c
	masked.Password = "xxxxx"
	return masked.DSN()
}

// SplitHost interprets a DB_HOST value. Accepted forms are host, host:port,
// [ipv6]:port, host:/path/to/socket and /path/to/socket.
func SplitHost(host string) (network, addr string) {
	host = strings.TrimSpace(host)
	if strings.HasPrefix(host, "/") {
		return "unix", host
	}
	if i := strings.Index(host, ":/"); i >= 0 {
		return "unix", host[i+1:]
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return "tcp", host
	}
	return "tcp", net.JoinHostPort(strings.Trim(host, "[]"), DefaultPort)
}

func (c Credentials) String() string {
	return fmt.Sprintf("%s@%s/%s", c.User, c.Host, c.Name)
}

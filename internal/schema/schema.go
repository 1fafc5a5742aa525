// Package schema names the well-known site entries, their expected kinds and
// the values the loader defines when nothing else did.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eugenenazirov/siteconfig/internal/registry"
)

// Database credentials, defined by the override layer only.
const (
	DBName     = "DB_NAME"
	DBUser     = "DB_USER"
	DBPassword = "DB_PASSWORD"
	DBHost     = "DB_HOST"
	DBCharset  = "DB_CHARSET"
	DBCollate  = "DB_COLLATE"
)

// Site behaviour flags.
const (
	AutomaticUpdaterDisabled = "AUTOMATIC_UPDATER_DISABLED"
	AutoUpdateCore           = "WP_AUTO_UPDATE_CORE"
	DisallowFileMods         = "DISALLOW_FILE_MODS"
	HTTPBlockExternal        = "WP_HTTP_BLOCK_EXTERNAL"
	AccessibleHosts          = "WP_ACCESSIBLE_HOSTS"
	DisableCron              = "DISABLE_WP_CRON"
	EmptyTrashDays           = "EMPTY_TRASH_DAYS"
	PostRevisions            = "WP_POST_REVISIONS"
	Debug                    = "WP_DEBUG"
	DebugLog                 = "WP_DEBUG_LOG"
	DebugDisplay             = "WP_DEBUG_DISPLAY"
	AssetsURL                = "MB_ASSETS_URL"
	DevServerName            = "MB_DEV_SERVER_NAME"
)

// AbsPath is the foundational path marker.
const AbsPath = "ABSPATH"

// Placeholder is the value of every key and salt that has not been replaced.
const Placeholder = "put_your_unique_phrase_here"

const (
	DefaultCharset = "utf8"
	DefaultCollate = ""
)

// KeyNames lists the authentication keys and salts in definition order.
var KeyNames = []string{
	"AUTH_KEY",
	"SECURE_AUTH_KEY",
	"LOGGED_IN_KEY",
	"NONCE_KEY",
	"AUTH_SALT",
	"SECURE_AUTH_SALT",
	"LOGGED_IN_SALT",
	"NONCE_SALT",
}

// ErrEntryType is returned when a well-known entry is defined with the wrong kind.
var ErrEntryType = errors.New("entry has unexpected type")

// Entry is a named value.
type Entry struct {
	Name  string
	Value registry.Value
}

var kinds = map[string][]registry.Kind{
	DBName:                   {registry.KindString},
	DBUser:                   {registry.KindString},
	DBPassword:               {registry.KindString},
	DBHost:                   {registry.KindString},
	DBCharset:                {registry.KindString},
	DBCollate:                {registry.KindString},
	AutomaticUpdaterDisabled: {registry.KindBool},
	AutoUpdateCore:           {registry.KindBool, registry.KindString},
	DisallowFileMods:         {registry.KindBool},
	HTTPBlockExternal:        {registry.KindBool},
	AccessibleHosts:          {registry.KindString},
	DisableCron:              {registry.KindBool},
	EmptyTrashDays:           {registry.KindInt},
	PostRevisions:            {registry.KindBool, registry.KindInt},
	Debug:                    {registry.KindBool},
	DebugLog:                 {registry.KindBool, registry.KindString},
	DebugDisplay:             {registry.KindBool},
	AssetsURL:                {registry.KindString},
	DevServerName:            {registry.KindString},
	AbsPath:                  {registry.KindString},
}

func init() {
	for _, name := range KeyNames {
		kinds[name] = []registry.Kind{registry.KindString}
	}
}

// Check verifies the kind of a well-known entry. Unknown names accept any kind.
func Check(name string, v registry.Value) error {
	allowed, known := kinds[name]
	if !known {
		return nil
	}
	for _, k := range allowed {
		if v.Kind() == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s, want %s", ErrEntryType, name, v.Kind(), joinKinds(allowed))
}

// Fixed returns the entries defined unconditionally after the override layer.
func Fixed() []Entry {
	out := []Entry{
		{Name: DBCharset, Value: registry.String(DefaultCharset)},
		{Name: DBCollate, Value: registry.String(DefaultCollate)},
	}
	for _, name := range KeyNames {
		out = append(out, Entry{Name: name, Value: registry.String(Placeholder)})
	}
	return out
}

// OverrideDefaults returns the entries a freshly written override file carries.
func OverrideDefaults() []Entry {
	return []Entry{
		{Name: AutomaticUpdaterDisabled, Value: registry.Bool(true)},
		{Name: AutoUpdateCore, Value: registry.Bool(false)},
		{Name: DisallowFileMods, Value: registry.Bool(true)},
	}
}

// IsKey reports whether name is one of the authentication keys or salts.
func IsKey(name string) bool {
	for _, k := range KeyNames {
		if k == name {
			return true
		}
	}
	return false
}

// Sensitive reports whether the value of name must not be printed or logged.
func Sensitive(name string) bool {
	return name == DBPassword || IsKey(name)
}

// SplitHosts splits a comma-separated host allow-list.
func SplitHosts(raw string) []string {
	parts := strings.Split(raw, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hosts = append(hosts, part)
	}
	return hosts
}

func joinKinds(ks []registry.Kind) string {
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

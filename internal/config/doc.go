// Package config resolves the options of the siteconfig tool itself (where
// the site lives, which files to read, how to log) from multiple sources with
// precedence: CLI flags > Environment variables > Defaults. Site entries are
// not handled here; see package loader.
package config

// Package override reads the optional site-local configuration layer. The
// layer is a flat mapping of entry names to scalar values, written either as
// YAML or as TOML; the format is chosen by file extension. Definitions are
// returned in file order so the caller can apply them ahead of the defaults.
package override

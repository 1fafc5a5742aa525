// Package loader runs the ordered site configuration sequence: apply the
// optional local override layer, define the fixed entries, settle the table
// prefix, define the root path marker, and hand the frozen result to the
// bootstrap entry point.
package loader

// Package registry holds the write-once configuration entries of a site.
// A Registry accepts each name once: the first definition wins and any later
// definition of the same name is ignored without error. Once loading is
// complete the Registry is frozen into an immutable Settings value that can be
// shared between goroutines or carried in a context.Context.
package registry

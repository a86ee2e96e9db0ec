// Package preflight contains environment checks that run before destructive
// operations: binary availability and filesystem capacity/access.
package preflight

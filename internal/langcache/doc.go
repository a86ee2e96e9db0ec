// Package langcache persists canonical-language lookups in a small SQLite
// database so repeated scans don't re-query TMDB for the same movies. The
// cache stores lookup results only, never scan output.
package langcache

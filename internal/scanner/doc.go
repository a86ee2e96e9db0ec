// Package scanner walks a directory tree for movie files and derives lookup
// hints (embedded IMDB/TMDB IDs, title, year) from their names.
package scanner

// Package tmdb implements the subset of The Movie Database REST API trackscan
// needs to resolve a movie's original language.
package tmdb

// Package classify decides which movies a scan report includes and annotates
// each track against the configured filters. Classification is a pure
// function of the movie and the filter configuration.
package classify

// Package ffprobe shells out to the ffprobe binary and parses its JSON
// output. Numeric fields ffprobe reports as strings stay strings on the
// wire types; helper methods do the parsing.
package ffprobe

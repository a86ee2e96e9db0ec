// Package logging wraps log/slog with the trackscan console handler and
// attribute helpers. Log output always goes to stderr so stdout stays clean
// for the report table.
package logging

// Package report renders scan results as rounded tables: one row per audio
// track, grouped per movie, with humanized bitrates and sizes. Formatting
// only; it never decides what to include.
package report

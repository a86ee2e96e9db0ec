// Package services defines the error taxonomy shared across trackscan
// components. Sentinel errors classify failures so callers can decide whether
// to abort, re-prompt, or continue with the next file.
package services

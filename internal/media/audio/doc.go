// Package audio builds the per-movie audio track model from ffprobe output.
package audio

// Package deletion plans and executes audio-track removal. Planning is pure
// validation and command construction; execution remuxes to a sibling temp
// file and replaces the original only after ffmpeg exits cleanly.
package deletion

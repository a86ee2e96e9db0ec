// Package language maps between ISO 639-1 codes (as returned by TMDB) and the
// ISO 639-2 codes found in container language tags, including the
// bibliographic variants (fre, ger, chi, dut) muxers tend to write.
package language

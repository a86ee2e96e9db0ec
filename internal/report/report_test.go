package report

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"trackscan/internal/classify"
	"trackscan/internal/media/audio"
)

func sampleMovie(path string) audio.Movie {
	return audio.Movie{
		Path: path,
		Tracks: []audio.Track{
			{Ordinal: 0, Language: "eng", Codec: "dts", Channels: 6, BitrateBits: 1_536_000, SizeBytes: 1_300_000_000, Title: "Surround"},
			{Ordinal: 1, Language: "fre", Codec: "aac", Channels: 2, BitrateBits: 96_000, BitrateEstimated: true, SizeBytes: 80_000_000},
		},
	}
}

func TestRenderGroupsAndColumns(t *testing.T) {
	entries := []Entry{
		{Movie: sampleMovie("/media/Heat (1995).mkv"), Result: classify.Result{Include: true}},
		{Movie: sampleMovie("/media/Ronin (1998).mkv"), Result: classify.Result{Include: true}},
	}
	out := Render(entries, Options{})

	for _, want := range []string{"File", "Track", "Language", "Bitrate", "Heat (1995).mkv", "Ronin (1998).mkv", "1536 Kbps", "~96 Kbps", "Surround"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	// The file name appears once per group, not on every row.
	if strings.Count(out, "Heat (1995).mkv") != 1 {
		t.Fatalf("file name repeated:\n%s", out)
	}
	if strings.Contains(out, "Note") {
		t.Fatalf("note column should be absent without lookup:\n%s", out)
	}
}

func TestRenderSkipsExcludedAndErrored(t *testing.T) {
	entries := []Entry{
		{Movie: sampleMovie("/media/skip.mkv"), Result: classify.Result{Include: false}},
		{Movie: audio.Movie{Path: "/media/bad.mkv", ProbeErr: errors.New("probe failed")}, Result: classify.Result{Include: true, Error: true}},
	}
	out := Render(entries, Options{})
	if strings.Contains(out, "skip.mkv") || strings.Contains(out, "bad.mkv") {
		t.Fatalf("excluded movie rendered:\n%s", out)
	}
	if !strings.Contains(out, "No matching audio tracks found.") {
		t.Fatalf("expected empty-result message:\n%s", out)
	}
}

func TestRenderNoteColumn(t *testing.T) {
	movie := sampleMovie("/media/Heat (1995).mkv")
	entries := []Entry{{
		Movie:  movie,
		Result: classify.Result{Include: true, Annotations: []string{classify.NoteCanonical, classify.NoteForeign}},
	}}
	out := Render(entries, Options{ShowNotes: true})
	if !strings.Contains(out, "Note") || !strings.Contains(out, classify.NoteCanonical) || !strings.Contains(out, classify.NoteForeign) {
		t.Fatalf("annotations missing:\n%s", out)
	}
}

func TestRenderErrorsSection(t *testing.T) {
	entries := []Entry{
		{Movie: sampleMovie("/media/ok.mkv"), Result: classify.Result{Include: true}},
		{Movie: audio.Movie{Path: "/media/bad.iso", ProbeErr: errors.New("unreadable container")}, Result: classify.Result{Include: true, Error: true}},
	}
	out := Render(entries, Options{ShowErrors: true})
	if !strings.Contains(out, "Errors:") || !strings.Contains(out, "/media/bad.iso") || !strings.Contains(out, "unreadable container") {
		t.Fatalf("errors section missing:\n%s", out)
	}

	quiet := Render(entries, Options{})
	if strings.Contains(quiet, "Errors:") {
		t.Fatalf("errors section should be gated:\n%s", quiet)
	}
}

func TestFormatBitrate(t *testing.T) {
	if got := FormatBitrate(audio.Track{BitrateBits: 448_000}); got != "448 Kbps" {
		t.Fatalf("got %q", got)
	}
	if got := FormatBitrate(audio.Track{BitrateBits: 256_000, BitrateEstimated: true}); got != "~256 Kbps" {
		t.Fatalf("got %q", got)
	}
	if got := FormatBitrate(audio.Track{}); got != "N/A" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(audio.Track{}); got != "N/A" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSize(audio.Track{SizeBytes: 1_000_000}); !strings.Contains(got, "MB") {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateFilename(t *testing.T) {
	short := "Heat (1995).mkv"
	if got := TruncateFilename(short); got != short {
		t.Fatalf("short name changed: %q", got)
	}

	long := strings.Repeat("a", 90) + ".mkv"
	got := TruncateFilename(long)
	if len(got) != 70 {
		t.Fatalf("truncated length = %d (%q)", len(got), got)
	}
	if !strings.HasSuffix(got, "[...].mkv") {
		t.Fatalf("marker and extension missing: %q", got)
	}
}

func TestTruncateFilenameMultiByte(t *testing.T) {
	long := strings.Repeat("ü", 80) + ".mkv"
	got := TruncateFilename(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if count := utf8.RuneCountInString(got); count != 70 {
		t.Fatalf("truncated to %d characters, want 70 (%q)", count, got)
	}
	if !strings.HasSuffix(got, "[...].mkv") {
		t.Fatalf("marker and extension missing: %q", got)
	}
}

func TestRenderMovie(t *testing.T) {
	out := RenderMovie(sampleMovie("/media/Heat (1995).mkv"))
	if !strings.Contains(out, "Heat (1995).mkv") || !strings.Contains(out, "dts") {
		t.Fatalf("single-movie table incomplete:\n%s", out)
	}
}

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trackscan/internal/classify"
	"trackscan/internal/media/audio"
)

// maxFilenameLength bounds the File column; longer names are shortened to
// prefix[...]ext.
const maxFilenameLength = 70

// Entry pairs a movie with its classification outcome.
type Entry struct {
	Movie  audio.Movie
	Result classify.Result
}

// Options controls optional table content.
type Options struct {
	// ShowNotes adds the Note column carrying per-track annotations; set when
	// a canonical-language lookup ran.
	ShowNotes bool
	// ShowErrors appends a section listing movies whose probe failed.
	ShowErrors bool
}

// Render builds the rounded table for every included entry, one group of rows
// per movie with a separator between groups. The file name appears only on
// the first row of its group.
func Render(entries []Entry, opts Options) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"File", "Track", "Language", "Format", "Channels", "Bitrate", "Title", "Size"}
	if opts.ShowNotes {
		header = append(header, "Note")
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(columnConfigs(len(header)))

	rendered := 0
	for _, entry := range entries {
		if !entry.Result.Include || entry.Result.Error || len(entry.Movie.Tracks) == 0 {
			continue
		}
		if rendered > 0 {
			tw.AppendSeparator()
		}
		rendered++
		appendMovieRows(tw, entry, opts.ShowNotes)
	}

	var out strings.Builder
	if rendered > 0 {
		out.WriteString(tw.Render())
		out.WriteString("\n")
	} else {
		out.WriteString("No matching audio tracks found.\n")
	}
	if opts.ShowErrors {
		if errs := renderErrors(entries); errs != "" {
			out.WriteString(errs)
		}
	}
	return out.String()
}

// RenderMovie builds a single-movie table, used by the deletion prompt.
func RenderMovie(movie audio.Movie) string {
	return Render([]Entry{{Movie: movie, Result: classify.Result{Include: true}}}, Options{})
}

func appendMovieRows(tw table.Writer, entry Entry, showNotes bool) {
	name := TruncateFilename(filepath.Base(entry.Movie.Path))
	for i, track := range entry.Movie.Tracks {
		file := ""
		if i == 0 {
			file = name
		}
		row := table.Row{
			file,
			track.Ordinal + 1,
			track.Language,
			track.Codec,
			track.Channels,
			FormatBitrate(track),
			track.Title,
			FormatSize(track),
		}
		if showNotes {
			row = append(row, annotation(entry.Result.Annotations, i))
		}
		tw.AppendRow(row)
	}
}

func annotation(annotations []string, index int) string {
	if index < len(annotations) {
		return annotations[index]
	}
	return ""
}

func columnConfigs(columns int) []table.ColumnConfig {
	// Track, Channels, Bitrate, and Size read better right-aligned; text
	// columns stay left.
	rightAligned := map[int]bool{2: true, 5: true, 6: true, 8: true}
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i <= columns; i++ {
		align := text.AlignLeft
		if rightAligned[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	return configs
}

func renderErrors(entries []Entry) string {
	var out strings.Builder
	for _, entry := range entries {
		if entry.Movie.ProbeErr == nil {
			continue
		}
		fmt.Fprintf(&out, "Error processing %s: %v\n", entry.Movie.Path, entry.Movie.ProbeErr)
	}
	if out.Len() == 0 {
		return ""
	}
	return "\nErrors:\n" + out.String()
}

// FormatBitrate renders the track bitrate in Kbps, prefixed with "~" when it
// was estimated rather than reported, or "N/A" when unknown.
func FormatBitrate(track audio.Track) string {
	if track.BitrateBits <= 0 {
		return "N/A"
	}
	if track.BitrateEstimated {
		return fmt.Sprintf("~%d Kbps", track.BitrateBits/1000)
	}
	return fmt.Sprintf("%d Kbps", track.BitrateBits/1000)
}

// FormatSize renders the estimated track size, or "N/A" when no bitrate was
// available to derive one.
func FormatSize(track audio.Track) string {
	if track.SizeBytes <= 0 {
		return "N/A"
	}
	return humanize.Bytes(uint64(track.SizeBytes))
}

// FormatBytes renders a byte count for space-saved summaries.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(n))
}

// TruncateFilename shortens a file name to at most maxFilenameLength
// characters, keeping the extension visible: prefix[...]ext.
func TruncateFilename(name string) string {
	runes := []rune(name)
	if len(runes) <= maxFilenameLength {
		return name
	}
	const marker = "[...]"
	ext := filepath.Ext(name)
	keep := maxFilenameLength - len([]rune(ext)) - len(marker)
	if keep < 1 {
		return string(runes[:maxFilenameLength])
	}
	return string(runes[:keep]) + marker + ext
}

package deletion

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"trackscan/internal/media/audio"
	"trackscan/internal/services"
)

// tempSuffix matches the scanner's skip rule so interrupted remux output is
// never picked up as a movie.
const tempSuffix = "_temp"

// Command describes a remux that drops the selected audio tracks. It is a
// plan only; Execute runs it.
type Command struct {
	InputPath string
	TempPath  string
	// KeepOrdinals and RemoveOrdinals partition the movie's audio tracks,
	// both in original track order.
	KeepOrdinals   []int
	RemoveOrdinals []int
}

// FFmpegArgs renders the ffmpeg invocation: copy every stream, then subtract
// the removed audio ordinals.
func (c Command) FFmpegArgs() []string {
	args := []string{"-i", c.InputPath, "-map", "0"}
	for _, ordinal := range c.RemoveOrdinals {
		args = append(args, "-map", fmt.Sprintf("-0:a:%d", ordinal))
	}
	return append(args, "-c", "copy", c.TempPath)
}

// Plan validates the selection against the movie's tracks and builds the
// remux command. Every selected ordinal must name an existing track; nothing
// is clamped. The relative order of kept tracks is preserved because the plan
// only ever subtracts streams.
func Plan(movie audio.Movie, selected []int) (Command, error) {
	if len(movie.Tracks) == 0 {
		return Command{}, services.Wrap(services.ErrInvalidSelection, "deletion", "plan",
			fmt.Sprintf("%s has no audio tracks", filepath.Base(movie.Path)), nil)
	}
	if len(selected) == 0 {
		return Command{}, services.Wrap(services.ErrInvalidSelection, "deletion", "plan",
			"no tracks selected", nil)
	}

	remove := make(map[int]struct{}, len(selected))
	for _, ordinal := range selected {
		if ordinal < 0 || ordinal >= len(movie.Tracks) {
			return Command{}, services.Wrap(services.ErrInvalidSelection, "deletion", "plan",
				fmt.Sprintf("track %d does not exist (movie has %d audio tracks)", ordinal+1, len(movie.Tracks)), nil)
		}
		remove[ordinal] = struct{}{}
	}
	if len(remove) == len(movie.Tracks) {
		return Command{}, services.Wrap(services.ErrInvalidSelection, "deletion", "plan",
			"refusing to delete every audio track", nil)
	}

	cmd := Command{
		InputPath: movie.Path,
		TempPath:  tempPath(movie.Path),
	}
	for _, track := range movie.Tracks {
		if _, drop := remove[track.Ordinal]; drop {
			cmd.RemoveOrdinals = append(cmd.RemoveOrdinals, track.Ordinal)
		} else {
			cmd.KeepOrdinals = append(cmd.KeepOrdinals, track.Ordinal)
		}
	}
	sort.Ints(cmd.RemoveOrdinals)
	return cmd, nil
}

func tempPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + tempSuffix + ext
}

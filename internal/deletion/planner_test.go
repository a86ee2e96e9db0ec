package deletion

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"trackscan/internal/media/audio"
	"trackscan/internal/services"
)

func movieWithTracks(path string, count int) audio.Movie {
	movie := audio.Movie{Path: path}
	for i := 0; i < count; i++ {
		movie.Tracks = append(movie.Tracks, audio.Track{Ordinal: i, StreamIndex: i + 1})
	}
	return movie
}

func TestPlanBuildsCommand(t *testing.T) {
	movie := movieWithTracks("/media/Heat (1995).mkv", 3)
	cmd, err := Plan(movie, []int{2, 0})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if cmd.InputPath != movie.Path {
		t.Fatalf("input path = %q", cmd.InputPath)
	}
	if cmd.TempPath != "/media/Heat (1995)_temp.mkv" {
		t.Fatalf("temp path = %q", cmd.TempPath)
	}
	if !reflect.DeepEqual(cmd.RemoveOrdinals, []int{0, 2}) {
		t.Fatalf("remove ordinals = %v", cmd.RemoveOrdinals)
	}
	if !reflect.DeepEqual(cmd.KeepOrdinals, []int{1}) {
		t.Fatalf("keep ordinals = %v", cmd.KeepOrdinals)
	}
}

func TestPlanDeduplicatesSelection(t *testing.T) {
	cmd, err := Plan(movieWithTracks("/media/a.mkv", 3), []int{1, 1, 1})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !reflect.DeepEqual(cmd.RemoveOrdinals, []int{1}) {
		t.Fatalf("remove ordinals = %v", cmd.RemoveOrdinals)
	}
}

func TestPlanRejectsOutOfRange(t *testing.T) {
	_, err := Plan(movieWithTracks("/media/a.mkv", 2), []int{2})
	if !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if !strings.Contains(err.Error(), "track 3") {
		t.Fatalf("message should use one-based numbering: %v", err)
	}
}

func TestPlanRejectsNegativeOrdinal(t *testing.T) {
	if _, err := Plan(movieWithTracks("/media/a.mkv", 2), []int{-1}); !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestPlanRejectsEmptySelection(t *testing.T) {
	if _, err := Plan(movieWithTracks("/media/a.mkv", 2), nil); !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestPlanRejectsDeletingEveryTrack(t *testing.T) {
	if _, err := Plan(movieWithTracks("/media/a.mkv", 2), []int{0, 1}); !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestPlanRejectsMovieWithoutAudio(t *testing.T) {
	if _, err := Plan(audio.Movie{Path: "/media/a.mkv"}, []int{0}); !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestFFmpegArgs(t *testing.T) {
	cmd := Command{
		InputPath:      "/media/a.mkv",
		TempPath:       "/media/a_temp.mkv",
		RemoveOrdinals: []int{1, 3},
	}
	want := []string{
		"-i", "/media/a.mkv",
		"-map", "0",
		"-map", "-0:a:1",
		"-map", "-0:a:3",
		"-c", "copy",
		"/media/a_temp.mkv",
	}
	if got := cmd.FFmpegArgs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

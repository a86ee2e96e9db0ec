package classify

import (
	"fmt"

	"trackscan/internal/language"
	"trackscan/internal/media/audio"
	"trackscan/internal/services"
)

// FilterConfig is built once from CLI flags and never mutated afterwards.
type FilterConfig struct {
	ShowErrors          bool
	MinTrackCount       int
	HideUnknown         bool
	OnlyUnknown         bool
	ForeignOnly         bool
	ExcludeSameLanguage bool
	OnlySameLanguage    bool
	NoOutput            bool
	NoDelete            bool
	PullCanonical       bool
	WrongLanguageOnly   bool
	// HomeLanguage is the baseline for the foreign-only filter when no
	// canonical language is available.
	HomeLanguage string
}

// Validate rejects contradictory flag combinations up front instead of
// guessing a precedence.
func (c FilterConfig) Validate() error {
	if c.HideUnknown && c.OnlyUnknown {
		return services.Wrap(services.ErrConfiguration, "classify", "validate",
			"hide-unknown and only-unknown cannot both be set", nil)
	}
	if c.ExcludeSameLanguage && c.OnlySameLanguage {
		return services.Wrap(services.ErrConfiguration, "classify", "validate",
			"exclude-same and only-same cannot both be set", nil)
	}
	if c.WrongLanguageOnly && !c.PullCanonical {
		return services.Wrap(services.ErrConfiguration, "classify", "validate",
			"wrong-language-only requires pull-language", nil)
	}
	if c.MinTrackCount < 0 {
		return services.Wrap(services.ErrConfiguration, "classify", "validate",
			fmt.Sprintf("min-tracks must not be negative, got %d", c.MinTrackCount), nil)
	}
	return nil
}

// Track annotations surfaced in the report.
const (
	NoteUnknown       = "unknown"
	NoteForeign       = "foreign"
	NoteCanonical     = "matches canonical"
	NoteWrongLanguage = "wrong language"
)

// Result is the classification outcome for one movie. Annotations holds one
// entry per track, aligned with the movie's track order; entries may be
// empty strings.
type Result struct {
	Include bool
	// Error is set when the movie is included only because probing failed and
	// error visibility is on.
	Error       bool
	Annotations []string
}

// Classify applies every active filter to the movie. Filters are
// AND-combined: the movie is included only when it passes all of them.
// Probe-failure visibility is evaluated first and short-circuits the rest.
func Classify(movie audio.Movie, cfg FilterConfig) Result {
	if movie.ProbeErr != nil {
		return Result{Include: cfg.ShowErrors, Error: cfg.ShowErrors}
	}

	if cfg.MinTrackCount > 0 && movie.TrackCount() < cfg.MinTrackCount {
		return Result{}
	}

	hasUnknown := false
	for _, track := range movie.Tracks {
		if track.Language == language.Unknown {
			hasUnknown = true
			break
		}
	}
	if cfg.HideUnknown && hasUnknown {
		return Result{}
	}
	if cfg.OnlyUnknown && !hasUnknown {
		return Result{}
	}

	baseline := cfg.HomeLanguage
	if movie.CanonicalLanguage != "" {
		baseline = movie.CanonicalLanguage
	}

	if cfg.ForeignOnly && !anyForeign(movie, baseline) {
		return Result{}
	}

	if cfg.ExcludeSameLanguage || cfg.OnlySameLanguage {
		same := allSameLanguage(movie)
		if cfg.ExcludeSameLanguage && same {
			return Result{}
		}
		if cfg.OnlySameLanguage && !same {
			return Result{}
		}
	}

	// Lookup failure leaves CanonicalLanguage empty; the filter goes inert for
	// this movie rather than excluding it.
	if cfg.WrongLanguageOnly && movie.CanonicalLanguage != "" && !anyWrongLanguage(movie) {
		return Result{}
	}

	return Result{Include: true, Annotations: annotate(movie, baseline)}
}

// anyForeign reports whether at least one track differs from the baseline
// language. Untagged tracks don't count as foreign; we can't tell what they
// are. Vacuously false for a movie without tracks.
func anyForeign(movie audio.Movie, baseline string) bool {
	for _, track := range movie.Tracks {
		if track.Language == language.Unknown {
			continue
		}
		if !language.Equal(track.Language, baseline) {
			return true
		}
	}
	return false
}

// allSameLanguage reports whether every track shares one language. Vacuously
// false for a movie without tracks, so both same-language filters exclude it.
func allSameLanguage(movie audio.Movie) bool {
	if len(movie.Tracks) == 0 {
		return false
	}
	first := movie.Tracks[0].Language
	for _, track := range movie.Tracks[1:] {
		if track.Language != first && !language.Equal(track.Language, first) {
			return false
		}
	}
	return true
}

func anyWrongLanguage(movie audio.Movie) bool {
	for _, track := range movie.Tracks {
		if !language.Equal(track.Language, movie.CanonicalLanguage) {
			return true
		}
	}
	return false
}

func annotate(movie audio.Movie, baseline string) []string {
	notes := make([]string, len(movie.Tracks))
	for i, track := range movie.Tracks {
		switch {
		case track.Language == language.Unknown:
			notes[i] = NoteUnknown
		case movie.CanonicalLanguage != "":
			if language.Equal(track.Language, movie.CanonicalLanguage) {
				notes[i] = NoteCanonical
			} else {
				notes[i] = NoteWrongLanguage
			}
		case !language.Equal(track.Language, baseline):
			notes[i] = NoteForeign
		}
	}
	return notes
}

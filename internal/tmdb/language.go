package tmdb

import (
	"context"
	"fmt"

	"trackscan/internal/language"
	"trackscan/internal/scanner"
	"trackscan/internal/services"
)

// OriginalLanguage resolves a movie's canonical original language using the
// strongest hint available: an embedded IMDB/TMDB ID beats a title search.
// The returned code is the 3-letter tag form used in containers ("chi", not
// "zh"). Failures are tagged ErrLookup so callers can degrade gracefully.
func OriginalLanguage(ctx context.Context, s Searcher, path string) (string, error) {
	if id, ok := scanner.ExtractMediaID(path); ok {
		return byID(ctx, s, id)
	}
	return byTitle(ctx, s, scanner.DeriveTitle(path))
}

func byID(ctx context.Context, s Searcher, id scanner.MediaID) (string, error) {
	var (
		details *Result
		err     error
	)
	switch id.Source {
	case "imdb":
		details, err = s.FindByIMDBID(ctx, id.Value)
		if err == nil && details != nil && details.OriginalLanguage == "" {
			// /find results omit some fields; fetch the full record.
			details, err = s.GetMovieDetails(ctx, details.ID)
		}
	case "tmdb":
		var movieID int64
		if _, scanErr := fmt.Sscanf(id.Value, "%d", &movieID); scanErr != nil {
			return "", services.Wrap(services.ErrLookup, "tmdb", "resolve",
				fmt.Sprintf("malformed tmdb id %q", id.Value), scanErr)
		}
		details, err = s.GetMovieDetails(ctx, movieID)
	default:
		return "", services.Wrap(services.ErrLookup, "tmdb", "resolve",
			fmt.Sprintf("unsupported id source %q", id.Source), nil)
	}
	if err != nil {
		return "", services.Wrap(services.ErrLookup, "tmdb", "resolve", id.Source+" id "+id.Value, err)
	}
	if details == nil {
		return "", services.Wrap(services.ErrLookup, "tmdb", "resolve",
			fmt.Sprintf("no movie found for %s id %s", id.Source, id.Value), nil)
	}
	return normalizeCode(details.OriginalLanguage, id.Value)
}

func byTitle(ctx context.Context, s Searcher, hint scanner.TitleHint) (string, error) {
	if hint.Title == "" {
		return "", services.Wrap(services.ErrLookup, "tmdb", "search", "empty title hint", nil)
	}
	resp, err := s.SearchMovie(ctx, hint.Title, hint.Year)
	if err != nil {
		return "", services.Wrap(services.ErrLookup, "tmdb", "search", hint.Title, err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return "", services.Wrap(services.ErrLookup, "tmdb", "search",
			fmt.Sprintf("no results for %q", hint.Title), nil)
	}
	return normalizeCode(resp.Results[0].OriginalLanguage, hint.Title)
}

func normalizeCode(iso2 string, subject string) (string, error) {
	code := language.ToTag(iso2)
	if code == "und" {
		return "", services.Wrap(services.ErrLookup, "tmdb", "normalize",
			fmt.Sprintf("no usable original language for %s (got %q)", subject, iso2), nil)
	}
	return code, nil
}

package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trackscan/internal/services"
)

// tempSuffix marks in-progress remux output; leftover files from an
// interrupted run are skipped by the walk.
const tempSuffix = "_temp"

// Walk returns every movie file under root, sorted for stable output.
// Extensions are matched case-insensitively without their leading dot.
func Walk(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "scanner", "walk",
			fmt.Sprintf("directory %q not accessible", root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "scanner", "walk",
			fmt.Sprintf("%q is not a directory", root), nil)
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, not fatal.
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.Name()), "."))
		if _, ok := allowed[ext]; !ok {
			return nil
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if strings.HasSuffix(stem, tempSuffix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}

// MediaID identifies a movie in an external metadata service, extracted from
// a Plex-style filename marker.
type MediaID struct {
	// Source is "imdb" or "tmdb".
	Source string
	Value  string
}

var (
	imdbPattern = regexp.MustCompile(`\{imdb-(tt\d+)\}`)
	tmdbPattern = regexp.MustCompile(`\{tmdb-(\d+)\}`)
	yearPattern = regexp.MustCompile(`\((19|20)\d{2}\)`)
)

// ExtractMediaID pulls an {imdb-tt...} or {tmdb-...} marker out of a file
// name. Returns false when the name carries neither.
func ExtractMediaID(name string) (MediaID, bool) {
	if match := imdbPattern.FindStringSubmatch(name); match != nil {
		return MediaID{Source: "imdb", Value: match[1]}, true
	}
	if match := tmdbPattern.FindStringSubmatch(name); match != nil {
		return MediaID{Source: "tmdb", Value: match[1]}, true
	}
	return MediaID{}, false
}

// TitleHint is a search query derived from a file name.
type TitleHint struct {
	Title string
	Year  int
}

// DeriveTitle turns a file path into a TMDB search hint: ID markers and a
// parenthesized year are stripped, separators collapse to spaces, and the
// remainder is title-cased.
func DeriveTitle(sourcePath string) TitleHint {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = imdbPattern.ReplaceAllString(base, "")
	base = tmdbPattern.ReplaceAllString(base, "")

	hint := TitleHint{}
	if match := yearPattern.FindString(base); match != "" {
		if year, err := strconv.Atoi(strings.Trim(match, "()")); err == nil {
			hint.Year = year
		}
		base = strings.Replace(base, match, "", 1)
	}

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	hint.Title = cases.Title(language.Und).String(strings.TrimSpace(cleaned.String()))
	return hint
}

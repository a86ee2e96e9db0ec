package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"trackscan/internal/classify"
	"trackscan/internal/config"
	"trackscan/internal/deletion"
	"trackscan/internal/langcache"
	"trackscan/internal/logging"
	"trackscan/internal/media/audio"
	"trackscan/internal/media/ffprobe"
	"trackscan/internal/report"
	"trackscan/internal/scanner"
	"trackscan/internal/services"
	"trackscan/internal/tmdb"
)

type scanFlags struct {
	showErrors        bool
	minTracks         int
	hideUnknown       bool
	onlyUnknown       bool
	foreignOnly       bool
	excludeSame       bool
	onlySame          bool
	noOutput          bool
	noDelete          bool
	pullLanguage      bool
	wrongLanguageOnly bool
	homeLanguage      string
	ffmpegDir         string
}

func (f scanFlags) filterConfig(cfg *config.Config) classify.FilterConfig {
	home := strings.TrimSpace(f.homeLanguage)
	if home == "" {
		home = cfg.Scan.HomeLanguage
	}
	return classify.FilterConfig{
		ShowErrors:          f.showErrors,
		MinTrackCount:       f.minTracks,
		HideUnknown:         f.hideUnknown,
		OnlyUnknown:         f.onlyUnknown,
		ForeignOnly:         f.foreignOnly,
		ExcludeSameLanguage: f.excludeSame,
		OnlySameLanguage:    f.onlySame,
		NoOutput:            f.noOutput,
		NoDelete:            f.noDelete,
		PullCanonical:       f.pullLanguage,
		WrongLanguageOnly:   f.wrongLanguageOnly,
		HomeLanguage:        home,
	}
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan DIRECTORY",
		Short: "Scan a directory for movie files and analyze their audio tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dir := strings.TrimSpace(flags.ffmpegDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return err
				}
				cfg.Tools.FFmpegDir = expanded
			}
			return runScan(cmd, ctx, cfg, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.showErrors, "show-errors", false, "Show error messages for files that could not be probed")
	cmd.Flags().IntVar(&flags.minTracks, "min-tracks", 0, "Show only movies with at least this many audio tracks")
	cmd.Flags().BoolVar(&flags.hideUnknown, "hide-unknown", false, "Hide movies with unknown-language tracks")
	cmd.Flags().BoolVar(&flags.onlyUnknown, "only-unknown", false, "Show only movies with unknown-language tracks")
	cmd.Flags().BoolVar(&flags.foreignOnly, "foreign-only", false, "Show only movies with foreign-language tracks")
	cmd.Flags().BoolVar(&flags.excludeSame, "exclude-same", false, "Exclude movies whose tracks all share one language")
	cmd.Flags().BoolVar(&flags.onlySame, "only-same", false, "Show only movies whose tracks all share one language")
	cmd.Flags().BoolVar(&flags.noOutput, "no-output", false, "Skip the table and go directly to the deletion prompt")
	cmd.Flags().BoolVar(&flags.noDelete, "no-delete", false, "Do not prompt for track deletion")
	cmd.Flags().BoolVar(&flags.pullLanguage, "pull-language", false, "Look up each movie's canonical original language via TMDB")
	cmd.Flags().BoolVar(&flags.wrongLanguageOnly, "wrong-language-only", false, "Show only movies with tracks that differ from the canonical language (requires --pull-language)")
	cmd.Flags().StringVar(&flags.homeLanguage, "home-language", "", "Baseline language for the foreign-only filter (default from config)")
	cmd.Flags().StringVar(&flags.ffmpegDir, "ffmpeg-dir", "", "Directory containing the ffprobe and ffmpeg binaries")

	return cmd
}

func runScan(cmd *cobra.Command, cmdCtx *commandContext, cfg *config.Config, flags scanFlags, dir string) error {
	filter := flags.filterConfig(cfg)
	if err := filter.Validate(); err != nil {
		return err
	}
	if filter.NoOutput && filter.NoDelete {
		fmt.Fprintln(cmd.OutOrStdout(), "Why would you do this?")
		return nil
	}

	root, err := config.ExpandPath(dir)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.NewComponentLogger(cmdCtx.rootLogger(), "scan").With(logging.String("run_id", runID))

	ctx := cmd.Context()

	var searcher tmdb.Searcher
	var cache *langcache.Cache
	if filter.PullCanonical {
		if err := cfg.RequireTMDBKey(); err != nil {
			return err
		}
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			return err
		}
		searcher = client
		cache, err = langcache.Open(cfg.LanguageCachePath(), cmdCtx.rootLogger())
		if err != nil {
			logger.Warn("language cache unavailable", logging.Error(err))
			cache, _ = langcache.Open("", cmdCtx.rootLogger())
		}
		defer cache.Close()
	}

	files, err := scanner.Walk(root, cfg.Scan.Extensions)
	if err != nil {
		return err
	}
	logger.Info("scan started", logging.String("directory", root), logging.Int("files", len(files)))

	movies := probeMovies(ctx, cfg, logger, files)

	if filter.PullCanonical {
		for i := range movies {
			if movies[i].ProbeErr != nil {
				continue
			}
			lang, err := canonicalLanguage(ctx, searcher, cache, movies[i].Path)
			if err != nil {
				logger.Warn("language lookup failed",
					logging.String("file", filepath.Base(movies[i].Path)),
					logging.Error(err))
				continue
			}
			movies[i].CanonicalLanguage = lang
		}
	}

	entries := make([]report.Entry, 0, len(movies))
	for _, movie := range movies {
		entries = append(entries, report.Entry{Movie: movie, Result: classify.Classify(movie, filter)})
	}

	out := cmd.OutOrStdout()
	if !filter.NoOutput {
		fmt.Fprint(out, report.Render(entries, report.Options{
			ShowNotes:  filter.PullCanonical,
			ShowErrors: filter.ShowErrors,
		}))
	}

	if filter.NoDelete {
		return nil
	}
	if !isTerminal(os.Stdin.Fd()) {
		logger.Info("stdin is not a terminal; skipping deletion prompt")
		return nil
	}
	return runDeletionLoop(ctx, cmd, cfg, logger, entries)
}

func probeMovies(ctx context.Context, cfg *config.Config, logger *slog.Logger, files []string) []audio.Movie {
	var bar *progressbar.ProgressBar
	if isTerminal(os.Stderr.Fd()) && len(files) > 0 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Probing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	movies := make([]audio.Movie, 0, len(files))
	for _, file := range files {
		movie := audio.Movie{Path: file}
		result, err := ffprobe.Inspect(ctx, cfg.FFprobePath(), file)
		if err != nil {
			movie.ProbeErr = err
			logger.Debug("probe failed", logging.String("file", filepath.Base(file)), logging.Error(err))
		} else {
			movie.Tracks = audio.FromProbe(result)
		}
		movies = append(movies, movie)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return movies
}

// canonicalLanguage consults the cache first; TMDB only on a miss.
func canonicalLanguage(ctx context.Context, searcher tmdb.Searcher, cache *langcache.Cache, path string) (string, error) {
	key := lookupKey(path)
	if entry, ok := cache.Lookup(ctx, key); ok {
		return entry.Language, nil
	}
	lang, err := tmdb.OriginalLanguage(ctx, searcher, path)
	if err != nil {
		return "", err
	}
	_ = cache.Store(ctx, langcache.Entry{
		Key:      key,
		Language: lang,
		Title:    filepath.Base(path),
	})
	return lang, nil
}

func lookupKey(path string) string {
	if id, ok := scanner.ExtractMediaID(path); ok {
		return langcache.KeyForID(id.Source, id.Value)
	}
	hint := scanner.DeriveTitle(path)
	return langcache.KeyForTitle(hint.Title, hint.Year)
}

func runDeletionLoop(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, entries []report.Entry) error {
	candidates := make([]report.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Result.Include && !entry.Result.Error && len(entry.Movie.Tracks) > 0 {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// One deletion session at a time; concurrent remuxes of the same library
	// are a recipe for clobbered files.
	lock := flock.New(filepath.Join(cfg.Paths.CacheDir, "trackscan.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrExecution, "deletion", "lock", lock.Path(), err)
	}
	if !locked {
		return services.Wrap(services.ErrExecution, "deletion", "lock",
			"another trackscan instance is already deleting tracks", nil)
	}
	defer lock.Unlock()

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())
	executor := deletion.NewExecutor(cfg.FFmpegPath(), logger)

	var totalSaved int64
	for _, entry := range candidates {
		saved, quit, err := promptAndDelete(ctx, out, reader, executor, entry.Movie)
		if err != nil {
			// Keep the original intact and move on.
			fmt.Fprintf(out, "Failed to delete tracks from %s: %v\n", filepath.Base(entry.Movie.Path), err)
		}
		totalSaved += saved
		if quit {
			break
		}
	}
	if totalSaved > 0 {
		fmt.Fprintf(out, "Total space saved: %s\n", report.FormatBytes(totalSaved))
	}
	return nil
}

func promptAndDelete(ctx context.Context, out io.Writer, reader *bufio.Reader, executor *deletion.Executor, movie audio.Movie) (int64, bool, error) {
	for {
		fmt.Fprint(out, report.RenderMovie(movie))
		fmt.Fprint(out, "Tracks to delete (space-separated, e.g. 1 3 - enter s to skip, q to quit): ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return 0, true, nil
		}

		selection, action := parseSelection(line)
		switch action {
		case selectionSkip:
			fmt.Fprintln(out, "File will be skipped.")
			return 0, false, nil
		case selectionQuit:
			return 0, true, nil
		case selectionInvalid:
			fmt.Fprintln(out, "Invalid input. Please enter valid track numbers, s to skip, or q to quit.")
			continue
		}

		plan, err := deletion.Plan(movie, selection)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSelection) {
				fmt.Fprintf(out, "Invalid selection: %v\n", err)
				continue
			}
			return 0, false, err
		}

		fmt.Fprintln(out, "Deleting selected tracks...")
		outcome, err := executor.Execute(ctx, plan)
		if err != nil {
			return 0, false, err
		}
		fmt.Fprintf(out, "Deleted tracks successfully. Space saved: %s\n", report.FormatBytes(outcome.SpaceSaved))
		return outcome.SpaceSaved, false, nil
	}
}

type selectionAction int

const (
	selectionDelete selectionAction = iota
	selectionSkip
	selectionQuit
	selectionInvalid
)

// parseSelection turns a prompt line into zero-based track ordinals. Track
// numbers are one-based at the prompt, matching the table.
func parseSelection(line string) ([]int, selectionAction) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, selectionSkip
	}
	switch strings.ToLower(fields[0]) {
	case "s", "skip":
		return nil, selectionSkip
	case "q", "quit":
		return nil, selectionQuit
	}

	ordinals := make([]int, 0, len(fields))
	for _, field := range fields {
		number, err := strconv.Atoi(field)
		if err != nil || number < 1 {
			return nil, selectionInvalid
		}
		ordinals = append(ordinals, number-1)
	}
	return ordinals, selectionDelete
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

package config

const (
	defaultCacheDir          = "~/.cache/trackscan"
	defaultLanguageCachePath = "~/.cache/trackscan/languages.db"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultTMDBLanguage      = "en-US"
	defaultHomeLanguage      = "eng"
	defaultLogLevel          = "info"
)

// defaultExtensions is the set of container extensions treated as movie files.
var defaultExtensions = []string{"mkv", "mp4", "avi", "mov", "wmv", "flv", "m4v", "m2ts", "iso"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
		},
		Tools: Tools{
			FFprobeBinary: "ffprobe",
			FFmpegBinary:  "ffmpeg",
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Scan: Scan{
			Extensions:   append([]string(nil), defaultExtensions...),
			HomeLanguage: defaultHomeLanguage,
		},
		LanguageCache: LanguageCache{
			Enabled: true,
			Path:    defaultLanguageCachePath,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

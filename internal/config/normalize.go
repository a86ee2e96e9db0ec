package config

import (
	"fmt"
	"os"
	"strings"

	"trackscan/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeScan()
	if err := c.normalizeLanguageCache(); err != nil {
		return err
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary)
	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = "ffprobe"
	}
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = "ffmpeg"
	}
	dir := strings.TrimSpace(c.Tools.FFmpegDir)
	if dir == "" {
		c.Tools.FFmpegDir = ""
		return nil
	}
	expanded, err := expandPath(dir)
	if err != nil {
		return fmt.Errorf("tools.ffmpeg_dir: %w", err)
	}
	c.Tools.FFmpegDir = expanded
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeScan() {
	extensions := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		cleaned := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		extensions = append(extensions, cleaned)
	}
	if len(extensions) == 0 {
		extensions = append([]string(nil), defaultExtensions...)
	}
	c.Scan.Extensions = extensions

	c.Scan.HomeLanguage = strings.ToLower(strings.TrimSpace(c.Scan.HomeLanguage))
	if c.Scan.HomeLanguage == "" {
		c.Scan.HomeLanguage = defaultHomeLanguage
	}
}

func (c *Config) normalizeLanguageCache() error {
	if strings.TrimSpace(c.LanguageCache.Path) == "" {
		c.LanguageCache.Path = defaultLanguageCachePath
	}
	expanded, err := expandPath(c.LanguageCache.Path)
	if err != nil {
		return fmt.Errorf("language_cache.path: %w", err)
	}
	c.LanguageCache.Path = expanded
	return nil
}

// validateHomeLanguage is shared with Validate; the home language must map to
// a known ISO 639 code so classifier comparisons stay meaningful.
func validateHomeLanguage(code string) error {
	if language.ToISO2(code) == "" && len(code) != 2 && len(code) != 3 {
		return fmt.Errorf("scan.home_language %q is not a recognizable language code", code)
	}
	return nil
}

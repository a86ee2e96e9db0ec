package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackscan/internal/langcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the canonical-language cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func openCache(ctx *commandContext) (*langcache.Cache, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return langcache.Open(cfg.LanguageCachePath(), ctx.rootLogger())
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached language lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			out := cmd.OutOrStdout()
			if !cache.Enabled() {
				fmt.Fprintln(out, "Language cache is disabled")
				return nil
			}

			entries, err := cache.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}

			const stampLayout = "2006-01-02 15:04"
			fmt.Fprintf(out, "Cached lookups (%d):\n", len(entries))
			for _, entry := range entries {
				stamp := "unknown"
				if !entry.CachedAt.IsZero() {
					stamp = entry.CachedAt.Local().Format(stampLayout)
				}
				fmt.Fprintf(out, "  - %s — %s (%s, cached %s)\n", entry.Key, entry.Language, entry.Title, stamp)
			}
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached language lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			out := cmd.OutOrStdout()
			if !cache.Enabled() {
				fmt.Fprintln(out, "Language cache is disabled")
				return nil
			}

			count, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d cached lookups\n", count)
			return nil
		},
	}
}

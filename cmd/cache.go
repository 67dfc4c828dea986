package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/cache"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/ui"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache location and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		cm, err := cache.Get(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		return ui.OutputData{
			Title:   "CACHE STATUS",
			Headers: []string{"PROPERTY", "VALUE"},
			Rows: [][]string{
				{"Directory", cfg.CacheDir},
				{"Entries", fmt.Sprintf("%d", cm.Count())},
				{"Disabled", fmt.Sprintf("%t", cfg.NoCache)},
			},
			Raw: map[string]any{"dir": cfg.CacheDir, "entries": cm.Count(), "disabled": cfg.NoCache},
		}.Print()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached frames and the library index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := cache.Get(config.Get().CacheDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		n, err := cm.Purge()
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		ui.RenderSuccess(fmt.Sprintf("Removed %d cache entries.", n))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{cacheStatusCmd, cacheClearCmd} {
		c.Annotations = map[string]string{ui.AnnotationSkipLibrary: "true"}
	}
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

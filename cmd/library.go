package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/presenters"
	"github.com/ygelfand/animctl/internal/ui"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Short:   "Manage the animation library",
	GroupID: "library",
}

var libraryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all animations in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := library.GetIndex()
		if idx.Indexed().IsZero() {
			slog.Debug("Library: never indexed, indexing now")
			if err := idx.Reindex(cmd.Context(), nil); err != nil {
				return fmt.Errorf("failed to index library: %w", err)
			}
		}

		entries := idx.List()
		if len(entries) == 0 {
			fmt.Printf("No animations found in %s.\n", idx.Root)
			return nil
		}

		slog.Debug("Library: listing", "count", len(entries))
		return commands.Print(&presenters.LibraryListPresenter{
			Root:    idx.Root,
			Entries: entries,
		}, commands.OptionsFromViper())
	},
}

var libraryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library index status",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := library.GetIndex()

		lastIndexed := "Never"
		if t := idx.Indexed(); !t.IsZero() {
			lastIndexed = t.Format("2006-01-02 15:04:05")
		}
		entries := idx.List()
		broken := 0
		for _, e := range entries {
			if e.Broken() {
				broken++
			}
		}

		data := map[string]any{
			"root":          idx.Root,
			"last_indexed":  lastIndexed,
			"total_entries": len(entries),
			"broken":        broken,
		}

		return ui.OutputData{
			Title:   "LIBRARY STATUS",
			Headers: []string{"PROPERTY", "VALUE"},
			Rows: [][]string{
				{"Root", idx.Root},
				{"Last Indexed", lastIndexed},
				{"Total Entries", fmt.Sprintf("%d", len(entries))},
				{"Broken", fmt.Sprintf("%d", broken)},
			},
			Raw: data,
		}.Print()
	},
}

var libraryReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rescan the library directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		progress := make(chan library.Progress, 100)
		idx := library.GetIndex()
		theme := ui.CurrentTheme()

		fmt.Println(ui.TitleStyle(theme).Render("Starting Reindex..."))

		errc := make(chan error, 1)
		go func() {
			errc <- idx.Reindex(context.WithoutCancel(cmd.Context()), progress)
			close(progress)
		}()

		for p := range progress {
			fmt.Printf("\r\033[K[%d/%d] %s", p.Current, p.Total, p.Message)
		}
		fmt.Println()
		if err := <-errc; err != nil {
			return fmt.Errorf("reindex failed: %w", err)
		}
		fmt.Println(ui.SuccessStyle(theme).Render(fmt.Sprintf("Indexed %d animations.", len(idx.List()))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryStatusCmd)
	libraryCmd.AddCommand(libraryReindexCmd)
}

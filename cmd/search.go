package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/presenters"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Fuzzy search the library by name",
	Args:    cobra.MinimumNArgs(1),
	GroupID: "library",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		idx := library.GetIndex()

		if idx.Indexed().IsZero() {
			return fmt.Errorf("library is not indexed. Please run 'animctl library reindex' first")
		}

		matches := idx.Search(query, searchLimit)
		if len(matches) == 0 {
			fmt.Println("No matches found.")
			return nil
		}

		opts := commands.OptionsFromViper()
		// Keep the match order unless a sort was asked for.
		p := &presenters.LibraryListPresenter{Root: idx.Root, Entries: matches}
		if opts.Sort == "" {
			return commands.Print(presenters.SimplePresenter{
				T:       fmt.Sprintf("Results for: %s", query),
				H:       p.Headers(),
				R:       p.Rows(),
				RawData: matches,
			}, opts)
		}
		return commands.Print(p, opts)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")
}

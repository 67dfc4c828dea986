package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/presenters"
)

var infoMarkers bool

var infoCmd = &cobra.Command{
	Use:     "info [animation]",
	Short:   "Show the layers of an animation",
	Args:    cobra.MaximumNArgs(1),
	GroupID: "library",
	RunE: commands.RunWithPlayer(func(ctx context.Context, s *commands.Session, cmd *cobra.Command, args []string, opts *commands.AnimCtlOptions) error {
		v := s.Player.Visual()
		if v == nil {
			return fmt.Errorf("%s", s.Player.FallbackText())
		}
		doc := v.Document()

		if infoMarkers {
			if len(doc.Markers) == 0 {
				fmt.Printf("%s has no markers.\n", doc.Name)
				return nil
			}
			return commands.Print(&presenters.MarkerPresenter{Doc: doc}, opts)
		}
		return commands.Print(presenters.NewDocumentPresenter(doc), opts)
	}),
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoMarkers, "markers", false, "List the named markers instead of the layers")
}

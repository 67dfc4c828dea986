package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/playback"
	"github.com/ygelfand/animctl/internal/presenters"
	"golang.org/x/term"
)

var (
	playSegment string
	playLoop    bool
	playFrom    float64
	playTo      float64
	playRate    float64
	playWidth   int
	playStatus  bool
)

var playCmd = &cobra.Command{
	Use:     "play [animation]",
	Short:   "Play an animation in the terminal",
	Long:    "Play a library animation or a document file. Without an argument a library entry is picked interactively. Ctrl+C stops playback.",
	Args:    cobra.MaximumNArgs(1),
	GroupID: "playback",
	RunE: commands.RunWithPlayer(func(ctx context.Context, s *commands.Session, cmd *cobra.Command, args []string, opts *commands.AnimCtlOptions) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		p := s.Player
		if p.IsFallenBack() {
			return errors.New(p.FallbackText())
		}
		if cmd.Flags().Changed("rate") {
			p.SetPlaybackRate(playRate)
		}

		var h *playback.Handle
		if playSegment != "" {
			var err error
			if h, err = p.PlaySegment(playSegment, playLoop); err != nil {
				return err
			}
		} else {
			h = p.PlayAsync(playFrom, playTo, playLoop)
		}
		slog.Info("Playing", "name", s.Name, "segment", playSegment, "loop", playLoop, "rate", p.PlaybackRate())

		// The handle of a looped play only completes when it is stopped.
		h.OnDone(cancel)

		width := playWidth
		if width <= 0 {
			width = config.Get().RenderWidth
		}
		interactive := term.IsTerminal(int(os.Stdout.Fd()))
		if interactive {
			if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = min(width, tw)
			}
			fmt.Print("\033[?25l\033[2J")
			defer fmt.Print("\033[?25h")
		}

		lastState := ""
		onFrame := func() {
			st := presenters.Snapshot(p)
			switch {
			case playStatus || !interactive:
				if state := st.State(); state != lastState {
					lastState = state
					fmt.Printf("%s %s %.0f%%\n", s.Name, state, st.Progress*100)
				}
			default:
				frame, err := p.Frame(width)
				if err != nil {
					slog.Debug("Play: frame failed", "error", err)
					return
				}
				fmt.Printf("\033[H%s\n\033[K%s  %.0f%%  %gx", frame, st.State(), st.Progress*100, st.Rate)
			}
		}

		if err := s.Run(ctx, onFrame); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if interactive && !playStatus {
			fmt.Println()
		}

		if playStatus {
			return commands.Print(presenters.StatusPresenter{Status: presenters.Snapshot(p)}, opts)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playSegment, "segment", "", "Play a named marker instead of --from/--to")
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "Loop until interrupted")
	playCmd.Flags().Float64Var(&playFrom, "from", 0, "Start progress (0..1)")
	playCmd.Flags().Float64Var(&playTo, "to", 1, "End progress (0..1)")
	playCmd.Flags().Float64Var(&playRate, "rate", 1, "Playback rate; negative plays backwards")
	playCmd.Flags().IntVar(&playWidth, "width", 0, "Frame width in cells (default render_width)")
	playCmd.Flags().BoolVar(&playStatus, "status", false, "Print state changes and the final status instead of frames")
}

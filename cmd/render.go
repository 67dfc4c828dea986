package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/ui"
)

var (
	renderProgress float64
	renderFrames   int
	renderWidth    int
	renderOut      string
	renderOpen     bool
)

var renderCmd = &cobra.Command{
	Use:     "render [animation]",
	Short:   "Render frames of an animation to PNG",
	Args:    cobra.MaximumNArgs(1),
	GroupID: "playback",
	RunE: commands.RunWithPlayer(func(ctx context.Context, s *commands.Session, cmd *cobra.Command, args []string, opts *commands.AnimCtlOptions) error {
		v := s.Player.Visual()
		if v == nil {
			return fmt.Errorf("%s", s.Player.FallbackText())
		}

		cw, ch := v.Size()
		width := renderWidth
		if width <= 0 {
			width = int(cw)
		}
		height := max(int(math.Round(float64(width)*ch/cw)), 1)

		out := renderOut
		if out == "" {
			out = s.Name + ".png"
		}

		var written []string
		for i := range max(renderFrames, 1) {
			progress := renderProgress
			path := out
			if renderFrames > 1 {
				progress = float64(i) / float64(renderFrames-1)
				ext := filepath.Ext(out)
				path = fmt.Sprintf("%s-%03d%s", out[:len(out)-len(ext)], i, ext)
			}
			if err := writePNG(path, v.EncodePNG, width, height, progress); err != nil {
				return err
			}
			slog.Debug("Render: wrote frame", "path", path, "progress", progress)
			written = append(written, path)
		}

		ui.RenderSuccess(fmt.Sprintf("Rendered %d frame(s) of %s at %dx%d", len(written), s.Name, width, height))
		if renderOpen {
			if err := browser.OpenFile(written[0]); err != nil {
				return fmt.Errorf("failed to open %s: %w", written[0], err)
			}
		}
		return nil
	}),
}

type pngEncoder func(w io.Writer, width, height int, progress float64) error

func writePNG(path string, encode pngEncoder, width, height int, progress float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(f, width, height, progress); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Float64Var(&renderProgress, "progress", 0, "Progress of the frame to render (0..1)")
	renderCmd.Flags().IntVar(&renderFrames, "frames", 1, "Render this many evenly spaced frames")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Image width in pixels (default canvas width)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output file (default <name>.png)")
	renderCmd.Flags().BoolVar(&renderOpen, "open", false, "Open the first rendered frame")
}

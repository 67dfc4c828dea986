package tui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/commands"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"golang.org/x/term"
)

//go:embed splash.yaml
var splashDoc []byte

// SplashWidth is the widest the splash animation is drawn, in cells.
const SplashWidth = 48

// ShowStandaloneSplash loops the splash animation while the library is
// reindexed, for at least minDuration. It returns the reindex error.
func ShowStandaloneSplash(ctx context.Context, minDuration time.Duration, index *library.Index) error {
	slog.Debug("Splash: Initializing")
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		slog.Warn("Splash: Failed to get terminal size, skipping", "error", err)
		return index.Reindex(ctx, nil)
	}

	doc, err := animation.Parse(splashDoc)
	if err != nil {
		return fmt.Errorf("bad splash animation: %w", err)
	}

	s := commands.NewSession("splash")
	defer s.Close()
	s.Source = animation.DocumentSource{Doc: doc}
	s.Player.SetSource(s.Source)
	s.Player.PlayAsync(0, 1, true)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Reindex in the background; progress and the result are handed to the
	// session goroutine.
	updates := make(chan library.Progress, 10)
	currentStatus := "Indexing library..."
	var indexErr error
	isDone := false
	go func() {
		for p := range updates {
			msg := fmt.Sprintf("[%d/%d] %s", p.Current, p.Total, p.Message)
			s.Loop.Post(func() { currentStatus = msg })
		}
	}()
	go func() {
		err := index.Reindex(ctx, updates)
		close(updates)
		s.Loop.Post(func() {
			indexErr = err
			isDone = true
		})
	}()

	fmt.Print("\033[H\033[2J\033[?25l") // Clear screen, hide cursor
	defer fmt.Print("\033[H\033[2J\033[?25h")

	frameWidth := min(SplashWidth, max(width-4, 8))
	startTime := time.Now()

	slog.Debug("Splash: Starting event loop")
	err = s.Run(ctx, func() {
		frame, ferr := s.Player.Frame(frameWidth)
		if ferr != nil {
			slog.Log(ctx, config.LevelTrace, "Splash: frame failed", "error", ferr)
			return
		}
		lines := strings.Split(frame, "\n")
		startY := max((height-len(lines))/2, 1)
		padding := strings.Repeat(" ", max((width-frameWidth)/2, 0))
		for i, line := range lines {
			fmt.Printf("\033[%d;1H%s%s", startY+i, padding, line)
		}
		fmt.Printf("\033[%d;1H\033[2K%s", height-2, centerText(currentStatus, width))

		if isDone && time.Since(startTime) >= minDuration {
			slog.Debug("Splash: Exit conditions met")
			cancel()
		}
	})
	if indexErr != nil {
		return indexErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func centerText(text string, width int) string {
	text = runewidth.Truncate(text, width, "...")
	padding := max((width-runewidth.StringWidth(text))/2, 0)
	return strings.Repeat(" ", padding) + text
}

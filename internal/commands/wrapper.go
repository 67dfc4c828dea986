package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/cache"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/playback"
	"github.com/ygelfand/animctl/internal/player"
	"github.com/ygelfand/animctl/internal/presenters"
	"github.com/ygelfand/animctl/internal/ui"
)

// FrameBuckets is how many distinct progress values the frame cache keeps
// per animation and width.
const FrameBuckets = 240

// RunnerFunc defines the signature for a command handler that receives a
// session with its source already set.
type RunnerFunc func(ctx context.Context, s *Session, cmd *cobra.Command, args []string, opts *AnimCtlOptions) error

// OptionsFromViper collects the persistent flags bound through viper.
func OptionsFromViper() *AnimCtlOptions {
	return &AnimCtlOptions{
		OutputFormat: viper.GetString("output"),
		Verbosity:    viper.GetInt("verbose"),
		Sort:         viper.GetString("sort"),
		Watch:        viper.GetBool("watch_files"),
		Rate:         viper.GetFloat64("playback_rate"),
	}
}

// RunWithPlayer wraps a cobra command RunE function to resolve the first
// argument to an animation and inject a session playing it.
func RunWithPlayer(runner RunnerFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		opts := OptionsFromViper()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		src, title, err := ResolveSource(cmd.Context(), name, opts.Watch)
		if err != nil {
			return err
		}

		s := NewSession(title)
		defer s.Close()
		s.Source = src
		s.Player.SetSource(src)
		return runner(cmd.Context(), s, cmd, args, opts)
	}
}

// PlayerOptions returns the player options configured for the entry name.
func PlayerOptions(name string) []player.Option {
	cfg := config.Get()
	opts := []player.Option{
		player.WithPlaybackOptions(
			playback.WithMinPlayDuration(cfg.MinPlayDuration),
			playback.WithAutoPlay(cfg.AutoPlay),
			playback.WithPlaybackRate(cfg.RateFor(name)),
		),
	}
	if !cfg.NoCache {
		if cm, err := cache.Get(cfg.CacheDir); err == nil {
			opts = append(opts, player.WithFrameCache(cm, FrameBuckets))
		} else {
			slog.Warn("Frame cache unavailable", "error", err)
		}
	}
	return opts
}

// ResolveSource turns a command argument into a source. Existing files are
// used directly; anything else is looked up in the library, reindexing once
// on a miss. An empty name prompts for a library entry.
func ResolveSource(ctx context.Context, name string, watch bool) (animation.Source, string, error) {
	fs := afero.NewOsFs()
	if name != "" {
		if ok, _ := afero.Exists(fs, name); ok {
			return fileSource(fs, name, watch), strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), nil
		}
	}

	idx := library.GetIndex()
	if name == "" {
		entry, err := SelectEntry(ctx, idx)
		if err != nil {
			return nil, "", err
		}
		return fileSource(fs, entry.Path, watch), entry.Name, nil
	}

	entry, err := idx.Find(name)
	if errors.Is(err, library.ErrNotFound) {
		slog.Debug("Library: miss, reindexing", "name", name)
		if rerr := idx.Reindex(ctx, nil); rerr != nil {
			return nil, "", rerr
		}
		entry, err = idx.Find(name)
	}
	if err != nil {
		if matches := idx.Search(name, 3); len(matches) > 0 {
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.Name
			}
			return nil, "", fmt.Errorf("%w (did you mean %s?)", err, strings.Join(names, ", "))
		}
		return nil, "", err
	}
	return fileSource(fs, entry.Path, watch), entry.Name, nil
}

func fileSource(fs afero.Fs, path string, watch bool) animation.Source {
	if watch {
		return animation.NewWatchedSource(fs, path)
	}
	return animation.NewFileSource(fs, path)
}

// SelectEntry prompts for a library entry, indexing the library first if
// it has never been indexed.
func SelectEntry(ctx context.Context, idx *library.Index) (library.Entry, error) {
	if idx.Indexed().IsZero() {
		if err := idx.Reindex(ctx, nil); err != nil {
			return library.Entry{}, err
		}
	}

	var options []ui.Option
	for _, e := range idx.List() {
		if e.Broken() || config.Get().Entry(e.Name).Hidden {
			continue
		}
		options = append(options, ui.Option{
			Title: e.Name,
			Desc:  ui.FormatDuration(e.Duration),
			Value: e.Name,
		})
	}
	if len(options) == 0 {
		return library.Entry{}, fmt.Errorf("no animations in %s", idx.Root)
	}

	choice, err := ui.SelectOption("Select an animation", options)
	if err != nil {
		return library.Entry{}, fmt.Errorf("failed to select animation: %w", err)
	}
	return idx.Find(choice)
}

// Print formats and prints data using the provided Presenter
func Print(p presenters.Presenter, opts *AnimCtlOptions) error {
	sortCol := opts.Sort
	if sortCol == "" {
		sortCol = p.DefaultSort()
	}
	if sortCol != "" && !p.SortBy(sortCol) {
		return fmt.Errorf("cannot sort by %q, expected one of: %s", sortCol, strings.Join(p.SortableColumns(), ", "))
	}

	return ui.OutputData{
		Title:   p.Title(),
		Headers: p.Headers(),
		Rows:    p.Rows(),
		Raw:     p.Raw(),
	}.Print()
}

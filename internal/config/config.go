package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/spf13/viper"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns a concatenated version string
func FullVersion() string {
	return fmt.Sprintf("%s-%s-%s", Version, GitCommit, BuildDate)
}

type IconType string

const (
	IconTypeASCII     IconType = "ascii"
	IconTypeEmoji     IconType = "emoji"
	IconTypeNerdFonts IconType = "nerdfonts"
)

// NameFormat controls how sidebar entries are labelled.
type NameFormat string

const (
	NameFormatIconName NameFormat = "icon_name"
	NameFormatNameIcon NameFormat = "name_icon"
	NameFormatIconOnly NameFormat = "icon"
	NameFormatName     NameFormat = "name"
)

// EntryOptions are per-animation overrides, keyed by library entry name.
type EntryOptions struct {
	IconEmoji    string   `mapstructure:"icon_emoji" yaml:"icon_emoji"`
	IconASCII    string   `mapstructure:"icon_ascii" yaml:"icon_ascii"`
	IconNerd     string   `mapstructure:"icon_nerd" yaml:"icon_nerd"`
	Hidden       bool     `mapstructure:"hidden" yaml:"hidden"`
	PlaybackRate *float64 `mapstructure:"playback_rate" yaml:"playback_rate,omitempty"`
	Loop         *bool    `mapstructure:"loop" yaml:"loop,omitempty"`
}

func (o EntryOptions) GetIcon(t IconType) string {
	switch t {
	case IconTypeEmoji:
		return o.IconEmoji
	case IconTypeASCII:
		return o.IconASCII
	case IconTypeNerdFonts:
		return o.IconNerd
	default:
		return ""
	}
}

// Config holds the global configuration for animctl
type Config struct {
	OutputFormat string     `mapstructure:"output"`
	Verbosity    int        `mapstructure:"verbose"`
	Theme        string     `mapstructure:"theme"`
	IconType     IconType   `mapstructure:"icon_type"` // ascii, emoji, nerdfonts
	NameFormat   NameFormat `mapstructure:"name_format"`
	CacheDir     string     `mapstructure:"cache_dir"`
	NoCache      bool       `mapstructure:"no_cache"`
	DefaultToTui bool       `mapstructure:"default_to_tui"`

	// Playback
	LibraryDir      string        `mapstructure:"library_dir"`
	AutoPlay        bool          `mapstructure:"auto_play"`
	PlaybackRate    float64       `mapstructure:"playback_rate"`
	FrameRate       int           `mapstructure:"frame_rate"`
	MinPlayDuration time.Duration `mapstructure:"min_play_duration"`
	RenderWidth     int           `mapstructure:"render_width"`
	WatchFiles      bool          `mapstructure:"watch_files"`

	Entries    map[string]EntryOptions `mapstructure:"entries"`
	EntryOrder []string                `mapstructure:"entry_order"`

	// Runtime only
	ConfigPath string       `mapstructure:"-"`
	LogFile    string       `mapstructure:"-"`
	Logger     *slog.Logger `mapstructure:"-"`
	LogLevel   *slog.LevelVar
}

var (
	instance *Config
	once     sync.Once
)

const (
	LevelTrace slog.Level = -8
)

// Get returns the global configuration singleton
func Get() *Config {
	once.Do(func() {
		home, _ := os.UserHomeDir()
		lvl := &slog.LevelVar{}
		lvl.Set(slog.LevelInfo)
		instance = &Config{
			Logger:          slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})),
			LogLevel:        lvl,
			Entries:         make(map[string]EntryOptions),
			CacheDir:        filepath.Join(home, ".animctl", "cache"),
			LibraryDir:      filepath.Join(home, ".animctl", "library"),
			IconType:        IconTypeEmoji,
			NameFormat:      NameFormatIconName,
			DefaultToTui:    true,
			PlaybackRate:    1,
			FrameRate:       30,
			MinPlayDuration: 20 * time.Millisecond,
			RenderWidth:     64,
		}
	})
	return instance
}

// SetupLogging initializes the global logger based on verbosity
func (c *Config) SetupLogging() {
	var level slog.Level
	switch {
	case c.Verbosity >= 2:
		level = LevelTrace
	case c.Verbosity >= 1:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	c.LogLevel.Set(level)

	opts := &slog.HandlerOptions{
		Level: c.LogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				level := a.Value.Any().(slog.Level)
				if level == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	var writer io.Writer = os.Stderr
	if c.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(c.LogFile), 0755)
		f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, opts)
	c.Logger = slog.New(handler)
	slog.SetDefault(c.Logger)

	// The renderer is silent unless we are tracing.
	if level <= LevelTrace {
		gg.SetLogger(c.Logger.With("component", "gg"))
	} else {
		gg.SetLogger(nil)
	}
}

// Enabled returns true if the given level is enabled
func (c *Config) Enabled(level slog.Level) bool {
	return c.LogLevel.Level() <= level
}

// Entry returns the overrides for a library entry.
func (c *Config) Entry(name string) EntryOptions {
	return c.Entries[name]
}

// SetEntry stores overrides for a library entry.
func (c *Config) SetEntry(name string, opts EntryOptions) {
	if c.Entries == nil {
		c.Entries = make(map[string]EntryOptions)
	}
	c.Entries[name] = opts
}

// OrderedNames sorts names by EntryOrder. Names missing from EntryOrder
// keep their relative order after the ordered ones.
func (c *Config) OrderedNames(names []string) []string {
	rank := make(map[string]int, len(c.EntryOrder))
	for i, n := range c.EntryOrder {
		rank[n] = i
	}
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		ra, oka := rank[a]
		rb, okb := rank[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		}
		return 0
	})
	return out
}

// RateFor returns the playback rate for an entry, falling back to the
// global rate.
func (c *Config) RateFor(name string) float64 {
	if r := c.Entry(name).PlaybackRate; r != nil {
		return *r
	}
	return c.PlaybackRate
}

// Save persists the current configuration to disk
func (c *Config) Save() error {
	// Sync struct fields to viper before writing
	viper.Set("output", c.OutputFormat)
	viper.Set("verbose", c.Verbosity)
	viper.Set("theme", c.Theme)
	viper.Set("icon_type", c.IconType)
	viper.Set("name_format", c.NameFormat)
	viper.Set("cache_dir", c.CacheDir)
	viper.Set("default_to_tui", c.DefaultToTui)
	viper.Set("library_dir", c.LibraryDir)
	viper.Set("auto_play", c.AutoPlay)
	viper.Set("playback_rate", c.PlaybackRate)
	viper.Set("frame_rate", c.FrameRate)
	viper.Set("min_play_duration", c.MinPlayDuration.String())
	viper.Set("render_width", c.RenderWidth)
	viper.Set("watch_files", c.WatchFiles)
	viper.Set("entries", c.Entries)
	viper.Set("entry_order", c.EntryOrder)

	if c.ConfigPath != "" {
		return viper.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.ConfigPath = filepath.Join(home, ".animctl.yaml")
	return viper.WriteConfigAs(c.ConfigPath)
}

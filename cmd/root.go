package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/ui"
)

var (
	cfgFile    string
	verbosity  int
	sortCol    string
	noCache    bool
	watch      bool
	outputType string
)

var rootCmd = &cobra.Command{
	Use:           "animctl",
	Short:         "Play and inspect vector animations in the terminal",
	Version:       config.Version,
	Long:          `animctl plays, renders and inspects keyframed vector animations from a local library`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[ui.AnnotationSkipLibrary] == "true" {
			return nil
		}
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg := config.Get()
		if err := os.MkdirAll(cfg.LibraryDir, 0755); err != nil {
			return fmt.Errorf("failed to create library directory %s: %w", cfg.LibraryDir, err)
		}
		library.GetIndex()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Get().DefaultToTui {
			return runTUI()
		}
		cmd.Help()
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.RenderError(err)
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("animctl version {{.Version}} (commit: %s, date: %s)\n", config.GitCommit, config.BuildDate))
	cobra.OnInitialize(initConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "tui", Title: "Interactive"})
	rootCmd.AddGroup(&cobra.Group{ID: "playback", Title: "Playback & Rendering"})
	rootCmd.AddGroup(&cobra.Group{ID: "library", Title: "Library"})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.animctl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputType, "output", "o", "table", "Output format (table, json, json-pretty, yaml, csv, txt)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase verbosity")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable caching")
	viper.BindPFlag("no_cache", rootCmd.PersistentFlags().Lookup("no-cache"))

	rootCmd.PersistentFlags().StringVar(&sortCol, "sort", "", "column to sort by")
	viper.BindPFlag("sort", rootCmd.PersistentFlags().Lookup("sort"))

	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "Reload animations when their file changes")
	viper.BindPFlag("watch_files", rootCmd.PersistentFlags().Lookup("watch"))
}

func initConfig() {
	cfg := config.Get()
	cfg.Verbosity = viper.GetInt("verbose")
	cfg.SetupLogging()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			ui.RenderError(fmt.Errorf("failed to get home directory: %w", err))
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".animctl")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ANIMCTL")

	// Explicitly bind env vars that don't have corresponding flags
	viper.BindEnv("library_dir")
	viper.BindEnv("cache_dir")

	if err := viper.ReadInConfig(); err == nil {
		cfg.ConfigPath = viper.ConfigFileUsed()
	}

	// Unmarshal the loaded config into our struct
	if err := viper.Unmarshal(cfg); err != nil {
		ui.RenderError(fmt.Errorf("failed to parse config: %w", err))
		os.Exit(1)
	}

	// Ensure flags override config
	if outputType != "" && outputType != "table" {
		cfg.OutputFormat = outputType
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "table"
	}

	validFormats := map[string]bool{
		"table": true, "json": true, "json-pretty": true, "yaml": true, "csv": true, "txt": true, "text": true,
	}
	if !validFormats[cfg.OutputFormat] {
		ui.RenderError(fmt.Errorf("invalid output format: %s", cfg.OutputFormat))
		os.Exit(1)
	}

	if verbosity > 0 {
		cfg.Verbosity = verbosity
	}
	cfg.SetupLogging()

	// Sync back to viper for parts that still use it
	viper.Set("output", cfg.OutputFormat)
}

package commands

// AnimCtlOptions holds common command-line flags and options
type AnimCtlOptions struct {
	OutputFormat string
	Verbosity    int
	Sort         string
	Watch        bool
	Rate         float64
}

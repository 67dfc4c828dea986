package ui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
	"github.com/olekukonko/tablewriter"
	"github.com/ygelfand/animctl/internal/config"
	"gopkg.in/yaml.v3"
)

// Violet is the accent of the default theme.
var Violet = lipgloss.Color("#a78bfa")

type AnimctlTint struct{}

func (t *AnimctlTint) DisplayName() string { return "Animctl" }
func (t *AnimctlTint) ID() string          { return "animctl" }
func (t *AnimctlTint) About() string       { return "Animctl default theme" }

func (t *AnimctlTint) Fg() lipgloss.TerminalColor          { return lipgloss.Color("#d4d4d8") }
func (t *AnimctlTint) Bg() lipgloss.TerminalColor          { return lipgloss.Color("#18181b") }
func (t *AnimctlTint) SelectionBg() lipgloss.TerminalColor { return lipgloss.Color("#3f3f46") }
func (t *AnimctlTint) Cursor() lipgloss.TerminalColor      { return Violet }

func (t *AnimctlTint) BrightBlack() lipgloss.TerminalColor  { return lipgloss.Color("#52525b") }
func (t *AnimctlTint) BrightBlue() lipgloss.TerminalColor   { return lipgloss.Color("#93c5fd") }
func (t *AnimctlTint) BrightCyan() lipgloss.TerminalColor   { return lipgloss.Color("#67e8f9") }
func (t *AnimctlTint) BrightGreen() lipgloss.TerminalColor  { return lipgloss.Color("#86efac") }
func (t *AnimctlTint) BrightPurple() lipgloss.TerminalColor { return Violet }
func (t *AnimctlTint) BrightRed() lipgloss.TerminalColor    { return lipgloss.Color("#fca5a5") }
func (t *AnimctlTint) BrightWhite() lipgloss.TerminalColor  { return lipgloss.Color("#fafafa") }
func (t *AnimctlTint) BrightYellow() lipgloss.TerminalColor { return lipgloss.Color("#fde047") }

func (t *AnimctlTint) Black() lipgloss.TerminalColor  { return lipgloss.Color("#000000") }
func (t *AnimctlTint) Blue() lipgloss.TerminalColor   { return lipgloss.Color("#3b82f6") }
func (t *AnimctlTint) Cyan() lipgloss.TerminalColor   { return lipgloss.Color("#06b6d4") }
func (t *AnimctlTint) Green() lipgloss.TerminalColor  { return lipgloss.Color("#22c55e") }
func (t *AnimctlTint) Purple() lipgloss.TerminalColor { return lipgloss.Color("#8b5cf6") }
func (t *AnimctlTint) Red() lipgloss.TerminalColor    { return lipgloss.Color("#ef4444") }
func (t *AnimctlTint) White() lipgloss.TerminalColor  { return lipgloss.Color("#d4d4d8") }
func (t *AnimctlTint) Yellow() lipgloss.TerminalColor { return lipgloss.Color("#eab308") }

var AnimctlTheme = &AnimctlTint{}

// Themes lists the built-in theme followed by the bubbletint defaults.
func Themes() []tint.Tint {
	return append([]tint.Tint{AnimctlTheme}, tint.DefaultTints()...)
}

// CurrentTheme returns the theme currently configured in config.Get()
func CurrentTheme() tint.Tint {
	cfg := config.Get()
	for _, t := range Themes() {
		if t.ID() == cfg.Theme {
			return t
		}
	}
	return AnimctlTheme
}

// Accent returns the primary accent color for the theme
func Accent(t tint.Tint) lipgloss.TerminalColor {
	if t.ID() == AnimctlTheme.ID() {
		return Violet
	}
	return t.BrightPurple()
}

func AccentStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Accent(t))
}

func TitleStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent(t)).
		MarginBottom(1)
}

func LabelStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BrightWhite()).
		Width(20)
}

func ValueStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.White())
}

func TableColumnHeaderStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent(t)).
		Underline(true)
}

func ErrorStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BrightRed()).
		Bold(true)
}

func MutedStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.BrightBlack())
}

func SuccessStyle(t tint.Tint) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.BrightGreen()).
		Bold(true)
}

// RenderError prints a styled error message
func RenderError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle(CurrentTheme()).Render("Error:"), err)
}

// RenderSuccess prints a styled success message
func RenderSuccess(msg string) {
	fmt.Println(SuccessStyle(CurrentTheme()).Render(msg))
}

// OutputData represents data that can be printed in multiple formats
type OutputData struct {
	Title   string
	Headers []string
	Rows    [][]string
	Raw     any // Used for JSON/YAML
}

// Print handles the output based on the configured format
func (d OutputData) Print() error {
	cfg := config.Get()
	// Robustly handle potentially quoted format strings from config
	format := strings.Trim(strings.ToLower(cfg.OutputFormat), "\"")

	switch format {
	case "json":
		return d.printJSON()
	case "json-pretty":
		return d.printJSONPretty()
	case "yaml":
		return d.printYAML()
	case "csv":
		return d.printCSV()
	case "txt", "text":
		return d.printText()
	case "table":
		fallthrough
	default:
		return d.printTable()
	}
}

func (d OutputData) printJSONPretty() error {
	rawJSON, err := json.Marshal(d.Raw)
	if err != nil {
		return err
	}
	var obj any
	if err := json.Unmarshal(rawJSON, &obj); err != nil {
		return err
	}

	f := colorjson.NewFormatter()
	f.Indent = 2
	b, err := f.Marshal(obj)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func (d OutputData) printJSON() error {
	b, err := json.Marshal(d.Raw)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func (d OutputData) printYAML() error {
	b, err := yaml.Marshal(d.Raw)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func (d OutputData) printCSV() error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(d.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(d.Rows); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func (d OutputData) printText() error {
	theme := CurrentTheme()
	if d.Title != "" {
		fmt.Println(TitleStyle(theme).Render(d.Title))
	}
	for _, row := range d.Rows {
		for i, val := range row {
			if i < len(d.Headers) {
				fmt.Printf("%s %s\n", LabelStyle(theme).Render(d.Headers[i]+":"), ValueStyle(theme).Render(val))
			}
		}
		fmt.Println()
	}
	return nil
}

func (d OutputData) printTable() error {
	if d.Title != "" {
		fmt.Println(TitleStyle(CurrentTheme()).Render(d.Title))
	}
	if len(d.Rows) == 0 {
		fmt.Println(MutedStyle(CurrentTheme()).Render("Nothing to show."))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(d.Headers)
	table.Bulk(d.Rows)
	return table.Render()
}

// SummaryItem is one labelled line of RenderSummary output.
type SummaryItem struct{ Label, Value string }

// RenderSummary renders a list of key-value pairs
func RenderSummary(title string, items []SummaryItem) {
	theme := CurrentTheme()
	if title != "" {
		fmt.Println(TitleStyle(theme).Render(title))
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle(theme).Render(item.Label+":"), ValueStyle(theme).Render(item.Value)))
	}
	fmt.Println(b.String())
}

package iconpicker

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/ui"
)

const (
	columns     = 8
	suggestions = columns
	maxResults  = 4 * columns
)

// Picker chooses the sidebar icon of one library entry. Typing searches the
// icon set; text with no match is taken as a literal icon.
type Picker struct {
	entry     string
	current   string
	set       Set
	query     textinput.Model
	suggested []Icon
	shown     []Icon
	cursor    int

	// Icon is the choice once Picked is set. An empty Icon resets the entry
	// to the default.
	Icon   string
	Picked bool
}

// New opens a picker for e. current is the icon e has now.
func New(e library.Entry, iconType config.IconType, current string) *Picker {
	q := textinput.New()
	q.Placeholder = "search or paste an icon"
	q.CharLimit = 32
	q.Focus()

	p := &Picker{
		entry:   e.Name,
		current: current,
		set:     SetFor(iconType),
		query:   q,
	}
	p.suggested = p.set.Suggest(e, suggestions)
	p.refresh()
	return p
}

func (p *Picker) Init() tea.Cmd { return textinput.Blink }

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			p.pick()
			return p, nil
		case "ctrl+x":
			p.Icon, p.Picked = "", true
			return p, nil
		case "left":
			p.move(-1)
			return p, nil
		case "right":
			p.move(1)
			return p, nil
		case "up":
			p.move(-columns)
			return p, nil
		case "down":
			p.move(columns)
			return p, nil
		}
	}

	before := p.query.Value()
	var cmd tea.Cmd
	p.query, cmd = p.query.Update(msg)
	if p.query.Value() != before {
		p.refresh()
	}
	return p, cmd
}

// Highlighted returns the icon under the cursor.
func (p *Picker) Highlighted() (Icon, bool) {
	if p.cursor < len(p.shown) {
		return p.shown[p.cursor], true
	}
	return Icon{}, false
}

func (p *Picker) refresh() {
	p.cursor = 0
	if q := strings.TrimSpace(p.query.Value()); q != "" {
		p.shown = p.set.Find(q, maxResults)
		return
	}
	p.shown = append([]Icon(nil), p.suggested...)
	for _, icon := range p.set.Common {
		if !containsGlyph(p.shown, icon.Glyph) {
			p.shown = append(p.shown, icon)
		}
	}
}

func (p *Picker) move(delta int) {
	next := p.cursor + delta
	if next >= 0 && next < len(p.shown) {
		p.cursor = next
	}
}

func (p *Picker) pick() {
	if icon, ok := p.Highlighted(); ok {
		p.Icon, p.Picked = icon.Glyph, true
		return
	}
	if literal := strings.TrimSpace(p.query.Value()); literal != "" {
		p.Icon, p.Picked = literal, true
	}
}

func containsGlyph(icons []Icon, glyph string) bool {
	for _, i := range icons {
		if i.Glyph == glyph {
			return true
		}
	}
	return false
}

func (p *Picker) View() string {
	theme := ui.GetLayout().Theme()
	accent := ui.Accent(theme)
	title := lipgloss.NewStyle().Foreground(accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	current := p.current
	if current == "" {
		current = "default"
	}
	lines := []string{
		title.Render("Icon for " + p.entry),
		dim.Render("current: " + current),
		"",
		p.query.View(),
		"",
	}

	if len(p.shown) == 0 {
		lines = append(lines, " no match, enter uses the text as typed")
	} else {
		var rows []string
		for start := 0; start < len(p.shown); start += columns {
			var cells []string
			for i := start; i < min(start+columns, len(p.shown)); i++ {
				cell := lipgloss.NewStyle().Padding(0, 1)
				if i == p.cursor {
					cell = cell.Background(accent).Foreground(lipgloss.Color("230")).Bold(true)
				}
				cells = append(cells, cell.Render(p.shown[i].Glyph))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
		lines = append(lines, rows...)
		if icon, ok := p.Highlighted(); ok {
			lines = append(lines, "", ui.AccentStyle(theme).Render(icon.Name))
		}
	}

	lines = append(lines, dim.MarginTop(1).Render("arrows: move | enter: select | ctrl+x: reset | esc: cancel"))
	return lipgloss.NewStyle().Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

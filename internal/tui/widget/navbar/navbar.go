package navbar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kyokomi/emoji/v2"
	tint "github.com/lrstanley/bubbletint"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/ui"
)

type NavItem struct {
	ID    string
	Title string
	Type  string
}

type NavSection struct {
	Title string
	Items []NavItem
}

type Navbar struct {
	sections      []NavSection
	activeFlatIdx int
	theme         tint.Tint
	Width         int
	Height        int
	iconType      config.IconType
	nameFormat    config.NameFormat
	customIcons   map[string]string
	loadedID      string
}

func NewNavbar(sections []NavSection, theme tint.Tint) *Navbar {
	cfg := config.Get()

	iconType := cfg.IconType
	if iconType == "" {
		iconType = config.IconTypeEmoji
	}

	nameFormat := cfg.NameFormat
	if nameFormat == "" {
		nameFormat = config.NameFormatIconName
	}

	return &Navbar{
		sections:    sections,
		theme:       theme,
		iconType:    iconType,
		nameFormat:  nameFormat,
		customIcons: make(map[string]string),
		Width:       ui.SidebarWidth,
	}
}

// Len is the number of selectable items.
func (n *Navbar) Len() int {
	count := 0
	for _, s := range n.sections {
		count += len(s.Items)
	}
	return count
}

func (n *Navbar) SetActive(index int) {
	n.activeFlatIdx = index
}

// SetLoaded highlights the item with id as the loaded animation.
func (n *Navbar) SetLoaded(id string) {
	n.loadedID = id
}

func (n *Navbar) SetCustomIcons(icons map[string]string) {
	n.customIcons = icons
}

func (n *Navbar) Init() tea.Cmd {
	return nil
}

func (n *Navbar) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.ThemeChangedMsg:
		n.theme = msg.Theme
	}
	return n, nil
}

func (n *Navbar) View() string {
	accent := ui.Accent(n.theme)

	logoStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Margin(1, 0, 0, 2)

	header := []string{
		logoStyle.Render("\U000F05D8 ANIMCTL"),
		lipgloss.NewStyle().
			Foreground(n.theme.BrightBlack()).
			Margin(0, 0, 1, 2).
			Render(strings.Repeat("─", max(n.Width-4, 0))),
	}

	baseStyle := lipgloss.NewStyle().
		Width(n.Width-3).
		Padding(0, 1)

	activeStyle := baseStyle.
		Foreground(accent).
		Bold(true).
		Background(lipgloss.Color("234")).
		Border(lipgloss.Border{Left: "┃"}, false, false, false, true).
		BorderForeground(accent)

	loadedStyle := baseStyle.Foreground(n.theme.BrightGreen())

	sectionHeaderStyle := lipgloss.NewStyle().
		Foreground(n.theme.BrightBlack()).
		Bold(true).
		Margin(1, 0, 0, 1)

	var lines []string
	activeLine := 0
	flatIdx := 0
	for _, section := range n.sections {
		if section.Title != "" {
			lines = append(lines, sectionHeaderStyle.Render(" "+strings.ToUpper(section.Title)))
		}

		for _, item := range section.Items {
			content := n.formatItem(item)
			switch {
			case flatIdx == n.activeFlatIdx:
				activeLine = len(lines)
				lines = append(lines, activeStyle.Render(content))
			case item.ID != "" && item.ID == n.loadedID:
				lines = append(lines, loadedStyle.Render(content))
			default:
				lines = append(lines, baseStyle.Render(content))
			}
			flatIdx++
		}
	}

	// Keep the active item in view when the list is taller than the bar.
	if room := n.Height - lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, header...)); room > 0 {
		lines = scrollWindow(lines, activeLine, room)
	}

	sidebarContent := lipgloss.JoinVertical(lipgloss.Left, append(header, lines...)...)

	return lipgloss.NewStyle().
		Width(n.Width).
		Height(n.Height).
		MaxHeight(n.Height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(n.theme.BrightBlack()).
		Render(sidebarContent)
}

// scrollWindow returns the rows of lines, by rendered height, that fit in
// room while containing lines[active].
func scrollWindow(lines []string, active, room int) []string {
	total := 0
	for _, l := range lines {
		total += lipgloss.Height(l)
	}
	if total <= room {
		return lines
	}
	start, used := active, 0
	for start >= 0 && used+lipgloss.Height(lines[start]) <= room {
		used += lipgloss.Height(lines[start])
		start--
	}
	start++
	end := active + 1
	for end < len(lines) && used+lipgloss.Height(lines[end]) <= room {
		used += lipgloss.Height(lines[end])
		end++
	}
	return lines[start:end]
}

func (n *Navbar) formatItem(item NavItem) string {
	icon := n.getIcon(item)
	name := ui.Ellipsis(item.Title, n.Width-8)

	switch n.nameFormat {
	case config.NameFormatIconOnly:
		return icon
	case config.NameFormatIconName:
		return fmt.Sprintf("%s %s", icon, name)
	case config.NameFormatNameIcon:
		return fmt.Sprintf("%s %s", name, icon)
	case config.NameFormatName:
		return ui.Ellipsis(name, n.Width-5)
	default:
		return fmt.Sprintf("%s %s", icon, name)
	}
}

func (n *Navbar) getIcon(item NavItem) string {
	if custom, ok := n.customIcons[item.ID]; ok && custom != "" {
		return emoji.Sprint(custom)
	}

	switch n.iconType {
	case config.IconTypeASCII:
		return n.getAsciiIcon(item.Type)
	case config.IconTypeNerdFonts:
		return n.getNerdFontIcon(item.Type)
	case config.IconTypeEmoji:
		fallthrough
	default:
		return emoji.Sprint(n.getEmojiIcon(item.Type))
	}
}

func (n *Navbar) getEmojiIcon(itemType string) string {
	switch itemType {
	case "stage":
		return "🎬"
	case "markers":
		return "🔖"
	case "library":
		return "📚"
	case "animation":
		return "✨"
	case "broken":
		return "⚠"
	default:
		return "📁"
	}
}

func (n *Navbar) getAsciiIcon(itemType string) string {
	switch itemType {
	case "stage":
		return ">"
	case "markers":
		return "#"
	case "library":
		return "L"
	case "animation":
		return "*"
	case "broken":
		return "!"
	default:
		return "D"
	}
}

func (n *Navbar) getNerdFontIcon(itemType string) string {
	switch itemType {
	case "stage":
		return "\U000F040A"
	case "markers":
		return "\U000F00C0"
	case "library":
		return "\U000F0331"
	case "animation":
		return "\U000F05D8"
	case "broken":
		return "\U000F0026"
	default:
		return "\U000F024B"
	}
}

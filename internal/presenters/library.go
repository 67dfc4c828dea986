package presenters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/ui"
)

// LibraryListPresenter formats the library index
type LibraryListPresenter struct {
	Root    string
	Entries []library.Entry
}

func (p *LibraryListPresenter) Title() string {
	return fmt.Sprintf("Animations in %s", p.Root)
}

func (p *LibraryListPresenter) Headers() []string {
	return []string{"NAME", "DURATION", "SIZE", "LAYERS", "MARKERS", "STATUS"}
}

func (p *LibraryListPresenter) Rows() [][]string {
	return lo.Map(p.Entries, func(e library.Entry, _ int) []string {
		if e.Broken() {
			return []string{e.Name, "", "", "", "", "error: " + e.Error}
		}
		return []string{
			e.Name,
			ui.FormatDuration(e.Duration),
			fmt.Sprintf("%gx%g", e.Width, e.Height),
			fmt.Sprintf("%d/%d", e.Animated, e.Layers),
			strings.Join(e.Markers, ","),
			"ok",
		}
	})
}

func (p *LibraryListPresenter) Raw() any {
	return p.Entries
}

func (p *LibraryListPresenter) SortableColumns() []string {
	return []string{"name", "duration", "layers"}
}

func (p *LibraryListPresenter) SortBy(column string) bool {
	switch strings.ToLower(column) {
	case "name":
		sort.SliceStable(p.Entries, func(i, j int) bool {
			return strings.ToLower(p.Entries[i].Name) < strings.ToLower(p.Entries[j].Name)
		})
	case "duration":
		sort.SliceStable(p.Entries, func(i, j int) bool {
			return p.Entries[i].Duration < p.Entries[j].Duration
		})
	case "layers":
		sort.SliceStable(p.Entries, func(i, j int) bool {
			return p.Entries[i].Layers < p.Entries[j].Layers
		})
	default:
		return false
	}
	return true
}

func (p *LibraryListPresenter) DefaultSort() string {
	return "name"
}

package presenters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ygelfand/animctl/internal/animation"
)

// LayerRow is the flat view of one layer.
type LayerRow struct {
	Name     string   `json:"name" yaml:"name"`
	Shape    string   `json:"shape" yaml:"shape"`
	Color    string   `json:"color" yaml:"color"`
	Animated []string `json:"animated,omitempty" yaml:"animated,omitempty"`
}

// DocumentPresenter formats the layers of one animation document
type DocumentPresenter struct {
	Doc  *animation.Document
	rows []LayerRow
}

func NewDocumentPresenter(doc *animation.Document) *DocumentPresenter {
	p := &DocumentPresenter{Doc: doc}
	for i, l := range doc.Layers {
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		p.rows = append(p.rows, LayerRow{
			Name:     name,
			Shape:    string(l.Shape),
			Color:    l.Color,
			Animated: l.AnimatedTracks(),
		})
	}
	return p
}

func (p *DocumentPresenter) Title() string {
	return fmt.Sprintf("%s (%s, %gx%g)", p.Doc.Name, p.Doc.Duration, p.Doc.Canvas.Width, p.Doc.Canvas.Height)
}

func (p *DocumentPresenter) Headers() []string {
	return []string{"LAYER", "SHAPE", "COLOR", "ANIMATED"}
}

func (p *DocumentPresenter) Rows() [][]string {
	rows := make([][]string, 0, len(p.rows))
	for _, r := range p.rows {
		rows = append(rows, []string{r.Name, r.Shape, r.Color, strings.Join(r.Animated, ",")})
	}
	return rows
}

func (p *DocumentPresenter) Raw() any {
	return struct {
		animation.Summary `yaml:",inline"`
		Description       string     `json:"description,omitempty" yaml:"description,omitempty"`
		LayerRows         []LayerRow `json:"layer_details" yaml:"layer_details"`
	}{p.Doc.Summary(), p.Doc.Description, p.rows}
}

func (p *DocumentPresenter) SortableColumns() []string {
	return []string{"layer", "shape"}
}

func (p *DocumentPresenter) SortBy(column string) bool {
	switch strings.ToLower(column) {
	case "layer":
		sort.SliceStable(p.rows, func(i, j int) bool { return p.rows[i].Name < p.rows[j].Name })
	case "shape":
		sort.SliceStable(p.rows, func(i, j int) bool { return p.rows[i].Shape < p.rows[j].Shape })
	default:
		return false
	}
	return true
}

// DefaultSort keeps draw order.
func (p *DocumentPresenter) DefaultSort() string {
	return ""
}

// MarkerPresenter formats the named segments of a document
type MarkerPresenter struct {
	Doc *animation.Document
}

func (p *MarkerPresenter) Title() string { return fmt.Sprintf("Markers of %s", p.Doc.Name) }

func (p *MarkerPresenter) Headers() []string { return []string{"MARKER", "FROM", "TO"} }

func (p *MarkerPresenter) Rows() [][]string {
	var rows [][]string
	for _, name := range p.Doc.MarkerNames() {
		seg := p.Doc.Markers[name]
		rows = append(rows, []string{name, fmt.Sprintf("%.3f", seg.From), fmt.Sprintf("%.3f", seg.To)})
	}
	return rows
}

func (p *MarkerPresenter) Raw() any                  { return p.Doc.Markers }
func (p *MarkerPresenter) SortableColumns() []string { return nil }
func (p *MarkerPresenter) SortBy(column string) bool { return false }
func (p *MarkerPresenter) DefaultSort() string       { return "" }

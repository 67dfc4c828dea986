package iconpicker

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kyokomi/emoji/v2"
	"github.com/sahilm/fuzzy"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
)

// Icon is one glyph with the name it is searched by.
type Icon struct {
	Glyph string
	Name  string
}

// Set holds every icon of one icon type. Common is offered before anything
// is typed.
type Set struct {
	Type   config.IconType
	All    []Icon
	Common []Icon
}

func (s Set) String(i int) string { return s.All[i].Name }
func (s Set) Len() int            { return len(s.All) }

// SetFor returns the icons of t, falling back to emoji.
func SetFor(t config.IconType) Set {
	switch t {
	case config.IconTypeASCII:
		return Set{Type: t, All: asciiIcons, Common: asciiIcons}
	case config.IconTypeNerdFonts:
		return nerdSet()
	}
	return emojiSet()
}

// Find returns at most limit icons whose names fuzzy match query.
func (s Set) Find(query string, limit int) []Icon {
	var out []Icon
	for i, m := range fuzzy.FindFrom(query, s) {
		if limit > 0 && i >= limit {
			break
		}
		out = append(out, s.All[m.Index])
	}
	return out
}

// Suggest picks icons for an entry from the words of its name and its
// markers, then from whether it moves at all.
func (s Set) Suggest(e library.Entry, limit int) []Icon {
	terms := words(e.Name)
	for _, m := range e.Markers {
		terms = append(terms, words(m)...)
	}
	if e.Animated > 0 {
		terms = append(terms, "animation", "repeat")
	} else {
		terms = append(terms, "image")
	}

	var out []Icon
	seen := map[string]bool{}
	for _, t := range terms {
		if len(out) >= limit {
			break
		}
		for _, icon := range s.Find(t, 1) {
			if !seen[icon.Glyph] {
				seen[icon.Glyph] = true
				out = append(out, icon)
			}
		}
	}
	return out
}

// words splits snake, kebab and spaced names. Fragments shorter than three
// letters match too much to be useful.
func words(name string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(w) >= 3 {
			out = append(out, w)
		}
	}
	return out
}

var emojiCommon = []string{
	":sparkles:", ":dizzy:", ":star:", ":star2:", ":comet:", ":rocket:",
	":art:", ":rainbow:", ":fire:", ":zap:", ":droplet:", ":ocean:",
	":red_circle:", ":large_blue_circle:", ":black_large_square:", ":small_red_triangle:",
	":repeat:", ":arrows_counterclockwise:", ":hourglass:", ":stopwatch:",
	":clapper:", ":film_frames:", ":books:", ":heart:",
}

func emojiSet() Set {
	s := Set{Type: config.IconTypeEmoji}
	byCode := map[string]Icon{}
	for code, glyph := range emoji.CodeMap() {
		icon := Icon{Glyph: strings.TrimSpace(glyph), Name: strings.ReplaceAll(strings.Trim(code, ":"), "_", " ")}
		byCode[code] = icon
		s.All = append(s.All, icon)
	}
	sort.Slice(s.All, func(i, j int) bool { return s.All[i].Name < s.All[j].Name })
	for _, code := range emojiCommon {
		if icon, ok := byCode[code]; ok {
			s.Common = append(s.Common, icon)
		}
	}
	return s
}

// nerdGlyphs is the Material Design subset of Nerd Fonts that suits
// animations.
var nerdGlyphs = map[string]string{
	"animation":    "\U000F05D8",
	"bookmark":     "\U000F00C0",
	"camera":       "\U000F0100",
	"circle":       "\U000F0765",
	"clock":        "\U000F0954",
	"cloud":        "\U000F015F",
	"cog":          "\U000F0493",
	"eye":          "\U000F0208",
	"fire":         "\U000F0238",
	"folder":       "\U000F024B",
	"ghost":        "\U000F02A0",
	"heart":        "\U000F02D1",
	"history":      "\U000F02DA",
	"home":         "\U000F02DC",
	"image":        "\U000F02E9",
	"library":      "\U000F0331",
	"magnify":      "\U000F0349",
	"movie":        "\U000F0381",
	"music":        "\U000F075A",
	"palette":      "\U000F03D8",
	"pause":        "\U000F03E4",
	"play":         "\U000F040A",
	"repeat":       "\U000F0456",
	"rocket":       "\U000F0463",
	"shape":        "\U000F0831",
	"square":       "\U000F0764",
	"star":         "\U000F04CE",
	"stop":         "\U000F04DB",
	"triangle":     "\U000F0536",
	"vector curve": "\U000F0559",
}

var nerdCommon = []string{
	"animation", "play", "repeat", "shape", "circle", "square", "triangle",
	"vector curve", "palette", "star", "heart", "fire", "rocket", "ghost",
	"clock", "bookmark", "folder", "library", "image", "movie",
}

func nerdSet() Set {
	s := Set{Type: config.IconTypeNerdFonts}
	for name, glyph := range nerdGlyphs {
		s.All = append(s.All, Icon{Glyph: glyph, Name: name})
	}
	sort.Slice(s.All, func(i, j int) bool { return s.All[i].Name < s.All[j].Name })
	for _, name := range nerdCommon {
		s.Common = append(s.Common, Icon{Glyph: nerdGlyphs[name], Name: name})
	}
	return s
}

var asciiIcons = []Icon{
	{"▷", "play"}, {"▹", "small play"}, {"↻", "loop repeat"}, {"∿", "wave curve"},
	{"○", "circle"}, {"●", "full circle"}, {"□", "square"}, {"■", "full square"},
	{"△", "triangle"}, {"◇", "diamond"}, {"•", "bullet"}, {"‣", "triangle bullet"},
	{"*", "star"}, {"+", "plus"}, {"~", "tilde"}, {"^", "caret"}, {"#", "hash"},
	{">", "greater"}, {"<", "less"}, {"=", "equal"}, {"|", "pipe"}, {"/", "slash"},
	{"A", "animation"}, {"I", "image"}, {"L", "library"}, {"K", "markers"},
}

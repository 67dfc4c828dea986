package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	tint "github.com/lrstanley/bubbletint"
)

type HelpKey struct {
	Key  string
	Desc string
}

// HelpGroup is a titled block of keys in the help overlay.
type HelpGroup struct {
	Title string
	Keys  []HelpKey
}

type HelpProvider interface {
	HelpKeys() []HelpKey
}

type ThemeChangedMsg struct {
	Theme tint.Tint
}

func (m ThemeChangedMsg) GetTheme() tint.Tint {
	return m.Theme
}

// SelectAnimationMsg asks the TUI to load the library entry at Path,
// playing it once when Play is set.
type SelectAnimationMsg struct {
	Name string
	Path string
	Play bool
}

// RequestPlayMsg asks the TUI to play a range, or a marker when Segment
// is set.
type RequestPlayMsg struct {
	From    float64
	To      float64
	Looped  bool
	Segment string
}

type RootChecker interface {
	IsAtRoot() bool
}

// AnnotationSkipLibrary marks commands that do not need the library index.
const AnnotationSkipLibrary = "skip_library"

type Refreshable interface {
	Refresh() tea.Cmd
}

func Ptr[T any](v T) *T {
	return &v
}

func PtrTo[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tint "github.com/lrstanley/bubbletint"
)

const (
	// Sidebar
	SidebarWidth      = 25
	SidebarBorder     = 1
	SidebarTotalWidth = SidebarWidth + SidebarBorder

	// 1 border char per side (2) + 1 padding char per side (2) = 4
	MainOverhead = 4

	// Player bar: border(2) + status line + progress line
	PlayerBarHeight = 4

	// Frames narrower than this are not worth rendering.
	MinFrameWidth = 8
)

type LayoutManager struct {
	mu           sync.RWMutex
	totalWidth   int
	totalHeight  int
	playerActive bool
	theme        tint.Tint
}

var (
	layoutInstance *LayoutManager
	layoutOnce     sync.Once
)

func GetLayout() *LayoutManager {
	layoutOnce.Do(func() {
		layoutInstance = &LayoutManager{
			theme: AnimctlTheme,
		}
	})
	return layoutInstance
}

func (l *LayoutManager) Update(width, height int, playerActive bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalWidth = width
	l.totalHeight = height
	l.playerActive = playerActive
}

func (l *LayoutManager) SetTheme(t tint.Tint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.theme = t
}

func (l *LayoutManager) Theme() tint.Tint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return AnimctlTheme
	}
	return l.theme
}

func (l *LayoutManager) TotalWidth() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalWidth
}

func (l *LayoutManager) TotalHeight() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalHeight
}

// InnerWidth returns the usable width inside the main container.
func (l *LayoutManager) InnerWidth() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return max(l.totalWidth-SidebarTotalWidth-MainOverhead, 0)
}

// ContentHeight returns the rows available to the main area.
func (l *LayoutManager) ContentHeight() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	// -2 for main container borders, -1 for footer
	h := max(l.totalHeight-3, 0)
	if l.playerActive {
		h -= PlayerBarHeight
	}
	return max(h, 0)
}

// FrameWidth returns the widest frame, in cells, that fits the main area
// for a canvas of the given aspect ratio (width / height). Half-cell
// frames use one text row per two pixel rows.
func (l *LayoutManager) FrameWidth(aspect float64) int {
	w := l.InnerWidth()
	if aspect > 0 {
		byHeight := int(float64(l.ContentHeight()*2) * aspect)
		w = min(w, byHeight)
	}
	if w < MinFrameWidth {
		return 0
	}
	return w
}

// FormatDuration renders d as M:SS.t, or H:MM:SS for long durations.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= time.Hour {
		s := int(d / time.Second)
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s/60)%60, s%60)
	}
	tenths := int(d / (100 * time.Millisecond))
	return fmt.Sprintf("%d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}

// ProgressBar renders progress in [0,1] as a bar of width cells.
func ProgressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(progress*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

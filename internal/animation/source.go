package animation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/compositor"
	"github.com/ygelfand/animctl/internal/config"
)

// Diagnostics describes the last attempt to create a visual.
type Diagnostics struct {
	Source   string
	Hash     string
	Layers   int
	LoadTime time.Duration
	Err      error
}

// Source creates visuals. A nil Visual means creation failed; the
// Diagnostics say why.
type Source interface {
	CreateVisual(comp *compositor.Compositor) (*Visual, Diagnostics, error)
	String() string
}

// DynamicSource is a Source whose content can change after creation.
// Invalidated handlers run on an arbitrary goroutine.
type DynamicSource interface {
	Source
	OnInvalidated(fn func()) (cancel func())
}

// DocumentSource serves an already parsed document.
type DocumentSource struct {
	Doc *Document
}

func (s DocumentSource) CreateVisual(comp *compositor.Compositor) (*Visual, Diagnostics, error) {
	diag := Diagnostics{Source: s.String()}
	if s.Doc == nil {
		return nil, diag, nil
	}
	diag.Hash = s.Doc.Hash
	diag.Layers = len(s.Doc.Layers)
	return NewVisual(s.Doc, comp), diag, nil
}

func (s DocumentSource) String() string {
	if s.Doc == nil {
		return "document:<nil>"
	}
	return "document:" + s.Doc.Name
}

// FileSource loads a document from Fs on every CreateVisual.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

func NewFileSource(fs afero.Fs, path string) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSource{Fs: fs, Path: path}
}

func (s *FileSource) CreateVisual(comp *compositor.Compositor) (*Visual, Diagnostics, error) {
	start := time.Now()
	diag := Diagnostics{Source: s.String()}
	doc, err := Load(s.Fs, s.Path)
	diag.LoadTime = time.Since(start)
	if err != nil {
		diag.Err = err
		return nil, diag, err
	}
	diag.Hash = doc.Hash
	diag.Layers = len(doc.Layers)
	slog.Debug("Animation: loaded document", "path", s.Path, "layers", diag.Layers, "took", diag.LoadTime)
	return NewVisual(doc, comp), diag, nil
}

func (s *FileSource) String() string { return "file:" + s.Path }

// WatchedSource is a FileSource that reports changes to its file. Watching
// uses the OS filesystem regardless of Fs.
type WatchedSource struct {
	*FileSource

	debounce time.Duration

	mu       sync.Mutex
	handlers map[int]func()
	nextID   int
}

func NewWatchedSource(fs afero.Fs, path string) *WatchedSource {
	return &WatchedSource{
		FileSource: NewFileSource(fs, path),
		debounce:   100 * time.Millisecond,
		handlers:   make(map[int]func()),
	}
}

func (s *WatchedSource) OnInvalidated(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

func (s *WatchedSource) invalidate() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.handlers))
	for _, fn := range s.handlers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	slog.Debug("Animation: source invalidated", "path", s.Path, "handlers", len(fns))
	for _, fn := range fns {
		fn()
	}
}

// Watch blocks watching the file until ctx is done. Editors often replace
// files instead of writing them, so the parent directory is watched.
func (s *WatchedSource) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(s.Path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			slog.Log(ctx, config.LevelTrace, "Animation: file event", "op", ev.Op.String(), "path", ev.Name)
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			s.invalidate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Animation: watcher error", "path", s.Path, "error", err)
		}
	}
}

// Package library indexes the animation documents under the configured
// library directory.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"
	"github.com/ygelfand/animctl/internal/animation"
	"github.com/ygelfand/animctl/internal/cache"
	"github.com/ygelfand/animctl/internal/config"
)

var ErrNotFound = errors.New("animation not found in library")

type Entry struct {
	animation.Summary `yaml:",inline"`
	Description       string `json:"description,omitempty" yaml:"description,omitempty"`
	Error             string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Broken reports whether the file failed to parse.
func (e Entry) Broken() bool { return e.Error != "" }

type Index struct {
	Root        string    `json:"root"`
	LastIndexed time.Time `json:"lastIndexed"`
	Entries     []Entry   `json:"entries"`

	fs    afero.Fs
	cache *cache.Manager
	mu    sync.RWMutex
}

var (
	indexInstance *Index
	indexOnce     sync.Once
)

// GetIndex returns the index of the configured library, loaded from the
// cache when possible.
func GetIndex() *Index {
	indexOnce.Do(func() {
		cfg := config.Get()
		cm, err := cache.Get(cfg.CacheDir)
		if err != nil {
			slog.Warn("Library: cache unavailable", "error", err)
		}
		indexInstance = New(afero.NewOsFs(), cfg.LibraryDir, cm)
		if err := indexInstance.Load(); err != nil {
			slog.Debug("Library: no cached index", "error", err)
		}
	})
	return indexInstance
}

// New creates an empty index of root. cm may be nil.
func New(fsys afero.Fs, root string, cm *cache.Manager) *Index {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Index{Root: root, fs: fsys, cache: cm}
}

func (idx *Index) cacheKey() string {
	return fmt.Sprintf("library_index/%s", idx.Root)
}

func (idx *Index) Load() error {
	if idx.cache == nil {
		return fmt.Errorf("no index found")
	}
	var data Index
	if err := idx.cache.Get(idx.cacheKey(), &data); err != nil {
		return fmt.Errorf("no index found: %w", err)
	}
	idx.mu.Lock()
	idx.LastIndexed = data.LastIndexed
	idx.Entries = data.Entries
	idx.mu.Unlock()
	return nil
}

func (idx *Index) Save() error {
	if idx.cache == nil {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.cache.Set(idx.cacheKey(), idx, 0)
}

type Progress struct {
	Current int
	Total   int
	Message string
}

// IsDocument reports whether path looks like an animation document.
func IsDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Reindex walks the library directory and summarizes every document.
// Files that fail to parse are kept with their error. progress may be nil.
func (idx *Index) Reindex(ctx context.Context, progress chan<- Progress) error {
	var paths []string
	err := afero.Walk(idx.fs, idx.Root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != idx.Root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsDocument(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan library %s: %w", idx.Root, err)
	}

	entries := make([]Entry, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, _ := filepath.Rel(idx.Root, path)
		if progress != nil {
			progress <- Progress{Current: i + 1, Total: len(paths), Message: rel}
		}

		doc, err := animation.Load(idx.fs, path)
		if err != nil {
			slog.Warn("Library: failed to load document", "path", path, "error", err)
			entries = append(entries, Entry{
				Summary: animation.Summary{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), Path: path},
				Error:   err.Error(),
			})
			continue
		}
		slog.Log(ctx, config.LevelTrace, "Library: indexed", "path", path, "name", doc.Name, "layers", len(doc.Layers))
		entries = append(entries, Entry{Summary: doc.Summary(), Description: doc.Description})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	idx.mu.Lock()
	idx.Entries = entries
	idx.LastIndexed = time.Now()
	idx.mu.Unlock()

	slog.Debug("Library: reindex complete", "root", idx.Root, "entries", len(entries))
	return idx.Save()
}

// Indexed returns when the library was last indexed.
func (idx *Index) Indexed() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.LastIndexed
}

// List returns a copy of the indexed entries.
func (idx *Index) List() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]Entry(nil), idx.Entries...)
}

// Find resolves an entry by exact name, then by path relative to the
// library root.
func (idx *Index) Find(name string) (Entry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, e := range idx.Entries {
		if e.Name == name {
			return e, nil
		}
	}
	for _, e := range idx.Entries {
		rel, err := filepath.Rel(idx.Root, e.Path)
		if err == nil && (rel == name || strings.TrimSuffix(rel, filepath.Ext(rel)) == name) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Search fuzzy matches query against entry names, best match first.
func (idx *Index) Search(query string, limit int) []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	matches := fuzzy.FindFrom(query, entrySource(idx.Entries))
	var out []Entry
	for i, m := range matches {
		if limit > 0 && i >= limit {
			break
		}
		out = append(out, idx.Entries[m.Index])
	}
	return out
}

type entrySource []Entry

func (s entrySource) String(i int) string { return s[i].Name }
func (s entrySource) Len() int            { return len(s) }

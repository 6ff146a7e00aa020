// Package library is the file-system collaborator: it owns the upload root,
// lists audio files and playlist folders, and hands the evaluator immutable
// per-folder snapshots. The engine never scans the disk itself.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
}

// Folder is one playlist folder beneath the root.
type Folder struct {
	Path       string `json:"path"`
	TrackCount int    `json:"track_count"`
}

// Library caches folder snapshots and invalidates them on fsnotify events.
type Library struct {
	root string

	mu    sync.RWMutex
	cache map[string][]string

	watcher *fsnotify.Watcher
}

func New(root string) *Library {
	return &Library{
		root:  root,
		cache: make(map[string][]string),
	}
}

// resolve maps a caller-supplied folder path onto the root, refusing paths
// that escape it.
func (l *Library) resolve(folder string) (string, error) {
	rel := filepath.Clean("/" + folder)
	full := filepath.Join(l.root, rel)
	if full != l.root && !strings.HasPrefix(full, l.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("folder %q escapes library root", folder)
	}
	return full, nil
}

// Snapshot returns the sorted audio track listing of a folder. Results are
// cached until the watcher sees the folder change. A missing folder is an
// error; an empty folder is an empty snapshot.
func (l *Library) Snapshot(folder string) ([]string, error) {
	l.mu.RLock()
	cached, ok := l.cache[folder]
	l.mu.RUnlock()
	if ok {
		return append([]string(nil), cached...), nil
	}

	full, err := l.resolve(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("read folder %q: %w", folder, err)
	}

	tracks := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			tracks = append(tracks, e.Name())
		}
	}
	sort.Strings(tracks)

	l.mu.Lock()
	l.cache[folder] = tracks
	l.mu.Unlock()
	return append([]string(nil), tracks...), nil
}

// ListFiles returns the audio files directly under the root.
func (l *Library) ListFiles() ([]string, error) {
	return l.Snapshot(".")
}

// ListFolders returns the playlist folders beneath the root with their track
// counts.
func (l *Library) ListFolders() ([]Folder, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read library root: %w", err)
	}
	out := make([]Folder, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tracks, err := l.Snapshot(e.Name())
		if err != nil {
			log.Warn().Err(err).Str("folder", e.Name()).Msg("skipping unreadable folder")
			continue
		}
		out = append(out, Folder{Path: e.Name(), TrackCount: len(tracks)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Invalidate drops a cached snapshot; the next Snapshot call rescans.
func (l *Library) Invalidate(folder string) {
	l.mu.Lock()
	delete(l.cache, folder)
	l.mu.Unlock()
}

// Watch starts an fsnotify watcher over the root and its folders and drops
// cache entries as files change, so snapshots track the disk without a rescan
// per tick. Blocks until the watcher fails or Close is called.
func (l *Library) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start library watcher: %w", err)
	}
	l.watcher = watcher

	if err := watcher.Add(l.root); err != nil {
		return fmt.Errorf("watch library root: %w", err)
	}
	entries, err := os.ReadDir(l.root)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				// ignore per-folder errors: a vanished folder just stops mattering
				_ = watcher.Add(filepath.Join(l.root, e.Name()))
			}
		}
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			l.handleEvent(ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("library watcher error")
		}
	}
}

func (l *Library) handleEvent(ev fsnotify.Event) {
	rel, err := filepath.Rel(l.root, ev.Name)
	if err != nil {
		return
	}
	dir := filepath.Dir(rel)
	l.Invalidate(dir)
	if dir == "." {
		l.Invalidate(filepath.Base(rel))
	}
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = l.watcher.Add(ev.Name)
		}
	}
	log.Debug().Str("path", rel).Str("op", ev.Op.String()).Msg("library changed")
}

func (l *Library) Close() {
	if l.watcher != nil {
		_ = l.watcher.Close()
	}
}

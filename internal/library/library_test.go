package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallister/belfry/internal/library"
)

func writeFile(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestSnapshotSortsAndFiltersAudio(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "morning", "b.mp3")
	writeFile(t, root, "morning", "a.WAV")
	writeFile(t, root, "morning", "c.ogg")
	writeFile(t, root, "morning", "notes.txt")
	writeFile(t, root, "morning", "cover.jpg")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "morning", "nested"), 0o755))

	lib := library.New(root)
	got, err := lib.Snapshot("morning")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.WAV", "b.mp3", "c.ogg"}, got)
}

func TestSnapshotMissingFolderErrors(t *testing.T) {
	lib := library.New(t.TempDir())
	_, err := lib.Snapshot("gone")
	assert.Error(t, err)
}

func TestSnapshotEmptyFolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "quiet"), 0o755))

	lib := library.New(root)
	got, err := lib.Snapshot("quiet")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSnapshotConfinesPathsToRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "library")
	writeFile(t, root, "morning", "a.mp3")
	writeFile(t, parent, "outside", "secret.mp3")

	lib := library.New(root)

	// traversal is clamped to the root, so a sibling directory is unreachable
	_, err := lib.Snapshot("../outside")
	assert.Error(t, err)

	got, err := lib.Snapshot("../morning")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, got)
}

func TestSnapshotCachesUntilInvalidated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "morning", "a.mp3")

	lib := library.New(root)
	first, err := lib.Snapshot("morning")
	require.NoError(t, err)
	require.Equal(t, []string{"a.mp3"}, first)

	writeFile(t, root, "morning", "b.mp3")

	cached, err := lib.Snapshot("morning")
	require.NoError(t, err)
	assert.Equal(t, first, cached, "stale until invalidated")

	lib.Invalidate("morning")
	fresh, err := lib.Snapshot("morning")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, fresh)
}

func TestListFilesReturnsRootAudio(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bell.mp3")
	writeFile(t, root, "readme.md")
	writeFile(t, root, "morning", "a.mp3")

	lib := library.New(root)
	got, err := lib.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"bell.mp3"}, got)
}

func TestListFoldersWithTrackCounts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "morning", "a.mp3")
	writeFile(t, root, "morning", "b.mp3")
	writeFile(t, root, "evening", "x.flac")
	writeFile(t, root, "loose.mp3")

	lib := library.New(root)
	got, err := lib.ListFolders()
	require.NoError(t, err)
	assert.Equal(t, []library.Folder{
		{Path: "evening", TrackCount: 1},
		{Path: "morning", TrackCount: 2},
	}, got)
}

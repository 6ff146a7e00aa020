package engine_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/model"
)

func tracks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("track-%02d.mp3", i)
	}
	return out
}

func intp(v int) *int { return &v }

func TestExpandPlaylistOrderedTruncation(t *testing.T) {
	folder := tracks(20)
	got := engine.ExpandPlaylist(folder, model.PlaylistConfig{MaxTracks: intp(5)}, nil)
	assert.Equal(t, folder[:5], got)
}

func TestExpandPlaylistDurationCap(t *testing.T) {
	// 10 minutes at 2 minutes per track admits at most 5 tracks
	cfg := model.PlaylistConfig{DurationCap: intp(10), TrackInterval: 120}
	got := engine.ExpandPlaylist(tracks(20), cfg, nil)
	assert.Len(t, got, 5)
}

func TestExpandPlaylistBothCapsTighterWins(t *testing.T) {
	folder := tracks(20)

	cfg := model.PlaylistConfig{DurationCap: intp(10), TrackInterval: 120, MaxTracks: intp(3)}
	assert.Len(t, engine.ExpandPlaylist(folder, cfg, nil), 3)

	cfg = model.PlaylistConfig{DurationCap: intp(4), TrackInterval: 120, MaxTracks: intp(10)}
	assert.Len(t, engine.ExpandPlaylist(folder, cfg, nil), 2)
}

func TestExpandPlaylistNoCapsReturnsEverything(t *testing.T) {
	folder := tracks(7)
	got := engine.ExpandPlaylist(folder, model.PlaylistConfig{TrackInterval: 30}, nil)
	assert.Equal(t, folder, got)
}

func TestExpandPlaylistZeroIntervalIgnoresDurationCap(t *testing.T) {
	// without a per-track estimate the duration cap cannot bind
	cfg := model.PlaylistConfig{DurationCap: intp(1), TrackInterval: 0}
	got := engine.ExpandPlaylist(tracks(8), cfg, nil)
	assert.Len(t, got, 8)
}

func TestExpandPlaylistShuffleIsPermutation(t *testing.T) {
	folder := tracks(30)
	rng := rand.New(rand.NewSource(42))

	got := engine.ExpandPlaylist(folder, model.PlaylistConfig{Shuffle: true}, rng)
	require.Len(t, got, len(folder))

	sorted := append([]string(nil), got...)
	sort.Strings(sorted)
	assert.Equal(t, folder, sorted, "shuffle must cover every track exactly once")
}

func TestExpandPlaylistShuffleBeforeTruncation(t *testing.T) {
	folder := tracks(30)
	seen := make(map[string]bool)

	// shuffle runs over the full set before the cap, so over many draws a
	// track from the tail of the folder ordering must eventually appear
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got := engine.ExpandPlaylist(folder, model.PlaylistConfig{Shuffle: true, MaxTracks: intp(3)}, rng)
		require.Len(t, got, 3)
		for _, tr := range got {
			seen[tr] = true
		}
	}
	assert.True(t, seen["track-29.mp3"] || seen["track-28.mp3"] || seen["track-27.mp3"],
		"tail tracks should show up when the full set is shuffled before truncation")
}

func TestExpandPlaylistEmptyFolder(t *testing.T) {
	got := engine.ExpandPlaylist(nil, model.PlaylistConfig{Shuffle: true, MaxTracks: intp(5)}, nil)
	assert.Empty(t, got)
}

func TestExpandPlaylistDoesNotMutateSnapshot(t *testing.T) {
	folder := tracks(10)
	original := append([]string(nil), folder...)
	rng := rand.New(rand.NewSource(7))
	engine.ExpandPlaylist(folder, model.PlaylistConfig{Shuffle: true}, rng)
	assert.Equal(t, original, folder)
}

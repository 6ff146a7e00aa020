package engine

import (
	"math/rand"

	"github.com/hallister/belfry/internal/model"
)

// ExpandPlaylist turns a folder snapshot into the ordered track sequence for
// one firing. The snapshot is a value: this function never touches the file
// system.
//
// Shuffle permutes the full snapshot before any cap is applied, so every track
// has a chance to appear in a truncated sequence. MaxTracks is a hard length
// cap. DurationCap is estimated by charging TrackInterval seconds per track;
// real track length is unknown to the engine. Both caps apply, whichever binds
// first. A nil rng falls back to the shared global source.
func ExpandPlaylist(snapshot []string, cfg model.PlaylistConfig, rng *rand.Rand) []string {
	if len(snapshot) == 0 {
		return []string{}
	}

	tracks := make([]string, len(snapshot))
	copy(tracks, snapshot)
	if cfg.Shuffle {
		shuffle := rand.Shuffle
		if rng != nil {
			shuffle = rng.Shuffle
		}
		shuffle(len(tracks), func(i, j int) {
			tracks[i], tracks[j] = tracks[j], tracks[i]
		})
	}

	limit := len(tracks)
	if cfg.MaxTracks != nil && *cfg.MaxTracks < limit {
		limit = *cfg.MaxTracks
	}
	if limit < 0 {
		limit = 0
	}

	if cfg.DurationCap == nil || cfg.TrackInterval <= 0 {
		return tracks[:limit]
	}

	capSeconds := *cfg.DurationCap * 60
	out := make([]string, 0, limit)
	elapsed := 0
	for _, t := range tracks[:limit] {
		if elapsed+cfg.TrackInterval > capSeconds {
			break
		}
		out = append(out, t)
		elapsed += cfg.TrackInterval
	}
	return out
}

// Package playback delivers fire events to the player devices. The engine
// only sees the Sink interface; transports live here.
package playback

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/model"
)

// Sink receives one event per fired occurrence.
type Sink interface {
	Fire(ctx context.Context, ev model.FireEvent) error
}

// LogSink records events without a broker; the dev-mode default.
type LogSink struct{}

func (LogSink) Fire(_ context.Context, ev model.FireEvent) error {
	log.Info().
		Str("event_id", ev.ID).
		Int("schedule_id", ev.ScheduleID).
		Str("kind", string(ev.Kind)).
		Time("occurrence", ev.OccurredAt).
		Int("tracks", len(ev.TrackSequence)).
		Msg("fire event (log sink)")
	return nil
}

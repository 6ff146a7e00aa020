package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/model"
)

// EvalSnapshot is one atomic read of the schedule state, taken once per tick.
type EvalSnapshot struct {
	ActiveListID int
	Schedules    []model.Schedule
}

// StateSource provides the snapshot; the db store implements it.
type StateSource interface {
	EvaluationSnapshot() (EvalSnapshot, error)
}

// FiredStore records occurrence keys. MarkFired returns true only the first
// time a (schedule, occurrence minute) pair is seen, which is what keeps
// re-polling and restarts from double-firing.
type FiredStore interface {
	MarkFired(ctx context.Context, scheduleID int, occurrence time.Time) (bool, error)
}

// FolderSnapshotter supplies the track listing of a playlist folder. Called at
// most once per folder per tick.
type FolderSnapshotter interface {
	Snapshot(path string) ([]string, error)
}

// Sink receives fire events, typically the MQTT publisher.
type Sink interface {
	Fire(ctx context.Context, ev model.FireEvent) error
}

// Evaluator is the driving loop: every interval it snapshots state, resolves
// which schedules of the active list are due, and emits one fire event per
// fresh occurrence key.
type Evaluator struct {
	source   StateSource
	fired    FiredStore
	folders  FolderSnapshotter
	sink     Sink
	interval time.Duration
	rng      *rand.Rand
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithInterval overrides the default one-minute polling granularity.
func WithInterval(d time.Duration) Option {
	return func(e *Evaluator) { e.interval = d }
}

// WithRand pins the shuffle source, used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Evaluator) { e.rng = rng }
}

func NewEvaluator(source StateSource, fired FiredStore, folders FolderSnapshotter, sink Sink, opts ...Option) *Evaluator {
	e := &Evaluator{
		source:   source,
		fired:    fired,
		folders:  folders,
		sink:     sink,
		interval: time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run polls until ctx is cancelled.
func (e *Evaluator) Run(ctx context.Context) {
	log.Info().Dur("interval", e.interval).Msg("evaluator started")
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("evaluator stopped")
			return
		case now := <-ticker.C:
			if _, err := e.Tick(ctx, now); err != nil {
				log.Error().Err(err).Msg("evaluator tick failed")
			}
		}
	}
}

// Tick evaluates a single instant and returns the events it fired. The
// reference instant is truncated to the polling minute; a schedule is due when
// its next occurrence, resolved from just before that minute, lands inside
// [minute, minute+interval).
func (e *Evaluator) Tick(ctx context.Context, now time.Time) ([]model.FireEvent, error) {
	minute := now.Truncate(time.Minute)

	snap, err := e.source.EvaluationSnapshot()
	if err != nil {
		return nil, err
	}

	folderCache := make(map[string][]string)
	var fired []model.FireEvent

	for _, s := range snap.Schedules {
		if s.ListID != snap.ActiveListID || s.Muted {
			continue
		}
		occ, ok := NextOccurrence(s, minute.Add(-time.Second))
		if !ok {
			continue
		}
		if occ.Before(minute) || !occ.Before(minute.Add(e.interval)) {
			continue
		}

		occMinute := occ.Truncate(time.Minute)
		fresh, err := e.fired.MarkFired(ctx, s.ID, occMinute)
		if err != nil {
			log.Error().Err(err).Int("schedule_id", s.ID).Msg("could not mark occurrence fired")
			continue
		}
		if !fresh {
			continue
		}

		ev, ok := e.buildEvent(s, occMinute, folderCache)
		if !ok {
			// folder gone or schedule inconsistent: an expected race, not a fault
			continue
		}
		if err := e.sink.Fire(ctx, ev); err != nil {
			log.Error().Err(err).Int("schedule_id", s.ID).Msg("playback sink rejected fire event")
			continue
		}
		log.Info().
			Int("schedule_id", s.ID).
			Str("kind", string(s.Kind)).
			Time("occurrence", occMinute).
			Int("tracks", len(ev.TrackSequence)).
			Msg("schedule fired")
		fired = append(fired, ev)
	}
	return fired, nil
}

func (e *Evaluator) buildEvent(s model.Schedule, occ time.Time, folderCache map[string][]string) (model.FireEvent, bool) {
	ev := model.FireEvent{
		ID:         uuid.NewString(),
		ScheduleID: s.ID,
		Kind:       s.Kind,
		OccurredAt: occ,
		Filename:   s.Filename,
		FolderPath: s.FolderPath,
	}
	if s.Kind != model.KindPlaylist {
		return ev, true
	}
	if s.FolderPath == nil || s.PlaylistConfig == nil {
		return model.FireEvent{}, false
	}
	snapshot, cached := folderCache[*s.FolderPath]
	if !cached {
		var err error
		snapshot, err = e.folders.Snapshot(*s.FolderPath)
		if err != nil {
			log.Warn().Err(err).Str("folder", *s.FolderPath).Msg("folder snapshot unavailable, skipping fire")
			return model.FireEvent{}, false
		}
		folderCache[*s.FolderPath] = snapshot
	}
	ev.TrackSequence = ExpandPlaylist(snapshot, *s.PlaylistConfig, e.rng)
	ev.TrackInterval = s.PlaylistConfig.TrackInterval
	return ev, true
}

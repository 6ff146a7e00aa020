package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallister/belfry/internal/db"
	"github.com/hallister/belfry/internal/model"
)

func strp(s string) *string { return &s }

func newStoreWithList(t *testing.T) (db.Store, model.ScheduleList) {
	t.Helper()
	store := db.NewMemoryStore()
	l, err := store.CreateScheduleList("weekdays")
	require.NoError(t, err)
	return store, l
}

func assertExactlyOneActive(t *testing.T, store db.Store) model.ScheduleList {
	t.Helper()
	lists, err := store.ListScheduleLists()
	require.NoError(t, err)
	var active []model.ScheduleList
	for _, l := range lists {
		if l.IsActive {
			active = append(active, l)
		}
	}
	require.Len(t, active, 1, "exactly one list must be active")
	return active[0]
}

func TestFirstListStartsActive(t *testing.T) {
	store, first := newStoreWithList(t)
	assert.True(t, first.IsActive)

	second, err := store.CreateScheduleList("weekends")
	require.NoError(t, err)
	assert.False(t, second.IsActive, "only the very first list starts active")
	assertExactlyOneActive(t, store)
}

func TestCreateListRejectsBlankName(t *testing.T) {
	store := db.NewMemoryStore()
	_, err := store.CreateScheduleList("   ")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRenameList(t *testing.T) {
	store, l := newStoreWithList(t)

	renamed, err := store.RenameScheduleList(l.ID, "term time")
	require.NoError(t, err)
	assert.Equal(t, "term time", renamed.Name)
	assert.True(t, renamed.IsActive, "rename must not touch activation")

	_, err = store.RenameScheduleList(l.ID, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = store.RenameScheduleList(999, "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestActivateSwapsAtomically(t *testing.T) {
	store, first := newStoreWithList(t)
	second, err := store.CreateScheduleList("weekends")
	require.NoError(t, err)

	require.NoError(t, store.ActivateScheduleList(second.ID))
	active := assertExactlyOneActive(t, store)
	assert.Equal(t, second.ID, active.ID)

	require.NoError(t, store.ActivateScheduleList(first.ID))
	active = assertExactlyOneActive(t, store)
	assert.Equal(t, first.ID, active.ID)

	// re-activating the already-active list is a no-op, not an error
	require.NoError(t, store.ActivateScheduleList(first.ID))
	assertExactlyOneActive(t, store)

	err = store.ActivateScheduleList(999)
	assert.ErrorIs(t, err, model.ErrConflict)
	active = assertExactlyOneActive(t, store)
	assert.Equal(t, first.ID, active.ID, "failed activation must leave state untouched")
}

func TestDeleteLastListConflicts(t *testing.T) {
	store, only := newStoreWithList(t)

	err := store.DeleteScheduleList(only.ID)
	assert.ErrorIs(t, err, model.ErrConflict)

	survivor := assertExactlyOneActive(t, store)
	assert.Equal(t, only.ID, survivor.ID)
}

func TestDeleteActiveListPromotesLowestID(t *testing.T) {
	store, first := newStoreWithList(t)
	second, err := store.CreateScheduleList("weekends")
	require.NoError(t, err)
	third, err := store.CreateScheduleList("holidays")
	require.NoError(t, err)

	require.NoError(t, store.DeleteScheduleList(first.ID))
	active := assertExactlyOneActive(t, store)
	assert.Equal(t, second.ID, active.ID, "lowest surviving id is promoted")

	_, err = store.GetScheduleList(first.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_ = third
}

func TestDeleteInactiveListKeepsActive(t *testing.T) {
	store, first := newStoreWithList(t)
	second, err := store.CreateScheduleList("weekends")
	require.NoError(t, err)

	require.NoError(t, store.DeleteScheduleList(second.ID))
	active := assertExactlyOneActive(t, store)
	assert.Equal(t, first.ID, active.ID)
}

func TestDeleteListCascadesSchedules(t *testing.T) {
	store, first := newStoreWithList(t)
	second, err := store.CreateScheduleList("weekends")
	require.NoError(t, err)

	s, err := store.CreateSchedule(model.Schedule{
		ListID:   second.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Saturday},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteScheduleList(second.ID))

	_, err = store.GetSchedule(s.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	remaining, err := store.ListSchedules(nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	_ = first
}

func TestScheduleValidation(t *testing.T) {
	store, l := newStoreWithList(t)

	_, err := store.CreateSchedule(model.Schedule{
		ListID:   l.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     nil,
	})
	assert.ErrorIs(t, err, model.ErrValidation, "empty day set")

	_, err = store.CreateSchedule(model.Schedule{
		ListID:   l.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "8 o'clock",
		Days:     []model.Weekday{model.Monday},
	})
	assert.ErrorIs(t, err, model.ErrValidation, "malformed time")

	_, err = store.CreateSchedule(model.Schedule{
		ListID:   l.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Monday},
		PlaylistConfig: &model.PlaylistConfig{
			TrackInterval: 30,
		},
	})
	assert.ErrorIs(t, err, model.ErrValidation, "single schedule must not carry playlist config")

	_, err = store.CreateSchedule(model.Schedule{
		ListID:   999,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Monday},
	})
	assert.ErrorIs(t, err, model.ErrNotFound, "unknown list")
}

func TestScheduleUpdateRoundTripIsIdempotent(t *testing.T) {
	store, l := newStoreWithList(t)

	created, err := store.CreateSchedule(model.Schedule{
		ListID:   l.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Monday, model.Thursday},
	})
	require.NoError(t, err)

	read, err := store.GetSchedule(created.ID)
	require.NoError(t, err)

	updated, err := store.UpdateSchedule(read.ID, read.Time, read.Days)
	require.NoError(t, err)

	assert.Equal(t, read.Time, updated.Time)
	assert.Equal(t, read.Days, updated.Days)
	assert.Equal(t, read.Muted, updated.Muted)
	assert.Equal(t, read.Filename, updated.Filename)
}

func TestToggleMute(t *testing.T) {
	store, l := newStoreWithList(t)

	s, err := store.CreateSchedule(model.Schedule{
		ListID:   l.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Monday, model.Friday},
	})
	require.NoError(t, err)

	muted, err := store.ToggleMute(s.ID)
	require.NoError(t, err)
	assert.True(t, muted)

	got, err := store.GetSchedule(s.ID)
	require.NoError(t, err)
	assert.True(t, got.Muted)
	assert.Equal(t, s.Days, got.Days, "mute must not touch the day set")
	assert.Equal(t, s.Time, got.Time, "mute must not touch the time")

	muted, err = store.ToggleMute(s.ID)
	require.NoError(t, err)
	assert.False(t, muted)

	_, err = store.ToggleMute(999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEvaluationSnapshotIsConsistent(t *testing.T) {
	store, l := newStoreWithList(t)
	_, err := store.CreateSchedule(model.Schedule{
		ListID:   l.ID,
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Monday},
	})
	require.NoError(t, err)

	snap, err := store.EvaluationSnapshot()
	require.NoError(t, err)
	assert.Equal(t, l.ID, snap.ActiveListID)
	require.Len(t, snap.Schedules, 1)

	// mutating the snapshot must not leak back into the store
	snap.Schedules[0].Muted = true
	got, err := store.GetSchedule(snap.Schedules[0].ID)
	require.NoError(t, err)
	assert.False(t, got.Muted)
}

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallister/belfry/internal/model"
)

func strp(s string) *string { return &s }

func validSingle() model.Schedule {
	return model.Schedule{
		Kind:     model.KindSingle,
		Filename: strp("bell.mp3"),
		Time:     "08:00",
		Days:     []model.Weekday{model.Monday},
	}
}

func validPlaylist() model.Schedule {
	return model.Schedule{
		Kind:           model.KindPlaylist,
		FolderPath:     strp("morning"),
		Time:           "08:00",
		Days:           []model.Weekday{model.Monday},
		PlaylistConfig: &model.PlaylistConfig{TrackInterval: 60},
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := model.ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	h, m, err = model.ParseClock("00:00")
	require.NoError(t, err)
	assert.Zero(t, h)
	assert.Zero(t, m)

	for _, bad := range []string{"24:00", "12:60", "8:00:00", "noon", "", "12.30"} {
		_, _, err := model.ParseClock(bad)
		assert.ErrorIs(t, err, model.ErrValidation, bad)
	}
}

func TestScheduleValidate(t *testing.T) {
	assert.NoError(t, validSingle().Validate())
	assert.NoError(t, validPlaylist().Validate())

	s := validSingle()
	s.Days = nil
	assert.ErrorIs(t, s.Validate(), model.ErrValidation)

	s = validSingle()
	s.Time = "26:00"
	assert.ErrorIs(t, s.Validate(), model.ErrValidation)

	s = validSingle()
	s.Days = []model.Weekday{model.Weekday(9)}
	assert.ErrorIs(t, s.Validate(), model.ErrValidation)

	s = validSingle()
	s.Filename = nil
	assert.ErrorIs(t, s.Validate(), model.ErrValidation)

	s = validSingle()
	s.PlaylistConfig = &model.PlaylistConfig{TrackInterval: 30}
	assert.ErrorIs(t, s.Validate(), model.ErrValidation)

	p := validPlaylist()
	p.FolderPath = strp("")
	assert.ErrorIs(t, p.Validate(), model.ErrValidation)

	p = validPlaylist()
	p.PlaylistConfig = nil
	assert.ErrorIs(t, p.Validate(), model.ErrValidation)

	p = validPlaylist()
	p.PlaylistConfig.TrackInterval = -5
	assert.ErrorIs(t, p.Validate(), model.ErrValidation)

	s = validSingle()
	s.Kind = "album"
	assert.ErrorIs(t, s.Validate(), model.ErrValidation)
}

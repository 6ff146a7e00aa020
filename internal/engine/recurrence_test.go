package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/model"
)

// 2024-01-01 was a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func singleSchedule(timeOfDay string, days ...model.Weekday) model.Schedule {
	filename := "chime.mp3"
	return model.Schedule{
		ID:       1,
		Kind:     model.KindSingle,
		Filename: &filename,
		Time:     timeOfDay,
		Days:     days,
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name     string
		schedule model.Schedule
		now      time.Time
		want     time.Time
		wantNone bool
	}{
		{
			name:     "later today",
			schedule: singleSchedule("08:00", model.Monday),
			now:      monday(7, 30),
			want:     monday(8, 0),
		},
		{
			name:     "tomorrow same week",
			schedule: singleSchedule("08:00", model.Tuesday),
			now:      monday(9, 0),
			want:     monday(8, 0).AddDate(0, 0, 1),
		},
		{
			name:     "exactly now rolls a full week",
			schedule: singleSchedule("08:00", model.Monday),
			now:      monday(8, 0),
			want:     monday(8, 0).AddDate(0, 0, 7),
		},
		{
			name:     "earlier today rolls a full week",
			schedule: singleSchedule("08:00", model.Monday),
			now:      monday(9, 15),
			want:     monday(8, 0).AddDate(0, 0, 7),
		},
		{
			name:     "minimum across several days",
			schedule: singleSchedule("08:00", model.Friday, model.Wednesday, model.Tuesday),
			now:      monday(12, 0),
			want:     monday(8, 0).AddDate(0, 0, 1),
		},
		{
			name:     "wraps past the weekend",
			schedule: singleSchedule("06:45", model.Monday),
			now:      monday(7, 0).AddDate(0, 0, 5), // Saturday
			want:     monday(6, 45).AddDate(0, 0, 7),
		},
		{
			name: "muted resolves to nothing",
			schedule: func() model.Schedule {
				s := singleSchedule("08:00", model.Monday)
				s.Muted = true
				return s
			}(),
			now:      monday(7, 0),
			wantNone: true,
		},
		{
			name:     "empty day set resolves to nothing",
			schedule: singleSchedule("08:00"),
			now:      monday(7, 0),
			wantNone: true,
		},
		{
			name:     "malformed time resolves to nothing",
			schedule: singleSchedule("25:99", model.Monday),
			now:      monday(7, 0),
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.NextOccurrence(tt.schedule, tt.now)
			if tt.wantNone {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now), "occurrence must be strictly after now")
		})
	}
}

func TestNextOccurrenceMuteRoundTrip(t *testing.T) {
	s := singleSchedule("14:30", model.Wednesday, model.Sunday)
	now := monday(10, 0)

	before, ok := engine.NextOccurrence(s, now)
	require.True(t, ok)

	s.Muted = true
	_, ok = engine.NextOccurrence(s, now)
	assert.False(t, ok)

	s.Muted = false
	after, ok := engine.NextOccurrence(s, now)
	require.True(t, ok)
	assert.Equal(t, before, after)
}

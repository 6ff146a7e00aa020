package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/model"
)

// scheduleRow mirrors the schedules table, one boolean column per weekday as
// laid out by the migrations.
type scheduleRow struct {
	ID               int       `db:"id"`
	ListID           int       `db:"list_id"`
	Kind             string    `db:"kind"`
	Filename         *string   `db:"filename"`
	FolderPath       *string   `db:"folder_path"`
	Time             string    `db:"time"`
	Monday           bool      `db:"monday"`
	Tuesday          bool      `db:"tuesday"`
	Wednesday        bool      `db:"wednesday"`
	Thursday         bool      `db:"thursday"`
	Friday           bool      `db:"friday"`
	Saturday         bool      `db:"saturday"`
	Sunday           bool      `db:"sunday"`
	IsMuted          bool      `db:"is_muted"`
	PlaylistDuration *int      `db:"playlist_duration"`
	MaxTracks        *int      `db:"max_tracks"`
	TrackInterval    *int      `db:"track_interval"`
	ShuffleMode      *bool     `db:"shuffle_mode"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const scheduleColumns = `id, list_id, kind, filename, folder_path, time,
	monday, tuesday, wednesday, thursday, friday, saturday, sunday,
	is_muted, playlist_duration, max_tracks, track_interval, shuffle_mode,
	created_at, updated_at`

func (r scheduleRow) toModel() model.Schedule {
	s := model.Schedule{
		ID:         r.ID,
		ListID:     r.ListID,
		Kind:       model.ScheduleKind(r.Kind),
		Filename:   r.Filename,
		FolderPath: r.FolderPath,
		Time:       r.Time,
		Muted:      r.IsMuted,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	flags := [7]bool{r.Monday, r.Tuesday, r.Wednesday, r.Thursday, r.Friday, r.Saturday, r.Sunday}
	for d := model.Monday; d <= model.Sunday; d++ {
		if flags[d] {
			s.Days = append(s.Days, d)
		}
	}
	if s.Kind == model.KindPlaylist {
		interval := 0
		if r.TrackInterval != nil {
			interval = *r.TrackInterval
		}
		shuffle := r.ShuffleMode != nil && *r.ShuffleMode
		s.PlaylistConfig = &model.PlaylistConfig{
			DurationCap:   r.PlaylistDuration,
			MaxTracks:     r.MaxTracks,
			TrackInterval: interval,
			Shuffle:       shuffle,
		}
	}
	return s
}

func dayFlags(days []model.Weekday) [7]bool {
	var flags [7]bool
	for _, d := range days {
		if d.Valid() {
			flags[d] = true
		}
	}
	return flags
}

func (s *pgStore) CreateSchedule(in model.Schedule) (model.Schedule, error) {
	if err := in.Validate(); err != nil {
		return model.Schedule{}, err
	}
	if _, err := s.GetScheduleList(in.ListID); err != nil {
		return model.Schedule{}, err
	}

	flags := dayFlags(in.Days)
	var interval *int
	var shuffle *bool
	var durationCap, maxTracks *int
	if in.PlaylistConfig != nil {
		interval = &in.PlaylistConfig.TrackInterval
		shuffle = &in.PlaylistConfig.Shuffle
		durationCap = in.PlaylistConfig.DurationCap
		maxTracks = in.PlaylistConfig.MaxTracks
	}

	var row scheduleRow
	const q = `
	INSERT INTO schedules
	  (list_id, kind, filename, folder_path, time,
	   monday, tuesday, wednesday, thursday, friday, saturday, sunday,
	   is_muted, playlist_duration, max_tracks, track_interval, shuffle_mode,
	   created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now(),now())
	RETURNING ` + scheduleColumns + `;`
	err := s.db.Get(&row, q,
		in.ListID, string(in.Kind), in.Filename, in.FolderPath, in.Time,
		flags[0], flags[1], flags[2], flags[3], flags[4], flags[5], flags[6],
		in.Muted, durationCap, maxTracks, interval, shuffle)
	if err != nil {
		log.Error().Err(err).Msg("CreateSchedule failed")
		return model.Schedule{}, err
	}
	return row.toModel(), nil
}

func (s *pgStore) GetSchedule(id int) (model.Schedule, error) {
	var row scheduleRow
	err := s.db.Get(&row, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Schedule{}, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("GetSchedule failed")
		return model.Schedule{}, err
	}
	return row.toModel(), nil
}

// UpdateSchedule rewrites only the recurrence fields; target, kind and
// playlist config are immutable after creation.
func (s *pgStore) UpdateSchedule(id int, timeOfDay string, days []model.Weekday) (model.Schedule, error) {
	if _, _, err := model.ParseClock(timeOfDay); err != nil {
		return model.Schedule{}, err
	}
	if len(days) == 0 {
		return model.Schedule{}, model.Validationf("day set must not be empty")
	}
	flags := dayFlags(days)

	var row scheduleRow
	const q = `
	UPDATE schedules
	   SET time = $1,
	       monday = $2, tuesday = $3, wednesday = $4, thursday = $5,
	       friday = $6, saturday = $7, sunday = $8,
	       updated_at = now()
	 WHERE id = $9
	RETURNING ` + scheduleColumns + `;`
	err := s.db.Get(&row, q,
		timeOfDay,
		flags[0], flags[1], flags[2], flags[3], flags[4], flags[5], flags[6],
		id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Schedule{}, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("UpdateSchedule failed")
		return model.Schedule{}, err
	}
	return row.toModel(), nil
}

func (s *pgStore) DeleteSchedule(id int) error {
	res, err := s.db.Exec(`DELETE FROM schedules WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("DeleteSchedule failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *pgStore) ListSchedules(listID *int) ([]model.Schedule, error) {
	var rows []scheduleRow
	var err error
	if listID != nil {
		err = s.db.Select(&rows, `SELECT `+scheduleColumns+` FROM schedules WHERE list_id = $1 ORDER BY id;`, *listID)
	} else {
		err = s.db.Select(&rows, `SELECT `+scheduleColumns+` FROM schedules ORDER BY id;`)
	}
	if err != nil {
		log.Error().Err(err).Msg("ListSchedules failed")
		return nil, err
	}
	out := make([]model.Schedule, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// ToggleMute flips the muted flag and returns the new state. Nothing else on
// the schedule is touched.
func (s *pgStore) ToggleMute(id int) (bool, error) {
	var muted bool
	err := s.db.Get(&muted, `
	UPDATE schedules
	   SET is_muted = NOT is_muted, updated_at = now()
	 WHERE id = $1
	RETURNING is_muted;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("ToggleMute failed")
		return false, err
	}
	return muted, nil
}

// EvaluationSnapshot reads the active list id and every schedule in one
// transaction, giving the evaluator a consistent view per tick.
func (s *pgStore) EvaluationSnapshot() (engine.EvalSnapshot, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return engine.EvalSnapshot{}, err
	}
	defer tx.Rollback()

	var activeID int
	err = tx.Get(&activeID, `SELECT id FROM schedule_lists WHERE is_active LIMIT 1;`)
	if errors.Is(err, sql.ErrNoRows) {
		// no lists yet: nothing can fire
		return engine.EvalSnapshot{}, nil
	}
	if err != nil {
		return engine.EvalSnapshot{}, err
	}

	var rows []scheduleRow
	if err := tx.Select(&rows, `SELECT `+scheduleColumns+` FROM schedules ORDER BY id;`); err != nil {
		return engine.EvalSnapshot{}, err
	}
	snap := engine.EvalSnapshot{ActiveListID: activeID}
	snap.Schedules = make([]model.Schedule, len(rows))
	for i, r := range rows {
		snap.Schedules[i] = r.toModel()
	}
	return snap, tx.Commit()
}

package db

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/model"
)

const scheduleListColumns = `id, name, is_active, created_at, updated_at`

// CreateScheduleList inserts a new list. The very first list ever created
// starts active; every later one starts inactive, so the single-active-list
// invariant holds from the first insert on.
func (s *pgStore) CreateScheduleList(name string) (model.ScheduleList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ScheduleList{}, model.Validationf("list name must not be empty")
	}
	var l model.ScheduleList
	const q = `
	INSERT INTO schedule_lists (name, is_active, created_at, updated_at)
	VALUES ($1, NOT EXISTS (SELECT 1 FROM schedule_lists), now(), now())
	RETURNING ` + scheduleListColumns + `;`
	if err := s.db.Get(&l, q, name); err != nil {
		log.Error().Err(err).Msg("CreateScheduleList failed")
		return model.ScheduleList{}, err
	}
	return l, nil
}

func (s *pgStore) RenameScheduleList(id int, name string) (model.ScheduleList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ScheduleList{}, model.Validationf("list name must not be empty")
	}
	var l model.ScheduleList
	const q = `
	UPDATE schedule_lists
	   SET name = $1, updated_at = now()
	 WHERE id = $2
	RETURNING ` + scheduleListColumns + `;`
	err := s.db.Get(&l, q, name, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScheduleList{}, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("RenameScheduleList failed")
		return model.ScheduleList{}, err
	}
	return l, nil
}

// ActivateScheduleList flips the active flag to the target list in one
// transaction, so no reader ever observes zero or two active lists.
func (s *pgStore) ActivateScheduleList(id int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.Get(&exists, `SELECT 1 FROM schedule_lists WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrConflict
	}
	if err != nil {
		return err
	}
	// two steps inside the transaction keep the partial unique index happy;
	// observers only ever see the committed state
	if _, err := tx.Exec(`UPDATE schedule_lists SET is_active = FALSE, updated_at = now() WHERE is_active;`); err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("ActivateScheduleList failed")
		return err
	}
	if _, err := tx.Exec(`UPDATE schedule_lists SET is_active = TRUE, updated_at = now() WHERE id = $1;`, id); err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("ActivateScheduleList failed")
		return err
	}
	return tx.Commit()
}

// DeleteScheduleList removes a list and, through the FK cascade, its
// schedules. Deleting the last list is a conflict; deleting the active list
// promotes the surviving list with the lowest id.
func (s *pgStore) DeleteScheduleList(id int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var total int
	if err := tx.Get(&total, `SELECT count(*) FROM schedule_lists;`); err != nil {
		return err
	}

	var wasActive bool
	err = tx.Get(&wasActive, `SELECT is_active FROM schedule_lists WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		return err
	}

	if total <= 1 {
		return model.ErrConflict
	}

	if _, err := tx.Exec(`DELETE FROM schedule_lists WHERE id = $1;`, id); err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("DeleteScheduleList failed")
		return err
	}
	if wasActive {
		if _, err := tx.Exec(`
			UPDATE schedule_lists SET is_active = TRUE, updated_at = now()
			 WHERE id = (SELECT min(id) FROM schedule_lists);`); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *pgStore) GetScheduleList(id int) (model.ScheduleList, error) {
	var l model.ScheduleList
	err := s.db.Get(&l, `SELECT `+scheduleListColumns+` FROM schedule_lists WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScheduleList{}, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("list_id", id).Msg("GetScheduleList failed")
		return model.ScheduleList{}, err
	}
	return l, nil
}

func (s *pgStore) ListScheduleLists() ([]model.ScheduleList, error) {
	var out []model.ScheduleList
	if err := s.db.Select(&out, `SELECT `+scheduleListColumns+` FROM schedule_lists ORDER BY id;`); err != nil {
		log.Error().Err(err).Msg("ListScheduleLists failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ActiveScheduleList() (model.ScheduleList, error) {
	var l model.ScheduleList
	err := s.db.Get(&l, `SELECT `+scheduleListColumns+` FROM schedule_lists WHERE is_active LIMIT 1;`)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScheduleList{}, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("ActiveScheduleList failed")
		return model.ScheduleList{}, err
	}
	return l, nil
}

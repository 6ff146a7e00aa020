package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/model"
)

func (s *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	var id int
	const q = `
	INSERT INTO users (email, hashed_password, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id;`
	if err := s.db.Get(&id, q, email, hashedPassword, name); err != nil {
		log.Error().Err(err).Msg("CreateUser failed")
		return 0, err
	}
	return id, nil
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `SELECT id, email, hashed_password, name, created_at, updated_at FROM users WHERE email = $1;`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("GetUserByEmail failed")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `SELECT id, email, hashed_password, name, created_at, updated_at FROM users WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("GetUserByID failed")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	res, err := s.db.Exec(`
	UPDATE users
	   SET email = $1, name = $2, updated_at = now()
	 WHERE id = $3;`, email, name, id)
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("UpdateUserProfile failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

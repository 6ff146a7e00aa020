package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/model"
)

// Store is the single data-access surface handed to API modules and to the
// evaluator. Both the Postgres store and the in-memory store implement it.
type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// schedule list functions; these own the single-active-list invariant
	CreateScheduleList(name string) (model.ScheduleList, error)
	RenameScheduleList(id int, name string) (model.ScheduleList, error)
	ActivateScheduleList(id int) error
	DeleteScheduleList(id int) error
	GetScheduleList(id int) (model.ScheduleList, error)
	ListScheduleLists() ([]model.ScheduleList, error)
	ActiveScheduleList() (model.ScheduleList, error)

	// schedule functions
	CreateSchedule(s model.Schedule) (model.Schedule, error)
	GetSchedule(id int) (model.Schedule, error)
	UpdateSchedule(id int, timeOfDay string, days []model.Weekday) (model.Schedule, error)
	DeleteSchedule(id int) error
	ListSchedules(listID *int) ([]model.Schedule, error)
	ToggleMute(id int) (bool, error)

	// evaluator snapshot read
	EvaluationSnapshot() (engine.EvalSnapshot, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(database *sqlx.DB) Store {
	if database == nil {
		database = DB
	}
	return &pgStore{db: database}
}

package db

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hallister/belfry/internal/engine"
	"github.com/hallister/belfry/internal/model"
)

// memStore is a mutex-guarded in-memory Store. It backs the unit tests and a
// Postgres-free dev mode; every mutation happens under one lock, which is the
// exclusive-access discipline that keeps the single-active-list invariant and
// tick snapshots serializable.
type memStore struct {
	mu sync.Mutex

	users       map[int]model.User
	lists       map[int]model.ScheduleList
	schedules   map[int]model.Schedule
	nextUserID  int
	nextListID  int
	nextSchedID int
}

var _ Store = (*memStore)(nil)

func NewMemoryStore() Store {
	return &memStore{
		users:       make(map[int]model.User),
		lists:       make(map[int]model.ScheduleList),
		schedules:   make(map[int]model.Schedule),
		nextUserID:  1,
		nextListID:  1,
		nextSchedID: 1,
	}
}

// ----- users -----

func (m *memStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, model.ErrConflict
		}
	}
	id := m.nextUserID
	m.nextUserID++
	now := time.Now()
	m.users[id] = model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (m *memStore) GetUserByEmail(email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *memStore) GetUserByID(id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := u
	return &out, nil
}

func (m *memStore) UpdateUserProfile(id int, email string, name *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.Email = email
	u.Name = name
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return nil
}

// ----- schedule lists -----

func (m *memStore) CreateScheduleList(name string) (model.ScheduleList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ScheduleList{}, model.Validationf("list name must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextListID
	m.nextListID++
	now := time.Now()
	l := model.ScheduleList{
		ID:        id,
		Name:      name,
		IsActive:  len(m.lists) == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.lists[id] = l
	return l, nil
}

func (m *memStore) RenameScheduleList(id int, name string) (model.ScheduleList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ScheduleList{}, model.Validationf("list name must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return model.ScheduleList{}, model.ErrNotFound
	}
	l.Name = name
	l.UpdatedAt = time.Now()
	m.lists[id] = l
	return l, nil
}

func (m *memStore) ActivateScheduleList(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[id]; !ok {
		return model.ErrConflict
	}
	for lid, l := range m.lists {
		l.IsActive = lid == id
		l.UpdatedAt = time.Now()
		m.lists[lid] = l
	}
	return nil
}

func (m *memStore) DeleteScheduleList(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return model.ErrNotFound
	}
	if len(m.lists) <= 1 {
		return model.ErrConflict
	}
	delete(m.lists, id)
	for sid, s := range m.schedules {
		if s.ListID == id {
			delete(m.schedules, sid)
		}
	}
	if l.IsActive {
		// promote the surviving list with the lowest id
		lowest := 0
		for lid := range m.lists {
			if lowest == 0 || lid < lowest {
				lowest = lid
			}
		}
		promoted := m.lists[lowest]
		promoted.IsActive = true
		promoted.UpdatedAt = time.Now()
		m.lists[lowest] = promoted
	}
	return nil
}

func (m *memStore) GetScheduleList(id int) (model.ScheduleList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return model.ScheduleList{}, model.ErrNotFound
	}
	return l, nil
}

func (m *memStore) ListScheduleLists() ([]model.ScheduleList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ScheduleList, 0, len(m.lists))
	for _, l := range m.lists {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ActiveScheduleList() (model.ScheduleList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lists {
		if l.IsActive {
			return l, nil
		}
	}
	return model.ScheduleList{}, model.ErrNotFound
}

// ----- schedules -----

func (m *memStore) CreateSchedule(in model.Schedule) (model.Schedule, error) {
	if err := in.Validate(); err != nil {
		return model.Schedule{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[in.ListID]; !ok {
		return model.Schedule{}, model.ErrNotFound
	}
	id := m.nextSchedID
	m.nextSchedID++
	now := time.Now()
	in.ID = id
	in.CreatedAt = now
	in.UpdatedAt = now
	m.schedules[id] = cloneSchedule(in)
	return cloneSchedule(in), nil
}

func (m *memStore) GetSchedule(id int) (model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return model.Schedule{}, model.ErrNotFound
	}
	return cloneSchedule(s), nil
}

func (m *memStore) UpdateSchedule(id int, timeOfDay string, days []model.Weekday) (model.Schedule, error) {
	if _, _, err := model.ParseClock(timeOfDay); err != nil {
		return model.Schedule{}, err
	}
	if len(days) == 0 {
		return model.Schedule{}, model.Validationf("day set must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return model.Schedule{}, model.ErrNotFound
	}
	s.Time = timeOfDay
	s.Days = append([]model.Weekday(nil), days...)
	s.UpdatedAt = time.Now()
	m.schedules[id] = s
	return cloneSchedule(s), nil
}

func (m *memStore) DeleteSchedule(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *memStore) ListSchedules(listID *int) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		if listID != nil && s.ListID != *listID {
			continue
		}
		out = append(out, cloneSchedule(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ToggleMute(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return false, model.ErrNotFound
	}
	s.Muted = !s.Muted
	s.UpdatedAt = time.Now()
	m.schedules[id] = s
	return s.Muted, nil
}

// ----- evaluator -----

func (m *memStore) EvaluationSnapshot() (engine.EvalSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var snap engine.EvalSnapshot
	for _, l := range m.lists {
		if l.IsActive {
			snap.ActiveListID = l.ID
			break
		}
	}
	snap.Schedules = make([]model.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		snap.Schedules = append(snap.Schedules, cloneSchedule(s))
	}
	sort.Slice(snap.Schedules, func(i, j int) bool { return snap.Schedules[i].ID < snap.Schedules[j].ID })
	return snap, nil
}

func cloneSchedule(s model.Schedule) model.Schedule {
	out := s
	out.Days = append([]model.Weekday(nil), s.Days...)
	if s.PlaylistConfig != nil {
		cfg := *s.PlaylistConfig
		out.PlaylistConfig = &cfg
	}
	return out
}

package infrastructure

import (
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/Agurato/filmdelegate/internal/model"
)

// Memory is a store keeping everything in memory, lost on restart
type Memory struct {
	mu sync.RWMutex

	lastID    map[string]int64
	users     map[int64]model.User
	films     map[int64]model.Film
	directors map[int64]model.Director
	cast      map[int64]model.CastMember
}

func NewMemory() *Memory {
	return &Memory{
		lastID:    map[string]int64{},
		users:     map[int64]model.User{},
		films:     map[int64]model.Film{},
		directors: map[int64]model.Director{},
		cast:      map[int64]model.CastMember{},
	}
}

// Close does nothing, it only exists to match the other stores
func (m *Memory) Close() error {
	return nil
}

// nextID must be called with the lock held
func (m *Memory) nextID(collection string) int64 {
	m.lastID[collection]++
	return m.lastID[collection]
}

func sortedValues[T any](values map[int64]T) []T {
	keys := lo.Keys(values)
	slices.Sort(keys)
	return lo.Map(keys, func(key int64, _ int) T { return values[key] })
}

// ownerPresent must be called with the lock held
func (m *Memory) ownerPresent() bool {
	return lo.SomeBy(lo.Values(m.users), func(user model.User) bool {
		return user.IsOwner
	})
}

// usernameTaken must be called with the lock held
func (m *Memory) usernameTaken(username string) bool {
	return lo.SomeBy(lo.Values(m.users), func(user model.User) bool {
		return strings.EqualFold(user.Name, username)
	})
}

func (m *Memory) IsOwnerPresent() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ownerPresent(), nil
}

func (m *Memory) IsUsernameAvailable(username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.usernameTaken(username), nil
}

func (m *Memory) GetUserFromName(username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := lo.Find(lo.Values(m.users), func(user model.User) bool {
		return user.Name == username
	})
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

// CreateUser adds the user, unless it is an owner and there already is one, or its name is taken
func (m *Memory) CreateUser(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.IsOwner && m.ownerPresent() {
		return model.ErrOwnerAlreadyExists
	}
	if m.usernameTaken(user.Name) {
		return model.ErrUsernameTaken
	}
	user.ID = m.nextID("users")
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) SetUserPassword(userID int64, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	user.Password = newPassword
	m.users[userID] = user
	return nil
}

func (m *Memory) GetFilms() ([]model.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.films), nil
}

func (m *Memory) GetFilmFromID(id int64) (*model.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	film, ok := m.films[id]
	if !ok {
		return nil, model.ErrFilmNotFound
	}
	return &film, nil
}

// AddFilmWithCast adds the film and its cast, or nothing if any of them is invalid
func (m *Memory) AddFilmWithCast(film *model.Film, cast []model.CastMember) error {
	if err := checkFilmWithCast(film, cast); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	film.ID = m.nextID("films")
	m.films[film.ID] = *film
	for i := range cast {
		cast[i].ID = m.nextID("cast_members")
		cast[i].FilmID = film.ID
		m.cast[cast[i].ID] = cast[i]
	}
	return nil
}

func (m *Memory) GetDirectorFromID(id int64) (*model.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	director, ok := m.directors[id]
	if !ok {
		return nil, model.ErrDirectorNotFound
	}
	return &director, nil
}

func (m *Memory) GetDirectorFromName(name string) (*model.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	director, ok := lo.Find(sortedValues(m.directors), func(director model.Director) bool {
		return strings.EqualFold(director.Name, name)
	})
	if !ok {
		return nil, model.ErrDirectorNotFound
	}
	return &director, nil
}

func (m *Memory) AddDirector(director *model.Director) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	director.ID = m.nextID("directors")
	m.directors[director.ID] = *director
	return nil
}

func (m *Memory) GetCastMembersFromFilmID(filmID int64) ([]model.CastMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Filter(sortedValues(m.cast), func(member model.CastMember, _ int) bool {
		return member.FilmID == filmID
	}), nil
}

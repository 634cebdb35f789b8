package business

import "github.com/Agurato/filmdelegate/internal/model"

// UserValid tells whether the acting user may create films
type UserValid func() bool

// InsertFilm persists a new film and returns it with its ID set
type InsertFilm func(film *model.NewFilm) (*model.Film, error)

// GetFilmByID returns the film with this ID, or nil when there is none
type GetFilmByID func(id int64) (*model.Film, error)

// GetDirectorByID returns the director with this ID, or nil when there is none
type GetDirectorByID func(id int64) (*model.Director, error)

// GetCastMembersByFilmID returns the cast of a film
type GetCastMembersByFilmID func(filmID int64) ([]model.CastMember, error)

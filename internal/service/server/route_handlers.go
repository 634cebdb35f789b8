package server

import (
	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/model"
)

// CreateFilmHandler creates a film on behalf of the user, nil when nobody is logged in
type CreateFilmHandler func(user *model.User, film *model.NewFilm) (*model.Film, error)

// ListFilmByIDHandler returns a film with its director and cast
type ListFilmByIDHandler func(id int64) (*model.FilmDetails, error)

// RouteHandlers are the functions the film routes hand their requests to.
// Tests replace them to fake lookups and authorization.
type RouteHandlers struct {
	CreateFilm   CreateFilmHandler
	ListFilmByID ListFilmByIDHandler
}

type RouteFilmManager interface {
	AddFilm(newFilm *model.NewFilm) (*model.Film, error)
	GetFilm(id int64) (*model.Film, error)
	GetDirector(id int64) (*model.Director, error)
	GetCastMembers(filmID int64) ([]model.CastMember, error)
}

type RouteUserManager interface {
	CanCreateFilms(user *model.User) business.UserValid
}

// NewRouteHandlers wires the route handlers to the film and user managers
func NewRouteHandlers(fm RouteFilmManager, um RouteUserManager) RouteHandlers {
	return RouteHandlers{
		CreateFilm: func(user *model.User, film *model.NewFilm) (*model.Film, error) {
			return business.CreateFilm(film, um.CanCreateFilms(user), fm.AddFilm)
		},
		ListFilmByID: func(id int64) (*model.FilmDetails, error) {
			return business.ListFilmByID(id, fm.GetFilm, fm.GetDirector, fm.GetCastMembers)
		},
	}
}

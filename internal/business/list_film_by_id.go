package business

import (
	"errors"
	"fmt"

	"github.com/Agurato/filmdelegate/internal/model"
)

// ListFilmByID returns a film along with its director and cast.
// A missing director is not an error, the film is returned without one.
func ListFilmByID(id int64, getFilm GetFilmByID, getDirector GetDirectorByID, getCast GetCastMembersByFilmID) (*model.FilmDetails, error) {
	film, err := getFilm(id)
	if errors.Is(err, model.ErrFilmNotFound) || (err == nil && film == nil) {
		return nil, fmt.Errorf("film %d: %w", id, model.ErrFilmNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get film %d: %w", id, err)
	}

	director, err := getDirector(film.DirectorID)
	if err != nil && !errors.Is(err, model.ErrDirectorNotFound) {
		return nil, fmt.Errorf("could not get director of film %d: %w", id, err)
	}

	cast, err := getCast(film.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get cast of film %d: %w", id, err)
	}
	if cast == nil {
		cast = []model.CastMember{}
	}

	return &model.FilmDetails{
		Film:     *film,
		Director: director,
		Cast:     cast,
	}, nil
}

package business

import (
	"fmt"

	"github.com/Agurato/filmdelegate/internal/model"
)

// CreateFilm validates the film, checks the user is allowed to create it and inserts it
func CreateFilm(film *model.NewFilm, userValid UserValid, insert InsertFilm) (*model.Film, error) {
	if film == nil {
		return nil, model.ErrInvalidFilm
	}
	if err := film.Validate(); err != nil {
		return nil, err
	}
	if !userValid() {
		return nil, model.ErrForbidden
	}

	created, err := insert(film)
	if err != nil {
		return nil, fmt.Errorf("could not insert film '%s': %w", film.Name, err)
	}
	return created, nil
}

package business_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/model"
)

func TestListFilmByID(t *testing.T) {
	bladeRunner := func(id int64) (*model.Film, error) {
		return &model.Film{ID: id, Name: "Blade Runner", DirectorID: 7}, nil
	}
	ridleyScott := func(id int64) (*model.Director, error) {
		return &model.Director{ID: id, Name: "Ridley Scott"}, nil
	}
	noDirector := func(int64) (*model.Director, error) {
		return nil, model.ErrDirectorNotFound
	}
	cast := func(filmID int64) ([]model.CastMember, error) {
		return []model.CastMember{{ID: 1, FilmID: filmID, Name: "Harrison Ford"}}, nil
	}
	noCast := func(int64) ([]model.CastMember, error) {
		return nil, nil
	}

	t.Run("Found", func(t *testing.T) {
		details, err := business.ListFilmByID(1, bladeRunner, ridleyScott, cast)
		require.NoError(t, err)
		assert.Equal(t, "Blade Runner", details.Name)
		assert.Equal(t, &model.Director{ID: 7, Name: "Ridley Scott"}, details.Director)
		assert.Equal(t, []model.CastMember{{ID: 1, FilmID: 1, Name: "Harrison Ford"}}, details.Cast)
	})

	t.Run("WithoutDirectorNorCast", func(t *testing.T) {
		details, err := business.ListFilmByID(1, bladeRunner, noDirector, noCast)
		require.NoError(t, err)
		assert.Nil(t, details.Director)
		assert.NotNil(t, details.Cast)
		assert.Empty(t, details.Cast)
	})

	t.Run("NotFound", func(t *testing.T) {
		nilFilm := func(int64) (*model.Film, error) { return nil, nil }
		_, err := business.ListFilmByID(1, nilFilm, ridleyScott, cast)
		assert.ErrorIs(t, err, model.ErrFilmNotFound)

		missingFilm := func(int64) (*model.Film, error) { return nil, model.ErrFilmNotFound }
		_, err = business.ListFilmByID(1, missingFilm, ridleyScott, cast)
		assert.ErrorIs(t, err, model.ErrFilmNotFound)
	})

	t.Run("LookupErrors", func(t *testing.T) {
		failure := errors.New("connection reset")

		_, err := business.ListFilmByID(1, func(int64) (*model.Film, error) { return nil, failure }, ridleyScott, cast)
		assert.ErrorIs(t, err, failure)
		assert.NotErrorIs(t, err, model.ErrFilmNotFound)

		_, err = business.ListFilmByID(1, bladeRunner, func(int64) (*model.Director, error) { return nil, failure }, cast)
		assert.ErrorIs(t, err, failure)

		_, err = business.ListFilmByID(1, bladeRunner, ridleyScott, func(int64) ([]model.CastMember, error) { return nil, failure })
		assert.ErrorIs(t, err, failure)
	})
}

package business

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/Agurato/filmdelegate/internal/model"
)

type FilmStorer interface {
	GetFilms() ([]model.Film, error)
	GetFilmFromID(id int64) (*model.Film, error)
	// AddFilmWithCast stores the film and its cast, or nothing when one of them cannot be stored
	AddFilmWithCast(film *model.Film, cast []model.CastMember) error

	GetDirectorFromID(id int64) (*model.Director, error)
	GetDirectorFromName(name string) (*model.Director, error)
	AddDirector(director *model.Director) error

	GetCastMembersFromFilmID(filmID int64) ([]model.CastMember, error)
}

type FilmSearcher interface {
	Filter(search string, films []model.Film) []model.Film
}

type FilmFilterer interface {
	FilterFilms(filter model.FilmFilter, films []model.Film) []model.Film
}

type FilmManager struct {
	FilmStorer
	FilmSearcher
	FilmFilterer
}

func NewFilmManager(fs FilmStorer, s FilmSearcher, f FilmFilterer) *FilmManager {
	return &FilmManager{
		FilmStorer:   fs,
		FilmSearcher: s,
		FilmFilterer: f,
	}
}

// AddFilm stores a new film with its cast, creating its director if unknown.
// A director created for a film which could not be stored is reused on the next attempt.
func (fm FilmManager) AddFilm(newFilm *model.NewFilm) (*model.Film, error) {
	film := &model.Film{
		Name:    strings.TrimSpace(newFilm.Name),
		Year:    newFilm.Year,
		Country: strings.ToUpper(newFilm.Country),
	}

	if directorName := strings.TrimSpace(newFilm.Director); directorName != "" {
		director, err := fm.findOrAddDirector(directorName)
		if err != nil {
			return nil, err
		}
		film.DirectorID = director.ID
	}

	cast := make([]model.CastMember, 0, len(newFilm.Cast))
	for _, member := range newFilm.Cast {
		cast = append(cast, model.CastMember{
			Name:      strings.TrimSpace(member.Name),
			Character: strings.TrimSpace(member.Character),
		})
	}
	if err := fm.FilmStorer.AddFilmWithCast(film, cast); err != nil {
		return nil, fmt.Errorf("cannot add film '%s' to database: %w", film.Name, err)
	}
	log.Info().Int64("filmID", film.ID).Str("name", film.Name).Int("cast", len(newFilm.Cast)).Msg("Added film")

	return film, nil
}

func (fm FilmManager) findOrAddDirector(name string) (*model.Director, error) {
	director, err := fm.FilmStorer.GetDirectorFromName(name)
	if err == nil {
		return director, nil
	}
	if !errors.Is(err, model.ErrDirectorNotFound) {
		return nil, fmt.Errorf("could not get director '%s': %w", name, err)
	}
	director = &model.Director{Name: name}
	if err := fm.FilmStorer.AddDirector(director); err != nil {
		return nil, fmt.Errorf("cannot add director '%s' to database: %w", name, err)
	}
	return director, nil
}

// GetFilm returns a Film from its ID
func (fm FilmManager) GetFilm(id int64) (*model.Film, error) {
	return fm.FilmStorer.GetFilmFromID(id)
}

// GetDirector returns a Director from its ID. Films without director have a zero DirectorID.
func (fm FilmManager) GetDirector(id int64) (*model.Director, error) {
	if id == 0 {
		return nil, model.ErrDirectorNotFound
	}
	return fm.FilmStorer.GetDirectorFromID(id)
}

// GetCastMembers returns the cast of a film, ordered by ID
func (fm FilmManager) GetCastMembers(filmID int64) ([]model.CastMember, error) {
	cast, err := fm.FilmStorer.GetCastMembersFromFilmID(filmID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(cast, func(a, b model.CastMember) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return cast, nil
}

// GetFilmsFiltered returns the films matching the filter and the search terms, ordered by ID.
// Without search terms, every film matching the filter is returned.
func (fm FilmManager) GetFilmsFiltered(filter model.FilmFilter, search string) ([]model.Film, error) {
	films, err := fm.FilmStorer.GetFilms()
	if err != nil {
		return nil, fmt.Errorf("could not get films: %w", err)
	}
	slices.SortFunc(films, func(a, b model.Film) int {
		return cmp.Compare(a.ID, b.ID)
	})
	films = fm.FilmFilterer.FilterFilms(filter, films)

	search = strings.TrimSpace(search)
	if search == "" {
		return films, nil
	}
	return fm.FilmSearcher.Filter(search, films), nil
}

package server_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/model"
	"github.com/Agurato/filmdelegate/internal/service/server"
)

func insertFilm(film *model.NewFilm) (*model.Film, error) {
	return &model.Film{ID: 1, Name: film.Name}, nil
}

func createFilmHandlers(userValid business.UserValid) *server.RouteHandlers {
	return &server.RouteHandlers{
		CreateFilm: func(_ *model.User, film *model.NewFilm) (*model.Film, error) {
			return business.CreateFilm(film, userValid, insertFilm)
		},
	}
}

func listFilmByIDHandlers(getFilm business.GetFilmByID) *server.RouteHandlers {
	return &server.RouteHandlers{
		ListFilmByID: func(id int64) (*model.FilmDetails, error) {
			return business.ListFilmByID(id,
				getFilm,
				func(int64) (*model.Director, error) { return &model.Director{}, nil },
				func(int64) ([]model.CastMember, error) { return []model.CastMember{{}}, nil },
			)
		},
	}
}

func TestPOSTFilmInvalidData(t *testing.T) {
	ts := newTestServer(t, createFilmHandlers(func() bool { return true }))

	w := ts.do(t, http.MethodPost, "/api/delegate/films", model.Film{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/films", map[string]any{"Name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/films", `{"Name": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/delegate/films", map[string]any{"Name": "Shrek", "Country": "XX", "Year": 1500})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Fields []struct{ Field, Rule string }
	}](t, w)
	assert.ElementsMatch(t, []struct{ Field, Rule string }{
		{Field: "NewFilm.Year", Rule: "min"},
		{Field: "NewFilm.Country", Rule: "country"},
	}, body.Fields)

	w = ts.do(t, http.MethodPost, "/api/delegate/films", map[string]any{"Name": "Shrek", "Cast": []map[string]string{{"Character": "Donkey"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPOSTFilmInvalidUser(t *testing.T) {
	ts := newTestServer(t, createFilmHandlers(func() bool { return false }))

	w := ts.do(t, http.MethodPost, "/api/delegate/films", model.Film{Name: "Shrek"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPOSTFilmValidatesBeforeAuthorizing(t *testing.T) {
	ts := newTestServer(t, createFilmHandlers(func() bool { return false }))

	w := ts.do(t, http.MethodPost, "/api/delegate/films", model.Film{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPOSTFilm(t *testing.T) {
	ts := newTestServer(t, createFilmHandlers(func() bool { return true }))

	w := ts.do(t, http.MethodPost, "/api/delegate/films", map[string]any{"Name": "Shrek", "Country": "us", "Year": 2001})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/delegate/films/1", w.Header().Get("Location"))
	assert.Equal(t, "Shrek", decode[model.Film](t, w).Name)
}

func TestPOSTFilmInsertError(t *testing.T) {
	ts := newTestServer(t, &server.RouteHandlers{
		CreateFilm: func(_ *model.User, film *model.NewFilm) (*model.Film, error) {
			return business.CreateFilm(film, func() bool { return true }, func(*model.NewFilm) (*model.Film, error) {
				return nil, errors.New("disk full")
			})
		},
	})

	w := ts.do(t, http.MethodPost, "/api/delegate/films", model.Film{Name: "Shrek"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestGETFilm(t *testing.T) {
	ts := newTestServer(t, listFilmByIDHandlers(func(id int64) (*model.Film, error) {
		return &model.Film{Name: "Blade Runner"}, nil
	}))

	w := ts.do(t, http.MethodGet, "/api/delegate/films/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, strings.ToLower(w.Body.String()), "blade runner")
}

func TestGETFilmNotFound(t *testing.T) {
	ts := newTestServer(t, listFilmByIDHandlers(func(id int64) (*model.Film, error) {
		return nil, nil
	}))

	w := ts.do(t, http.MethodGet, "/api/delegate/films/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/delegate/films/blade-runner", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/delegate/films/0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGETFilmLookupError(t *testing.T) {
	ts := newTestServer(t, listFilmByIDHandlers(func(id int64) (*model.Film, error) {
		return nil, errors.New("connection reset")
	}))

	w := ts.do(t, http.MethodGet, "/api/delegate/films/1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFilmsWithStore(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/delegate/films", model.NewFilm{Name: "Shrek"})
	assert.Equal(t, http.StatusForbidden, w.Code, "anonymous users cannot create films")

	w = ts.do(t, http.MethodPost, "/api/delegate/start", map[string]string{
		"username": "Agurato", "password1": "password123", "password2": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = ts.do(t, http.MethodPost, "/api/delegate/films", model.NewFilm{
		Name:     "Blade Runner",
		Year:     1982,
		Country:  "us",
		Director: "Ridley Scott",
		Cast: []model.NewCastMember{
			{Name: "Harrison Ford", Character: "Rick Deckard"},
			{Name: "Rutger Hauer", Character: "Roy Batty"},
		},
	}, cookies...)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.Film](t, w)
	assert.Equal(t, "US", created.Country)

	for _, name := range []string{"Alien", "Shrek"} {
		w = ts.do(t, http.MethodPost, "/api/delegate/films", model.NewFilm{Name: name, Director: "ridley scott"}, cookies...)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = ts.do(t, http.MethodGet, w.Header().Get("Location"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	shrek := decode[model.FilmDetails](t, w)
	assert.Equal(t, "Shrek", shrek.Name)
	require.NotNil(t, shrek.Director)
	assert.Equal(t, created.DirectorID, shrek.Director.ID)
	assert.Empty(t, shrek.Cast)

	w = ts.do(t, http.MethodGet, "/api/delegate/films/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[model.FilmDetails](t, w)
	assert.Equal(t, "Blade Runner", details.Name)
	require.NotNil(t, details.Director)
	assert.Equal(t, "Ridley Scott", details.Director.Name)
	require.Len(t, details.Cast, 2)
	assert.Equal(t, "Rick Deckard", details.Cast[0].Character)

	w = ts.do(t, http.MethodGet, "/api/delegate/films/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	type listing struct {
		Films []model.Film
		Pages []model.Pagination
	}
	w = ts.do(t, http.MethodGet, "/api/delegate/films", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[listing](t, w)
	assert.Equal(t, []string{"Blade Runner", "Alien"}, filmNames(page.Films))
	assert.Equal(t, []model.Pagination{{Number: 1, Active: true}, {Number: 2}}, page.Pages)

	w = ts.do(t, http.MethodGet, "/api/delegate/films?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Shrek"}, filmNames(decode[listing](t, w).Films))

	w = ts.do(t, http.MethodGet, "/api/delegate/films?search=blade%20runer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Blade Runner"}, filmNames(decode[listing](t, w).Films))

	w = ts.do(t, http.MethodGet, "/api/delegate/films?page=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func filmNames(films []model.Film) []string {
	names := make([]string, 0, len(films))
	for _, film := range films {
		names = append(names, film.Name)
	}
	return names
}

func TestGETFilmsFilters(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/delegate/start", map[string]string{
		"username": "Agurato", "password1": "password123", "password2": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()

	for _, film := range []model.NewFilm{
		{Name: "Blade Runner", Year: 1982, Country: "US"},
		{Name: "Amélie", Year: 2001, Country: "FR"},
		{Name: "Shrek", Year: 2001, Country: "US"},
		{Name: "Delicatessen", Year: 1991, Country: "FR"},
	} {
		w = ts.do(t, http.MethodPost, "/api/delegate/films", film, cookies...)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	type listing struct {
		Films     []model.Film
		Decades   []model.Decade
		Countries []model.Country
	}
	get := func(query string) listing {
		w := ts.do(t, http.MethodGet, "/api/delegate/films"+query, nil)
		require.Equal(t, http.StatusOK, w.Code, query)
		return decode[listing](t, w)
	}

	all := get("")
	assert.Equal(t, []string{"Blade Runner", "Amélie"}, filmNames(all.Films))
	require.Len(t, all.Decades, 3)
	assert.Equal(t, 2000, all.Decades[0].DecadeYear)
	assert.Equal(t, 1980, all.Decades[2].DecadeYear)
	assert.Equal(t, []model.Country{{Code: "FR", Name: "France"}, {Code: "US", Name: "United States"}}, all.Countries)

	assert.Equal(t, []string{"Amélie", "Shrek"}, filmNames(get("?year=2001").Films))
	assert.Equal(t, []string{"Amélie", "Delicatessen"}, filmNames(get("?country=France").Films))
	assert.Equal(t, []string{"Delicatessen"}, filmNames(get("?decade=1990s&country=fr").Films))
	assert.Equal(t, []string{"Shrek"}, filmNames(get("?year=2001&country=USA&search=shrek").Films))

	filtered := get("?country=JP")
	assert.Empty(t, filtered.Films)
	assert.Len(t, filtered.Countries, 2, "facets are computed over every film")

	for _, query := range []string{"?year=82", "?decade=1985s", "?year=1982&decade=1980s", "?country=Atlantis"} {
		w := ts.do(t, http.MethodGet, "/api/delegate/films"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

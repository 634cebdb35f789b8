package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/model"
)

type FilmLister interface {
	GetFilms() ([]model.Film, error)
	GetFilmsFiltered(filter model.FilmFilter, search string) ([]model.Film, error)
}

type FilmFilterer interface {
	ParseFilter(year, decade, country string) (model.FilmFilter, error)
	GetDecades(films []model.Film) []model.Decade
	GetCountries(films []model.Film) []model.Country
}

type FilmHandler struct {
	RouteHandlers
	FilmLister
	FilmFilterer
	paginater *business.Paginater[model.Film]
}

func NewFilmHandler(rh RouteHandlers, fl FilmLister, ff FilmFilterer, p *business.Paginater[model.Film]) *FilmHandler {
	return &FilmHandler{
		RouteHandlers: rh,
		FilmLister:    fl,
		FilmFilterer:  ff,
		paginater:     p,
	}
}

// POSTFilm creates a film
func (fh FilmHandler) POSTFilm(c *gin.Context) {
	var newFilm model.NewFilm
	if err := c.ShouldBindJSON(&newFilm); err != nil {
		abortWithBindingError(c, err)
		return
	}

	film, err := fh.RouteHandlers.CreateFilm(currentUser(c), &newFilm)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if film != nil {
		c.Header("Location", fmt.Sprintf("/api/delegate/films/%d", film.ID))
	}
	c.JSON(http.StatusCreated, film)
}

// GETFilm returns a film with its director and cast
func (fh FilmHandler) GETFilm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		abortWithError(c, fmt.Errorf("incorrect film ID '%s': %w", c.Param("id"), model.ErrFilmNotFound))
		return
	}

	film, err := fh.RouteHandlers.ListFilmByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

// GETFilms returns a page of the films matching the year, decade, country and search query parameters,
// along with the decades and countries of every film
func (fh FilmHandler) GETFilms(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return
	}
	filter, err := fh.FilmFilterer.ParseFilter(c.Query("year"), c.Query("decade"), c.Query("country"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	allFilms, err := fh.FilmLister.GetFilms()
	if err != nil {
		abortWithError(c, err)
		return
	}
	films, err := fh.FilmLister.GetFilmsFiltered(filter, c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	films, pages := fh.paginater.GetPagination(page, films)
	c.JSON(http.StatusOK, gin.H{
		"films":     films,
		"pages":     pages,
		"decades":   fh.FilmFilterer.GetDecades(allFilms),
		"countries": fh.FilmFilterer.GetCountries(allFilms),
	})
}

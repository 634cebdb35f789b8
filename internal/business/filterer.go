package business

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pariz/gountries"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/Agurato/filmdelegate/internal/model"
)

// Filterer filters films by release year and country
type Filterer struct {
	countries   *gountries.Query
	yearRegex   *regexp.Regexp
	decadeRegex *regexp.Regexp
}

func NewFilterer() *Filterer {
	return &Filterer{
		countries:   gountries.New(),
		yearRegex:   regexp.MustCompile(`^\d{4}$`),
		decadeRegex: regexp.MustCompile(`^(?P<decade>\d{3}0)s?$`),
	}
}

// ParseFilter builds a filter from a year ("1982"), a decade ("1980s") and a country, given either as
// an ISO 3166-1 code ("US", "USA") or by its common name ("France").
// A year and a decade cannot be combined.
func (f Filterer) ParseFilter(year, decade, country string) (filter model.FilmFilter, err error) {
	year, decade, country = strings.TrimSpace(year), strings.TrimSpace(decade), strings.TrimSpace(country)

	switch {
	case year != "" && decade != "":
		return filter, fmt.Errorf("%w: year and decade cannot be combined", model.ErrInvalidFilter)
	case year != "":
		if !f.yearRegex.MatchString(year) {
			return filter, fmt.Errorf("%w: year '%s' must have 4 digits", model.ErrInvalidFilter, year)
		}
		yearInt, _ := strconv.Atoi(year)
		filter.Years = []int{yearInt}
	case decade != "":
		submatches := f.decadeRegex.FindStringSubmatch(decade)
		if submatches == nil {
			return filter, fmt.Errorf("%w: decade '%s' must look like 1980s", model.ErrInvalidFilter, decade)
		}
		decadeYear, _ := strconv.Atoi(submatches[f.decadeRegex.SubexpIndex("decade")])
		for i := decadeYear; i < decadeYear+10; i++ {
			filter.Years = append(filter.Years, i)
		}
	}

	if country != "" {
		code, err := f.countryCode(country)
		if err != nil {
			return filter, err
		}
		filter.Country = code
	}
	return filter, nil
}

func (f Filterer) countryCode(country string) (string, error) {
	var (
		found gountries.Country
		err   error
	)
	if len(country) == 2 || len(country) == 3 {
		found, err = f.countries.FindCountryByAlpha(country)
	} else {
		found, err = f.countries.FindCountryByName(country)
	}
	if err != nil {
		return "", fmt.Errorf("%w: unknown country '%s'", model.ErrInvalidFilter, country)
	}
	return found.Alpha2, nil
}

// FilterFilms returns the films matching the filter, in the same order
func (f Filterer) FilterFilms(filter model.FilmFilter, films []model.Film) []model.Film {
	return lo.Filter(films, func(film model.Film, _ int) bool {
		if len(filter.Years) > 0 && !slices.Contains(filter.Years, film.Year) {
			return false
		}
		return filter.Country == "" || film.Country == filter.Country
	})
}

// GetCountryName returns the common name of a country from its code
func (f Filterer) GetCountryName(code string) string {
	country, err := f.countries.FindCountryByAlpha(code)
	if err != nil {
		return code
	}
	return country.Name.Common
}

// GetCountries returns the countries of the films, ordered by name
func (f Filterer) GetCountries(films []model.Film) []model.Country {
	codes := lo.Uniq(lo.FilterMap(films, func(film model.Film, _ int) (string, bool) {
		return film.Country, film.Country != ""
	}))
	countries := lo.Map(codes, func(code string, _ int) model.Country {
		return model.Country{Code: code, Name: f.GetCountryName(code)}
	})
	slices.SortFunc(countries, func(a, b model.Country) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return countries
}

// GetDecades returns the decades spanning the release years of the films, most recent first.
// Films without release year are ignored.
func (f Filterer) GetDecades(films []model.Film) []model.Decade {
	years := lo.FilterMap(films, func(film model.Film, _ int) (int, bool) {
		return film.Year, film.Year != 0
	})
	decades := []model.Decade{}
	if len(years) == 0 {
		return decades
	}
	minReleaseYear, maxReleaseYear := lo.Min(years), lo.Max(years)

	var decade model.Decade
	for i := maxReleaseYear; i >= minReleaseYear; i-- {
		decade.DecadeYear = (i / 10) * 10
		decade.Years = append(decade.Years, i)
		if i%10 == 0 || i == minReleaseYear {
			decades = append(decades, decade)
			decade = model.Decade{}
		}
	}
	return decades
}

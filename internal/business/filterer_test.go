package business_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/model"
)

func TestFiltererParseFilter(t *testing.T) {
	f := business.NewFilterer()

	filter, err := f.ParseFilter("", "", "")
	require.NoError(t, err)
	assert.Equal(t, model.FilmFilter{}, filter)

	filter, err = f.ParseFilter("1982", "", "usa")
	require.NoError(t, err)
	assert.Equal(t, model.FilmFilter{Years: []int{1982}, Country: "US"}, filter)

	filter, err = f.ParseFilter("", "1990s", "France")
	require.NoError(t, err)
	assert.Equal(t, []int{1990, 1991, 1992, 1993, 1994, 1995, 1996, 1997, 1998, 1999}, filter.Years)
	assert.Equal(t, "FR", filter.Country)

	filter, err = f.ParseFilter("", "2000", "jp")
	require.NoError(t, err)
	assert.Len(t, filter.Years, 10)
	assert.Equal(t, 2000, filter.Years[0])
	assert.Equal(t, "JP", filter.Country)

	for _, params := range [][3]string{
		{"1982", "1980s", ""},
		{"82", "", ""},
		{"", "1985s", ""},
		{"", "eighties", ""},
		{"", "", "Atlantis"},
		{"", "", "XX"},
	} {
		_, err := f.ParseFilter(params[0], params[1], params[2])
		assert.ErrorIs(t, err, model.ErrInvalidFilter, params)
	}
}

func TestFiltererFilterFilms(t *testing.T) {
	f := business.NewFilterer()
	films := []model.Film{
		{ID: 1, Name: "Blade Runner", Year: 1982, Country: "US"},
		{ID: 2, Name: "Amélie", Year: 2001, Country: "FR"},
		{ID: 3, Name: "Shrek", Year: 2001, Country: "US"},
		{ID: 4, Name: "Untitled"},
	}

	assert.Equal(t, films, f.FilterFilms(model.FilmFilter{}, films))
	assert.Equal(t, []model.Film{films[1], films[2]}, f.FilterFilms(model.FilmFilter{Years: []int{2001}}, films))
	assert.Equal(t, []model.Film{films[0], films[2]}, f.FilterFilms(model.FilmFilter{Country: "US"}, films))
	assert.Equal(t, []model.Film{films[2]}, f.FilterFilms(model.FilmFilter{Years: []int{2000, 2001}, Country: "US"}, films))
	assert.Empty(t, f.FilterFilms(model.FilmFilter{Country: "JP"}, films))
}

func TestFiltererFacets(t *testing.T) {
	f := business.NewFilterer()
	films := []model.Film{
		{ID: 1, Year: 1998, Country: "US"},
		{ID: 2, Year: 2001, Country: "FR"},
		{ID: 3, Year: 2000, Country: "US"},
		{ID: 4},
	}

	assert.Equal(t, []model.Decade{
		{DecadeYear: 2000, Years: []int{2001, 2000}},
		{DecadeYear: 1990, Years: []int{1999, 1998}},
	}, f.GetDecades(films))
	assert.Empty(t, f.GetDecades(nil))

	assert.Equal(t, []model.Country{
		{Code: "FR", Name: "France"},
		{Code: "US", Name: "United States"},
	}, f.GetCountries(films))
	assert.Equal(t, "France", f.GetCountryName("FR"))
}

package model

// FilmFilter restricts a film listing. Zero values do not filter.
type FilmFilter struct {
	Years   []int
	Country string
}

// Decade groups the years of the films released in it, most recent first
type Decade struct {
	DecadeYear int
	Years      []int
}

// Country is a country films were made in
type Country struct {
	Code string
	Name string
}

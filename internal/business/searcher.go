package business

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"

	"github.com/Agurato/filmdelegate/internal/model"
)

// Searcher matches films against search terms, tolerating typos
type Searcher struct {
	specialChars *regexp.Regexp
}

func NewSearcher() *Searcher {
	return &Searcher{
		specialChars: regexp.MustCompile("[.,\\/#!$%\\^&\\*;:{}=\\-_~()%\\s\\\\'\"]"),
	}
}

func (s Searcher) normalize(str string) string {
	// A Caser is stateful, one per call
	return s.specialChars.ReplaceAllString(cases.Fold().String(str), "")
}

// Distance returns 0 when the name contains the search terms, the Levenshtein distance between both
// when it is small enough to be a typo, and -1 otherwise
func (s Searcher) Distance(search, name string) int {
	search = s.normalize(search)
	name = s.normalize(name)
	if strings.Contains(name, search) {
		return 0
	}
	distance := levenshtein.ComputeDistance(search, name)
	if distance < utf8.RuneCountInString(search)/3 {
		return distance
	}
	return -1
}

// Filter returns the films matching the search, closest matches first
func (s Searcher) Filter(search string, films []model.Film) []model.Film {
	type match struct {
		film     model.Film
		distance int
	}

	var matches []match
	for _, film := range films {
		if distance := s.Distance(search, film.Name); distance >= 0 {
			matches = append(matches, match{film: film, distance: distance})
		}
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		return a.distance - b.distance
	})

	filtered := make([]model.Film, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, m.film)
	}
	return filtered
}

package model

import "strings"

// Film is a film as stored and served by the API
type Film struct {
	ID         int64  `bson:"_id"`
	Name       string `bson:"name"`
	Year       int    `bson:"year,omitempty" json:",omitempty"`
	Country    string `bson:"country,omitempty" json:",omitempty"`
	DirectorID int64  `bson:"director_id,omitempty" json:",omitempty"`
}

// NewFilm is the payload accepted when creating a film
type NewFilm struct {
	Name     string          `binding:"required,notblank"`
	Year     int             `binding:"omitempty,min=1878,max=2100"`
	Country  string          `binding:"omitempty,country"`
	Director string          `binding:"omitempty,max=255"`
	Cast     []NewCastMember `binding:"omitempty,dive"`
}

type NewCastMember struct {
	Name      string `binding:"required,notblank"`
	Character string
}

// Validate checks the rules that do not depend on the request binding
func (nf NewFilm) Validate() error {
	if strings.TrimSpace(nf.Name) == "" {
		return ErrInvalidFilm
	}
	for _, member := range nf.Cast {
		if strings.TrimSpace(member.Name) == "" {
			return ErrInvalidFilm
		}
	}
	return nil
}

// FilmDetails is a film with its director and cast resolved
type FilmDetails struct {
	Film
	Director *Director `json:",omitempty"`
	Cast     []CastMember
}

package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFilm        = errors.New("film name is required")
	ErrInvalidFilter      = errors.New("invalid film filter")
	ErrForbidden          = errors.New("user is not allowed to perform this action")
	ErrFilmNotFound       = errors.New("film not found")
	ErrDirectorNotFound   = errors.New("director not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrOwnerAlreadyExists = errors.New("owner already exists")
	ErrAuthentication     = errors.New("authentication failed")
	ErrInvalidUser        = errors.New("invalid user")
	ErrUsernameTaken      = fmt.Errorf("%w: this username is already taken", ErrInvalidUser)
)

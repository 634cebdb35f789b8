package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/filmdelegate/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password TEXT NOT NULL,
	is_owner INTEGER NOT NULL DEFAULT 0,
	is_admin INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS users_single_owner ON users(is_owner) WHERE is_owner = 1;
CREATE TABLE IF NOT EXISTS directors (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL COLLATE NOCASE
);
CREATE TABLE IF NOT EXISTS films (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL CHECK (trim(name) <> ''),
	year        INTEGER NOT NULL DEFAULT 0,
	country     TEXT NOT NULL DEFAULT '',
	director_id INTEGER REFERENCES directors(id)
);
CREATE TABLE IF NOT EXISTS cast_members (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	film_id   INTEGER NOT NULL REFERENCES films(id) ON DELETE CASCADE,
	name      TEXT NOT NULL CHECK (trim(name) <> ''),
	character_name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS cast_members_film_id ON cast_members(film_id);
`

// sqliteConstraint is the primary result code of constraint violations
const sqliteConstraint = 19

// constraintViolated tells if err is a violation of a constraint on column, formatted as "table.column"
func constraintViolated(err error, column string) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqliteConstraint &&
		strings.Contains(sqliteErr.Error(), column)
}

// SQLite is a store backed by an embedded SQLite database
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path (":memory:" for a throwaway one) and creates the tables
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("could not open SQLite database '%s': %w", path, err)
	}
	// Every connection to ":memory:" is a distinct database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create SQLite schema: %w", err)
	}
	log.Info().Str("path", path).Msg("Using SQLite database")

	return &SQLite{db: db}, nil
}

func (s SQLite) Close() error {
	return s.db.Close()
}

func (s SQLite) IsOwnerPresent() (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE is_owner = 1`).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s SQLite) IsUsernameAvailable(username string) (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE name = ?`, username).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s SQLite) GetUserFromName(username string) (*model.User, error) {
	var user model.User
	err := s.db.QueryRow(`SELECT id, name, password, is_owner, is_admin FROM users WHERE name = ? COLLATE BINARY`, username).
		Scan(&user.ID, &user.Name, &user.Password, &user.IsOwner, &user.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser adds the user. The unique indexes reject a second owner and a taken name.
func (s SQLite) CreateUser(user *model.User) error {
	res, err := s.db.Exec(`INSERT INTO users (name, password, is_owner, is_admin) VALUES (?, ?, ?, ?)`,
		user.Name, user.Password, user.IsOwner, user.IsAdmin)
	switch {
	case constraintViolated(err, "users.is_owner"):
		return model.ErrOwnerAlreadyExists
	case constraintViolated(err, "users.name"):
		return model.ErrUsernameTaken
	case err != nil:
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (s SQLite) SetUserPassword(userID int64, newPassword string) error {
	res, err := s.db.Exec(`UPDATE users SET password = ? WHERE id = ?`, newPassword, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

const filmColumns = `id, name, year, country, COALESCE(director_id, 0)`

func scanFilm(row interface{ Scan(...any) error }) (model.Film, error) {
	var film model.Film
	err := row.Scan(&film.ID, &film.Name, &film.Year, &film.Country, &film.DirectorID)
	return film, err
}

func (s SQLite) GetFilms() ([]model.Film, error) {
	rows, err := s.db.Query(`SELECT ` + filmColumns + ` FROM films ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error while retrieving films from DB: %w", err)
	}
	defer rows.Close()

	var films []model.Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("error while decoding film from DB: %w", err)
		}
		films = append(films, film)
	}
	return films, rows.Err()
}

func (s SQLite) GetFilmFromID(id int64) (*model.Film, error) {
	film, err := scanFilm(s.db.QueryRow(`SELECT `+filmColumns+` FROM films WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrFilmNotFound
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// AddFilmWithCast adds the film and its cast in a single transaction
func (s SQLite) AddFilmWithCast(film *model.Film, cast []model.CastMember) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var directorID sql.NullInt64
	if film.DirectorID != 0 {
		directorID = sql.NullInt64{Int64: film.DirectorID, Valid: true}
	}
	res, err := tx.Exec(`INSERT INTO films (name, year, country, director_id) VALUES (?, ?, ?, ?)`,
		film.Name, film.Year, film.Country, directorID)
	if err != nil {
		return err
	}
	filmID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	castIDs := make([]int64, len(cast))
	for i, member := range cast {
		res, err := tx.Exec(`INSERT INTO cast_members (film_id, name, character_name) VALUES (?, ?, ?)`,
			filmID, member.Name, member.Character)
		if err != nil {
			return fmt.Errorf("cannot add cast member '%s': %w", member.Name, err)
		}
		if castIDs[i], err = res.LastInsertId(); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	film.ID = filmID
	for i := range cast {
		cast[i].ID = castIDs[i]
		cast[i].FilmID = filmID
	}
	return nil
}

func (s SQLite) getDirector(query string, arg any) (*model.Director, error) {
	var director model.Director
	err := s.db.QueryRow(query, arg).Scan(&director.ID, &director.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrDirectorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &director, nil
}

func (s SQLite) GetDirectorFromID(id int64) (*model.Director, error) {
	return s.getDirector(`SELECT id, name FROM directors WHERE id = ?`, id)
}

func (s SQLite) GetDirectorFromName(name string) (*model.Director, error) {
	return s.getDirector(`SELECT id, name FROM directors WHERE name = ? ORDER BY id LIMIT 1`, name)
}

func (s SQLite) AddDirector(director *model.Director) error {
	res, err := s.db.Exec(`INSERT INTO directors (name) VALUES (?)`, director.Name)
	if err != nil {
		return err
	}
	director.ID, err = res.LastInsertId()
	return err
}

func (s SQLite) GetCastMembersFromFilmID(filmID int64) ([]model.CastMember, error) {
	rows, err := s.db.Query(`SELECT id, film_id, name, character_name FROM cast_members WHERE film_id = ? ORDER BY id`, filmID)
	if err != nil {
		return nil, fmt.Errorf("error while retrieving cast of film %d from DB: %w", filmID, err)
	}
	defer rows.Close()

	cast := []model.CastMember{}
	for rows.Next() {
		var member model.CastMember
		if err := rows.Scan(&member.ID, &member.FilmID, &member.Name, &member.Character); err != nil {
			return nil, fmt.Errorf("error while decoding cast member from DB: %w", err)
		}
		cast = append(cast, member)
	}
	return cast, rows.Err()
}

package infrastructure

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/config"
	"github.com/Agurato/filmdelegate/internal/model"
)

// Store holds films and users
type Store interface {
	business.FilmStorer
	business.UserStorer
	io.Closer
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*MongoDB)(nil)
)

// OpenStore opens the store selected in the configuration
func OpenStore(ctx context.Context, cfg config.Database) (Store, error) {
	switch cfg.Type {
	case config.DBTypeMemory:
		return NewMemory(), nil
	case config.DBTypeSQLite:
		sqlite, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite, nil
	case config.DBTypeMongo:
		mongoDB, err := NewMongoDB(ctx, MongoURI(cfg.User, cfg.Password, cfg.URL, cfg.Port), cfg.Name)
		if err != nil {
			return nil, err
		}
		return mongoDB, nil
	}
	return nil, fmt.Errorf("unknown database type '%s'", cfg.Type)
}

// checkFilmWithCast rejects what the stores cannot hold: a film or cast member without name
func checkFilmWithCast(film *model.Film, cast []model.CastMember) error {
	if strings.TrimSpace(film.Name) == "" {
		return model.ErrInvalidFilm
	}
	for _, member := range cast {
		if strings.TrimSpace(member.Name) == "" {
			return fmt.Errorf("%w: cast member without name", model.ErrInvalidFilm)
		}
	}
	return nil
}

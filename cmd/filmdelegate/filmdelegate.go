package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matthewhartstonge/argon2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/filmdelegate/internal/business"
	"github.com/Agurato/filmdelegate/internal/config"
	"github.com/Agurato/filmdelegate/internal/infrastructure"
	"github.com/Agurato/filmdelegate/internal/model"
	"github.com/Agurato/filmdelegate/internal/service/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// run serves until the process is interrupted or the server fails, then releases the store
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := infrastructure.OpenStore(context.Background(), cfg.Database)
	if err != nil {
		return fmt.Errorf("could not open %s database: %w", cfg.Database.Type, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Could not close database")
		}
	}()

	filterer := business.NewFilterer()
	fm := business.NewFilmManager(store, business.NewSearcher(), filterer)
	um := business.NewUserManager(store, argon2.DefaultConfig())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mainHandler := server.NewMainHandler(um)
	filmHandler := server.NewFilmHandler(
		server.NewRouteHandlers(fm, um),
		fm,
		filterer,
		business.NewPaginater[model.Film](cfg.ItemsPerPage))

	router, err := server.NewServer(cfg.CookieSecret, mainHandler, filmHandler, registry)
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.ListenAddr).Msg("Listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down gracefully: %w", err)
	}
	return nil
}

func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

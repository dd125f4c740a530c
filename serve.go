// serve.go
//
// Process wiring shared by the HTTP server and the console player.
// Responsibilities:
//   - Logging level from --log-level.
//   - Building the model, word list, engines and history store from Config.
//   - Running the HTTP server until the context is cancelled.

package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessgames/internal/game"
	"github.com/robalobadob/guessgames/internal/httpserver"
	"github.com/robalobadob/guessgames/internal/llm"
	"github.com/robalobadob/guessgames/internal/statetoken"
	"github.com/robalobadob/guessgames/internal/store"
	"github.com/robalobadob/guessgames/internal/wordgame"
	"github.com/robalobadob/guessgames/internal/words"
)

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// app holds everything a front end needs to run sessions.
type app struct {
	svc     *game.Service
	history store.Store
	words   []string
	db      *sql.DB
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newApp(cfg *Config) (*app, error) {
	list, err := words.Load(cfg.wordsFile)
	if err != nil {
		return nil, err
	}

	var model llm.Model = llm.Unavailable{}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		model = llm.NewAnthropic(cfg.model, cfg.maxTokens)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set; word game uses fallback questions")
	}

	a := &app{words: list}
	if cfg.db != "" {
		a.db, err = openDB(cfg.db)
		if err != nil {
			return nil, err
		}
		a.history = store.NewSQLiteStore(a.db)
	} else {
		a.history = store.NewMemoryStore()
	}

	engine := wordgame.New(model, list, cfg.maxQuestions)
	a.svc = game.NewService(game.NewRouter(engine), a.history)
	return a, nil
}

func serve(ctx context.Context, cfg *Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := httpserver.Options{
		ClientOrigin: cfg.clientOrigin,
		Words:        a.words,
		Timeout:      cfg.timeout,
	}
	if cfg.stateSecret != "" {
		opts.Tokens = statetoken.New(cfg.stateSecret, cfg.stateTTL)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           httpserver.New(a.svc, a.history, opts).Handler(),
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.timeout + 5*time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", releaseVersion).Msg("starting guessgames")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

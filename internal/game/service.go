package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessgames/internal/session"
	"github.com/robalobadob/guessgames/internal/store"
)

// Trouble is returned in place of the usual messages when a step fails.
var Trouble = []string{
	"I'm having trouble with the game at the moment.",
	"Please try again or select a different game.",
}

// Service is the session boundary: start, step and exit over caller-owned
// state. Every call works on a copy of its input; the caller keeps the only
// durable reference.
type Service struct {
	router  *Router
	history store.Store
	now     func() time.Time
}

// NewService wires a Router to an optional history store.
func NewService(r *Router, history store.Store) *Service {
	if r == nil {
		r = NewRouter(nil)
	}
	return &Service{router: r, history: history, now: time.Now}
}

// Start begins a game: "1" and "2" always start a fresh game of that kind,
// anything else goes through the router.
func (s *Service) Start(ctx context.Context, st session.State, choice string) session.State {
	return s.run(ctx, st, func(next *session.State) error {
		switch Normalize(choice) {
		case "1":
			s.router.begin(next, session.ChoiceNumber)
			return nil
		case "2":
			s.router.begin(next, session.ChoiceWord)
			return nil
		}
		return s.router.Route(ctx, next, choice)
	})
}

// Step routes one answer.
func (s *Service) Step(ctx context.Context, st session.State, answer string) session.State {
	return s.run(ctx, st, func(next *session.State) error {
		return s.router.Route(ctx, next, answer)
	})
}

// Exit summarises the session and resets the counters.
func (s *Service) Exit(ctx context.Context, st session.State) session.State {
	return s.run(ctx, st, func(next *session.State) error {
		Exit(next)
		return nil
	})
}

// run applies fn to a copy of st. Errors and panics leave the prior state
// intact apart from the trouble messages.
func (s *Service) run(ctx context.Context, st session.State, fn func(*session.State) error) (out session.State) {
	prior := st.Clone()
	prior.Normalize()
	next := prior.Clone()

	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("session", prior.ID).Interface("panic", p).Msg("step panicked")
			out = troubled(prior)
		}
	}()

	if err := fn(&next); err != nil {
		log.Error().Err(err).Str("session", prior.ID).Msg("step failed")
		return troubled(prior)
	}
	s.record(ctx, prior, next)
	return next
}

func troubled(st session.State) session.State {
	out := st.Clone()
	out.Say(Trouble...)
	return out
}

// resultSpace namespaces result ids derived from session transitions.
var resultSpace = uuid.MustParse("8f0d3a52-6c1e-4b7a-9d35-2f6e1c4b8a90")

// resultID is stable for a given session, game and game count, so replaying
// the finishing step stores the game once.
func resultID(sessionID, game string, count int) string {
	return uuid.NewSHA1(resultSpace, []byte(fmt.Sprintf("%s/%s/%d", sessionID, game, count))).String()
}

// record saves games completed by this transition. Failures are logged only.
func (s *Service) record(ctx context.Context, before, after session.State) {
	if s.history == nil {
		return
	}
	var results []store.Result
	if after.NumberGameCount > before.NumberGameCount && after.Number != nil {
		results = append(results, store.Result{
			ID:      resultID(after.ID, store.GameNumber, after.NumberGameCount),
			Game:    store.GameNumber,
			Outcome: fmt.Sprint(after.Number.Min),
		})
	}
	if after.WordGameCount > before.WordGameCount && after.Word != nil {
		results = append(results, store.Result{
			ID:      resultID(after.ID, store.GameWord, after.WordGameCount),
			Game:    store.GameWord,
			Outcome: after.Word.Guess,
			Turns:   len(after.Word.Questions),
		})
	}
	for _, r := range results {
		r.SessionID = after.ID
		r.FinishedAt = s.now().UTC()
		if err := s.history.Save(ctx, r); err != nil {
			log.Warn().Err(err).Str("session", after.ID).Str("game", r.Game).Msg("record result")
		}
	}
}

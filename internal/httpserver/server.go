// internal/httpserver/server.go
//
// HTTP server wiring for the guessing-game session API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Session endpoints: POST /game/start, /game/step, /game/exit
//     (plus /game/number and /game/word, kept as step aliases).
//   - History endpoints: GET /games/recent, GET /games/{id}, GET /stats.
//
// Notes:
//   - The server holds no session state. Every request carries the full state
//     (or a signed token when a state secret is configured) and every response
//     returns the next one. With a state secret configured only signed
//     tokens are accepted, so clients cannot edit their state.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessgames/internal/game"
	"github.com/robalobadob/guessgames/internal/session"
	"github.com/robalobadob/guessgames/internal/statetoken"
	"github.com/robalobadob/guessgames/internal/store"
)

// Options configure optional server features.
type Options struct {
	ClientOrigin string             // CORS origin; "" or "*" allows any
	Tokens       *statetoken.Signer // nil disables state tokens
	Words        []string           // shown by /debug/words
	Timeout      time.Duration      // handler timeout; default 30s
}

// Server bundles router, session service and history store.
type Server struct {
	r       *chi.Mux
	svc     *game.Service
	history store.Store
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *game.Service, history store.Store, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if history == nil {
		history = store.NewMemoryStore()
	}
	s := &Server{r: chi.NewRouter(), svc: svc, history: history, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                   // zerolog access log
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(chimw.Timeout(opts.Timeout)) // bound handler time (model calls included)
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))     // browser clients

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"guessgames","endpoints":["/health","POST /game/start","POST /game/step","POST /game/exit","/games/recent","/games/{id}","/stats"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- session boundary ---
	s.r.Route("/game", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/step", s.handleStep)
		r.Post("/number", s.handleStep)
		r.Post("/word", s.handleStep)
		r.Post("/exit", s.handleExit)
	})

	// --- history ---
	s.r.Get("/games/recent", s.handleRecent)
	s.r.Get("/games/{id}", s.handleGame)
	s.r.Get("/stats", s.handleStats)

	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"words": s.opts.Words})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Handler exposes the router (useful for tests and custom http.Server setups).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows a single origin, or any origin when origin is "" or "*".
// Credentials are only advertised for a concrete origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// turnReq is the body of every /game/* call.
type turnReq struct {
	State *session.State `json:"state"`
	Token string         `json:"token"`
	Input string         `json:"input"`
}

// turnRes carries the next state back to the caller.
type turnRes struct {
	State    session.State `json:"state"`
	Messages []string      `json:"messages"`
	Token    string        `json:"token,omitempty"`
}

var (
	errInvalidToken  = errors.New("invalid token")
	errTokenRequired = errors.New("token required")
)

// decodeTurn reads the request body and resolves the caller's state.
// A token takes precedence over an inline state; neither means a new session.
// With tokens configured, inline state is refused.
func (s *Server) decodeTurn(w http.ResponseWriter, r *http.Request) (session.State, string, bool) {
	var req turnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return session.State{}, "", false
	}
	st, err := s.resolveState(req)
	switch {
	case errors.Is(err, errTokenRequired):
		http.Error(w, `{"error":"token_required"}`, http.StatusBadRequest)
		return session.State{}, "", false
	case err != nil:
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
		return session.State{}, "", false
	}
	return st, req.Input, true
}

func (s *Server) resolveState(req turnReq) (session.State, error) {
	if req.Token != "" {
		if s.opts.Tokens == nil {
			return session.State{}, errInvalidToken
		}
		return s.opts.Tokens.Verify(req.Token)
	}
	if req.State != nil {
		if s.opts.Tokens != nil {
			return session.State{}, errTokenRequired
		}
		return *req.State, nil
	}
	return session.New(), nil
}

func (s *Server) respond(w http.ResponseWriter, st session.State) {
	res := turnRes{State: st, Messages: st.Messages}
	if s.opts.Tokens != nil {
		tok, err := s.opts.Tokens.Sign(st)
		if err != nil {
			log.Error().Err(err).Str("session", st.ID).Msg("sign state")
			http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
			return
		}
		res.Token = tok
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleStart begins a game ("1" number, "2" word) or routes other input.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	st, input, ok := s.decodeTurn(w, r)
	if !ok {
		return
	}
	s.respond(w, s.svc.Start(r.Context(), st, input))
}

// handleStep routes one answer through the turn router.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	st, input, ok := s.decodeTurn(w, r)
	if !ok {
		return
	}
	s.respond(w, s.svc.Step(r.Context(), st, input))
}

// handleExit returns the session summary and resets the counters.
func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	st, _, ok := s.decodeTurn(w, r)
	if !ok {
		return
	}
	s.respond(w, s.svc.Exit(r.Context(), st))
}

// ----------------------------- HISTORY -------------------------------------

// handleRecent lists recently completed games (?limit=N, default 20, max 100).
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, 100)
	}
	rows, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("recent games")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"games": rows})
}

// handleGame returns one completed game by id.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.history.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("get game")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleStats returns completed-game totals per game type.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.history.Totals(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("game totals")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(totals)
}

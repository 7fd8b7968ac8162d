// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health", "/categories".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me (see auth.go).
//
// Notes:
//   - Sessions live in the store; the engine is stateless, so handlers fetch a
//     GameState, apply an engine operation and save the returned value.
//   - The secret word is only sent to the client once the game is over.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/apps/go-server/internal/config"
	"github.com/robalobadob/hangman/apps/go-server/internal/game"
	"github.com/robalobadob/hangman/apps/go-server/internal/store"
)

// Server bundles router, session store, engine and DB handle.
type Server struct {
	r      *chi.Mux
	store  store.Store
	engine *game.Engine
	db     *sql.DB
	cfg    config.Config
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, eng *game.Engine, db *sql.DB, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, engine: eng, db: db, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","/categories","POST /game/new","POST /game/guess","GET /game/{id}","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.store.Len()})
	})
	s.r.Get("/categories", s.handleCategories)

	// Game endpoints: guests can play
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// writeJSON encodes v; encoding errors are only logged since headers are sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ------------------------------ GAME ---------------------------------------

// gameView is the client projection of a GameState.
type gameView struct {
	ID          string            `json:"gameId"`
	Category    string            `json:"category,omitempty"`
	Status      game.Status       `json:"status"`
	Spotlight   string            `json:"spotlight"`
	Remaining   int               `json:"remaining"`
	Length      int               `json:"length"`
	Mistakes    int               `json:"mistakes"`
	MaxMistakes int               `json:"maxMistakes"`
	TriesLeft   int               `json:"triesLeft"`
	Guessed     string            `json:"guessed"`
	Message     string            `json:"message"`
	Letters     []game.LetterSlot `json:"letters"`
	Word        string            `json:"word,omitempty"` // only once finished
}

func viewOf(g game.GameState) gameView {
	v := gameView{
		ID:          g.ID,
		Category:    g.Category,
		Status:      g.Status,
		Spotlight:   string(game.RenderSpotlight(g)),
		Remaining:   game.RemainingCount(g),
		Length:      len(g.SecretWord),
		Mistakes:    g.Mistakes,
		MaxMistakes: game.MaxMistakes,
		TriesLeft:   game.TriesLeft(g),
		Guessed:     g.Guessed.String(),
		Message:     game.Message(g),
		Letters:     game.LetterSlots(g),
	}
	if g.Status.Terminal() {
		v.Word = g.SecretWord
	}
	return v
}

// handleCategories lists the word pool categories in file order.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, total := s.engine.Pool().Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.engine.ListCategories(),
		"count":      cats,
		"words":      total,
	})
}

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Category string `json:"category"` // optional; empty = any category
}

// handleNewGame starts a session and stores it.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	g, err := s.engine.StartGame(req.Category)
	if errors.Is(err, game.ErrUnknownCategory) {
		writeError(w, http.StatusNotFound, "unknown_category")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("start game")
		writeError(w, http.StatusInternalServerError, "start_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Debug().Str("gameId", g.ID).Str("category", g.Category).Msg("game started")
	writeJSON(w, http.StatusOK, viewOf(g))
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// handleGuess applies one letter to a stored session. When the guess ends the game
// a signed-in player's stats are updated (best effort).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	letter, err := game.ParseLetter(req.Letter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	}

	var before game.GameState
	g, err := s.store.Update(r.Context(), req.GameID, func(cur game.GameState) (game.GameState, error) {
		before = cur
		return game.SubmitGuess(cur, rune(letter))
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !before.Status.Terminal() && g.Status.Terminal() {
		if me := userFrom(r); me != nil {
			if err := s.bumpStats(r.Context(), me.ID, g.Status == game.StatusWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

// handleGetGame returns the current view of a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

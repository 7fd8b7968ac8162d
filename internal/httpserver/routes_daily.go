// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a letter for today's game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or ?date=YYYY-MM-DD)
//
// Each player (user or anonymous cookie) gets one daily game per UTC day. Active
// sessions live in memory; the result is written to SQLite when the game ends.
// The word comes from the whole pool via daily.WordIndex(date, salt).

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/apps/go-server/internal/daily"
	"github.com/robalobadob/hangman/apps/go-server/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by playerID|date
	mu       sync.Mutex               // guards sessions and their state
}

// dailySession holds transient state for one player's daily game.
type dailySession struct {
	State     game.GameState
	WordIndex int
	Start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key, word index and a fresh game for that word.
func (d *dailyServer) today() (date string, idx int, g game.GameState) {
	now := d.srv.now().UTC()
	pool := d.srv.engine.Pool()
	idx = daily.WordIndex(now, d.salt, pool.Len())
	word, cat := pool.At(idx)
	return daily.DateKey(now), idx, game.New(word, cat)
}

// playerID is the signed-in user ID or the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// dailyRes is returned by /daily/new and /daily/guess.
type dailyRes struct {
	Date   string    `json:"date"`
	Played bool      `json:"played"` // a result for today is already recorded
	Game   *gameView `json:"game,omitempty"`
}

// handleNew creates or reuses today's session. Players with a stored result get
// Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	date, idx, fresh := d.today()

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{State: fresh, WordIndex: idx, Start: d.srv.now()}
		d.sessions[key] = sess
	}
	v := viewOf(sess.State)
	d.mu.Unlock()

	writeJSON(w, http.StatusOK, dailyRes{Date: date, Game: &v})
}

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

// handleGuess applies a letter to today's session and records the result once
// the game ends.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	letter, err := game.ParseLetter(p.Letter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	}

	date := daily.DateKey(d.srv.now())
	key := uid + "|" + date

	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok || sess.State.ID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	before := sess.State
	sess.State, _ = game.SubmitGuess(before, rune(letter))
	after := sess.State
	d.mu.Unlock()

	finished := !before.Status.Terminal() && after.Status.Terminal()
	if finished {
		res := daily.Result{
			UserID:    uid,
			Date:      date,
			WordIndex: sess.WordIndex,
			Won:       after.Status == game.StatusWon,
			Mistakes:  after.Mistakes,
			ElapsedMs: int(d.srv.now().Sub(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("player", uid).Msg("insert daily result")
		}
		if me := userFrom(r); me != nil {
			if err := d.srv.bumpStats(r.Context(), me.ID, res.Won); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}

	v := viewOf(after)
	writeJSON(w, http.StatusOK, dailyRes{Date: date, Played: after.Status.Terminal(), Game: &v})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

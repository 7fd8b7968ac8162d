package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/robalobadob/hangman/apps/go-server/internal/config"
	"github.com/robalobadob/hangman/apps/go-server/internal/db"
	"github.com/robalobadob/hangman/apps/go-server/internal/game"
	"github.com/robalobadob/hangman/apps/go-server/internal/store"
	"github.com/robalobadob/hangman/apps/go-server/internal/words"
)

// setupServer builds a Server over a fresh SQLite file and a tiny word pool.
func setupServer(t *testing.T) *Server {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	pool, err := words.NewPool([]words.Category{
		{Name: "pets", Words: []string{"cat"}},
		{Name: "fruits", Words: []string{"apple"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTExpiresDays: 1,
		CookieName:     "hangman_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "test-salt",
	}
	return New(store.NewMemoryStore(), game.NewEngine(pool, words.FixedPicker(0)), conn, cfg)
}

// do sends a JSON request and decodes the JSON response into out (if non-nil).
func do(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w
}

func TestHealthAndCategories(t *testing.T) {
	s := setupServer(t)

	if w := do(t, s, http.MethodGet, "/health", nil, nil, nil); w.Code != http.StatusOK {
		t.Errorf("GET /health = %d", w.Code)
	}

	var cats struct {
		Categories []string `json:"categories"`
		Words      int      `json:"words"`
	}
	w := do(t, s, http.MethodGet, "/categories", nil, nil, &cats)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /categories = %d", w.Code)
	}
	if len(cats.Categories) != 2 || cats.Categories[0] != "pets" || cats.Words != 2 {
		t.Errorf("categories = %+v", cats)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("CORS origin = %q", got)
	}
}

func TestGameFlowWin(t *testing.T) {
	s := setupServer(t)

	var g gameView
	if w := do(t, s, http.MethodPost, "/game/new", map[string]string{"category": "pets"}, nil, &g); w.Code != http.StatusOK {
		t.Fatalf("POST /game/new = %d %s", w.Code, w.Body.String())
	}
	if g.Spotlight != "___" || g.Status != game.StatusInProgress || g.Word != "" || len(g.Letters) != 26 {
		t.Fatalf("new game view = %+v", g)
	}
	if g.Message != "Guess the word!" || g.TriesLeft != game.MaxMistakes {
		t.Errorf("new game message/tries = %q/%d", g.Message, g.TriesLeft)
	}

	for _, step := range []struct {
		letter    string
		spotlight string
	}{{"C", "C__"}, {"a", "CA_"}, {"t", "CAT"}} {
		if w := do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: g.ID, Letter: step.letter}, nil, &g); w.Code != http.StatusOK {
			t.Fatalf("guess %s = %d %s", step.letter, w.Code, w.Body.String())
		}
		if g.Spotlight != step.spotlight {
			t.Errorf("after %s spotlight = %s, want %s", step.letter, g.Spotlight, step.spotlight)
		}
	}
	if g.Status != game.StatusWon || g.Remaining != 0 || g.Word != "cat" {
		t.Errorf("final view = %+v", g)
	}

	var again gameView
	do(t, s, http.MethodGet, "/game/"+g.ID, nil, nil, &again)
	if again.Status != game.StatusWon || again.Guessed != "act" {
		t.Errorf("GET /game/{id} = %+v", again)
	}
}

func TestGameErrors(t *testing.T) {
	s := setupServer(t)

	var g gameView
	do(t, s, http.MethodPost, "/game/new", nil, nil, &g)
	if g.ID == "" {
		t.Fatal("POST /game/new without body returned no game")
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown category", http.MethodPost, "/game/new", map[string]string{"category": "Unknown"}, http.StatusNotFound},
		{"digit", http.MethodPost, "/game/guess", guessReq{GameID: g.ID, Letter: "3"}, http.StatusBadRequest},
		{"two letters", http.MethodPost, "/game/guess", guessReq{GameID: g.ID, Letter: "ab"}, http.StatusBadRequest},
		{"unknown game", http.MethodPost, "/game/guess", guessReq{GameID: "nope", Letter: "a"}, http.StatusNotFound},
		{"get unknown game", http.MethodGet, "/game/nope", nil, http.StatusNotFound},
		{"no route", http.MethodGet, "/nowhere", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body, nil, nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	var after gameView
	do(t, s, http.MethodGet, "/game/"+g.ID, nil, nil, &after)
	if after.Guessed != "" || after.Mistakes != 0 {
		t.Errorf("rejected guesses mutated game: %+v", after)
	}
}

func TestAuthAndStats(t *testing.T) {
	s := setupServer(t)

	creds := credentials{Username: "player_one", Password: "password123"}
	w := do(t, s, http.MethodPost, "/auth/signup", creds, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup = %d %s", w.Code, w.Body.String())
	}
	if w := do(t, s, http.MethodPost, "/auth/signup", creds, nil, nil); w.Code != http.StatusConflict {
		t.Errorf("duplicate signup = %d", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/auth/login", credentials{Username: "player_one", Password: "wrong-pass"}, nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/stats/me", nil, nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("stats without token = %d", w.Code)
	}

	login := do(t, s, http.MethodPost, "/auth/login", creds, nil, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login = %d", login.Code)
	}
	cookies := login.Result().Cookies()

	var me authUser
	do(t, s, http.MethodGet, "/auth/me", nil, cookies, &me)
	if me.Username != "player_one" {
		t.Errorf("/auth/me = %+v", me)
	}

	// Win one, lose one.
	var g gameView
	do(t, s, http.MethodPost, "/game/new", map[string]string{"category": "pets"}, cookies, &g)
	for _, l := range []string{"c", "a", "t", "t"} {
		do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: g.ID, Letter: l}, cookies, &g)
	}
	do(t, s, http.MethodPost, "/game/new", map[string]string{"category": "pets"}, cookies, &g)
	for _, l := range []string{"z", "y", "x", "w", "v", "u", "q"} {
		do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: g.ID, Letter: l}, cookies, &g)
	}
	if g.Status != game.StatusLost || g.Mistakes != game.MaxMistakes || g.Word != "cat" {
		t.Fatalf("lost game view = %+v", g)
	}

	var stats struct {
		GamesPlayed int `json:"gamesPlayed"`
		Wins        int `json:"wins"`
		Streak      int `json:"streak"`
	}
	do(t, s, http.MethodGet, "/stats/me", nil, cookies, &stats)
	if stats.GamesPlayed != 2 || stats.Wins != 1 || stats.Streak != 0 {
		t.Errorf("stats = %+v, want 2 played, 1 win, streak 0", stats)
	}
}

func TestDailyFlow(t *testing.T) {
	s := setupServer(t)

	var res dailyRes
	w := do(t, s, http.MethodPost, "/daily/new", nil, nil, &res)
	if w.Code != http.StatusOK || res.Game == nil || res.Played {
		t.Fatalf("daily new = %d %+v", w.Code, res)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("guest did not receive an anonymous cookie")
	}
	gameID := res.Game.ID

	var again dailyRes
	do(t, s, http.MethodPost, "/daily/new", nil, cookies, &again)
	if again.Game == nil || again.Game.ID != gameID {
		t.Errorf("daily new did not reuse session: %+v", again)
	}

	if w := do(t, s, http.MethodPost, "/daily/guess", dailyGuessReq{GameID: "other", Letter: "a"}, cookies, nil); w.Code != http.StatusConflict {
		t.Errorf("guess on wrong session = %d", w.Code)
	}

	// Covers both "cat" and "apple" without six misses.
	for _, l := range []string{"c", "a", "t", "p", "l", "e"} {
		do(t, s, http.MethodPost, "/daily/guess", dailyGuessReq{GameID: gameID, Letter: l}, cookies, &res)
	}
	if res.Game.Status != game.StatusWon || !res.Played {
		t.Fatalf("daily final = %+v", res.Game)
	}

	var done dailyRes
	do(t, s, http.MethodPost, "/daily/new", nil, cookies, &done)
	if !done.Played || done.Game != nil {
		t.Errorf("daily new after finish = %+v", done)
	}

	var lb lbRes
	do(t, s, http.MethodGet, "/daily/leaderboard", nil, nil, &lb)
	if len(lb.Top) != 1 || !lb.Top[0].Won {
		t.Errorf("leaderboard = %+v", lb)
	}
	if w := do(t, s, http.MethodGet, "/daily/leaderboard?date=yesterday", nil, nil, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d", w.Code)
	}
}

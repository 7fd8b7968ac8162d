// internal/game/engine.go
//
// Core game engine for hangman sessions.
// Responsibilities:
//   - Start games from the word pool, optionally restricted to a category.
//   - Validate and apply single-letter guesses.
//   - Track state transitions: in_progress → won/lost.
//   - Project read-only views: spotlight, remaining count, keyboard slots, messages.
//
// Notes:
//   - The Engine holds only the read-only pool and a Picker, so one Engine serves
//     any number of independent sessions.
//   - Guesses after the game has ended are ignored (no error).
package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/robalobadob/hangman/apps/go-server/internal/words"
)

// Engine starts games. It is safe for concurrent use when its Picker is.
type Engine struct {
	pool *words.Pool
	pick words.Picker
}

// NewEngine builds an Engine over pool. A nil picker selects words with crypto/rand.
func NewEngine(pool *words.Pool, pick words.Picker) *Engine {
	if pick == nil {
		pick = words.CryptoPicker{}
	}
	return &Engine{pool: pool, pick: pick}
}

// StartGame picks a secret word from category (or from every category when empty)
// and returns a fresh session.
func (e *Engine) StartGame(category string) (GameState, error) {
	word, cat, err := e.pool.Pick(category, e.pick)
	if err != nil {
		return GameState{}, err
	}
	return New(word, cat), nil
}

// ListCategories returns the pool's categories in file order.
func (e *Engine) ListCategories() []string { return e.pool.Categories() }

// Pool exposes the underlying word pool.
func (e *Engine) Pool() *words.Pool { return e.pool }

// New constructs a session for a known secret word.
func New(secret, category string) GameState {
	return GameState{
		ID:         uuid.NewString(),
		SecretWord: strings.ToLower(secret),
		Category:   category,
		Status:     StatusInProgress,
	}
}

// ParseLetter validates user input holding exactly one ASCII letter and returns it
// lowercased.
func ParseLetter(s string) (byte, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 || !isLetter(rune(s[0])) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	return toLower(s[0]), nil
}

// SubmitGuess applies letter to s and returns the resulting state.
//
// Rules:
//   - Non-letters return ErrInvalidLetter and s unchanged.
//   - Terminal games and already guessed letters are no-ops.
//   - A letter missing from the secret word costs one mistake.
//   - The win check runs before the loss check.
func SubmitGuess(s GameState, letter rune) (GameState, error) {
	if !isLetter(letter) {
		return s, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	if s.Status.Terminal() {
		return s, nil
	}
	c := toLower(byte(letter))
	if s.Guessed.Has(c) {
		return s, nil
	}

	next := s
	next.Guessed = s.Guessed.With(c)
	next.LastGuess = c
	if strings.IndexByte(s.SecretWord, c) < 0 {
		next.Mistakes++
	}

	switch {
	case RemainingCount(next) == 0:
		next.Status = StatusWon
	case next.Mistakes >= MaxMistakes:
		next.Status = StatusLost
	}
	return next, nil
}

// RenderSpotlight shows revealed letters in uppercase and '_' for the rest.
func RenderSpotlight(s GameState) []rune {
	out := make([]rune, len(s.SecretWord))
	for i := 0; i < len(s.SecretWord); i++ {
		c := s.SecretWord[i]
		if s.Guessed.Has(c) {
			out[i] = rune(c - 'a' + 'A')
		} else {
			out[i] = '_'
		}
	}
	return out
}

// RemainingCount is the number of positions not yet revealed.
func RemainingCount(s GameState) int {
	n := 0
	for i := 0; i < len(s.SecretWord); i++ {
		if !s.Guessed.Has(s.SecretWord[i]) {
			n++
		}
	}
	return n
}

// LetterSlots returns a–z with Enabled false for guessed letters or once the game
// is over.
func LetterSlots(s GameState) []LetterSlot {
	out := make([]LetterSlot, 0, 26)
	for c := byte('a'); c <= 'z'; c++ {
		out = append(out, LetterSlot{
			Letter:  c,
			Key:     string(c),
			Enabled: !s.Status.Terminal() && !s.Guessed.Has(c),
		})
	}
	return out
}

// TriesLeft is the remaining mistake budget.
func TriesLeft(s GameState) int { return MaxMistakes - s.Mistakes }

// Message is the one-line status text for the current state.
func Message(s GameState) string {
	switch s.Status {
	case StatusWon:
		return "You won! Nice job."
	case StatusLost:
		return "You lost! The word was: " + strings.ToUpper(s.SecretWord)
	}
	if s.LastGuess == 0 {
		return "Guess the word!"
	}
	if strings.IndexByte(s.SecretWord, s.LastGuess) >= 0 {
		return "Good guess!"
	}
	return fmt.Sprintf("Wrong! %d tries left.", TriesLeft(s))
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c) - 'a' }

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

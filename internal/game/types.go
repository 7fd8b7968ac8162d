// internal/game/types.go
//
// Core type definitions for the hangman engine.
// Defines:
//   - Status: in_progress / won / lost.
//   - LetterSet: the set of guessed a–z letters, packed into a bitmask.
//   - GameState: an immutable snapshot of one session.
//   - LetterSlot: per-letter keyboard projection for the presentation layer.

package game

import (
	"errors"

	"github.com/robalobadob/hangman/apps/go-server/internal/words"
)

// MaxMistakes is the number of wrong guesses that loses the game.
const MaxMistakes = 6

// Status is the coarse outcome of a game. It is derived from the other fields and
// only ever set by the engine.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Terminal reports whether no further guesses can change the game.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

var (
	// ErrInvalidLetter is returned for guesses that are not a single ASCII letter.
	ErrInvalidLetter = errors.New("invalid letter")
	// ErrUnknownCategory aliases the word pool error so callers only need this package.
	ErrUnknownCategory = words.ErrUnknownCategory
)

// LetterSet is a set of lowercase ASCII letters; bit i is letter 'a'+i.
type LetterSet uint32

// Has reports whether the lowercase letter c is in the set.
func (s LetterSet) Has(c byte) bool {
	i := idx(c)
	return i >= 0 && i < 26 && s&(1<<uint(i)) != 0
}

// With returns a copy of s that also contains c.
func (s LetterSet) With(c byte) LetterSet { return s | 1<<uint(idx(c)) }

// Len is the number of letters in the set.
func (s LetterSet) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// String lists the letters in alphabetical order.
func (s LetterSet) String() string {
	out := make([]byte, 0, 26)
	for c := byte('a'); c <= 'z'; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return string(out)
}

// GameState is one hangman session. Values are never modified in place: every
// engine operation returns a new GameState, so two states can be compared with ==.
type GameState struct {
	ID         string    // session identifier (uuid)
	SecretWord string    // lowercase, fixed for the session
	Category   string    // category of SecretWord; empty when uncategorized
	Guessed    LetterSet // grows monotonically
	Mistakes   int       // wrong guesses, 0..MaxMistakes
	Status     Status
	LastGuess  byte      // most recent accepted letter, 0 before the first guess
}

// LetterSlot is the keyboard projection of one letter.
type LetterSlot struct {
	Letter  byte   `json:"-"`
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

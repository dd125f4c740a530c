// internal/session/types.go
//
// Session state carried across every turn of a guessing-game session.
// Defines:
//   - Choice: which engine currently owns the turn.
//   - NumberGame / WordGame: optional per-game sub-state.
//   - State: the record the caller round-trips whole on every request.
//
// The server keeps no copy of a State between calls; the caller owns it.

package session

import (
	"encoding/json"
	"fmt"
)

// PlayAgainPrompt is emitted whenever a game finishes.
const PlayAgainPrompt = "Would you like to play again? (yes/no)"

// Choice identifies the engine that owns the next turn.
//   - "none":        no game selected (menu).
//   - "number_game": the number guesser is running.
//   - "word_game":   the word guesser is running.
//   - "retry":       a game just ended and the player asked to play again.
type Choice string

const (
	ChoiceNone   Choice = "none"
	ChoiceNumber Choice = "number_game"
	ChoiceWord   Choice = "word_game"
	ChoiceRetry  Choice = "retry"
)

// Valid reports whether c is one of the known choices.
// The empty string is accepted and treated as ChoiceNone.
func (c Choice) Valid() bool {
	switch c {
	case "", ChoiceNone, ChoiceNumber, ChoiceWord, ChoiceRetry:
		return true
	}
	return false
}

// Active reports whether a game engine owns the turn.
func (c Choice) Active() bool { return c == ChoiceNumber || c == ChoiceWord }

// UnmarshalJSON rejects unknown choice values.
func (c *Choice) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := Choice(s)
	if !v.Valid() {
		return fmt.Errorf("session: unknown game choice %q", s)
	}
	if v == "" {
		v = ChoiceNone
	}
	*c = v
	return nil
}

// NumberStep is the phase of the number game.
type NumberStep string

const (
	NumberStart    NumberStep = "start"
	NumberGuessing NumberStep = "guessing"
	NumberDone     NumberStep = "done"
)

// NumberGame is the binary-search range still holding the secret number.
// Invariant: Min <= Max.
type NumberGame struct {
	Min      int        `json:"min"`
	Max      int        `json:"max"`
	NextStep NumberStep `json:"nextStep"`
}

// WordPhase is the phase of the word game.
type WordPhase string

const (
	WordAsking   WordPhase = "asking"   // questions still being asked
	WordGuessing WordPhase = "guessing" // guess shown, awaiting verdict
	WordDone     WordPhase = "done"     // verdict received
)

// WordGame tracks the question/answer loop of the word guesser.
// Invariant: len(Answers) <= len(Questions) <= QuestionIndex <= MaxQuestions.
type WordGame struct {
	Words         []string  `json:"words"`
	MaxQuestions  int       `json:"maxQuestions"`
	QuestionIndex int       `json:"questionIndex"`
	Questions     []string  `json:"questions"`
	Answers       []string  `json:"answers"`
	Guess         string    `json:"guess,omitempty"`
	AskedSet      []string  `json:"askedSet"`
	Phase         WordPhase `json:"phase"`
}

// State is the full session record.
type State struct {
	ID              string      `json:"id"`
	Choice          Choice      `json:"gameChoice"`
	Number          *NumberGame `json:"numberGame,omitempty"`
	Word            *WordGame   `json:"wordGame,omitempty"`
	NumberGameCount int         `json:"numberGameCount"`
	WordGameCount   int         `json:"wordGameCount"`
	PlayAgain       bool        `json:"playAgain"`
	Messages        []string    `json:"pendingMessages"`
}

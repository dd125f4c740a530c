// internal/game/router.go
//
// Turn router: one input token in, one state transition out.
// Responsibilities:
//   - Interpret answers to the play-again prompt.
//   - Select a game from the menu ("1" number, "2" word, "" exit).
//   - Delegate input to the engine owning the turn.
//
// Notes:
//   - Counters are never reset by starting a game; only Exit resets them.
//   - The play-again prompt is an explicit flag on the state.
package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/robalobadob/guessgames/internal/numbergame"
	"github.com/robalobadob/guessgames/internal/session"
	"github.com/robalobadob/guessgames/internal/wordgame"
)

const (
	// MenuPrompt lists the games on offer.
	MenuPrompt    = "Enter '1' for the number game or '2' for the word game (or nothing to quit)."
	invalidChoice = "Invalid choice. Please select a valid game option."
)

// Router dispatches turns to the game engines.
type Router struct {
	Words *wordgame.Engine
}

// NewRouter returns a Router using the given word engine.
func NewRouter(words *wordgame.Engine) *Router {
	if words == nil {
		words = &wordgame.Engine{}
	}
	return &Router{Words: words}
}

// Normalize trims and case-folds a raw answer token.
func Normalize(input string) string { return strings.ToLower(strings.TrimSpace(input)) }

// Route applies one input to st in place.
func (r *Router) Route(ctx context.Context, st *session.State, input string) error {
	input = Normalize(input)
	if !st.Choice.Valid() {
		return fmt.Errorf("game: unknown choice %q", st.Choice)
	}
	if st.Choice == "" {
		st.Choice = session.ChoiceNone
	}

	if st.PlayAgain {
		r.playAgain(st, input)
		return nil
	}

	if !st.Choice.Active() {
		r.selectGame(st, input)
		return nil
	}

	switch st.Choice {
	case session.ChoiceNumber:
		numbergame.Step(st, input)
	case session.ChoiceWord:
		r.Words.Step(ctx, st, input)
	}
	return nil
}

// playAgain resolves an outstanding "play again?" prompt.
func (r *Router) playAgain(st *session.State, input string) {
	st.PlayAgain = false
	if input == "yes" || input == "y" {
		st.Choice = session.ChoiceRetry
		r.selector(st)
		return
	}
	st.Choice = session.ChoiceNone
	st.Say("Thanks for playing! Goodbye!")
}

// selector shows the menu after a finished game.
// The choice stays ChoiceRetry until a game is picked.
func (r *Router) selector(st *session.State) {
	st.Say("Returning to game selection. Please select a game.", MenuPrompt)
}

// selectGame handles input while no engine owns the turn.
func (r *Router) selectGame(st *session.State, input string) {
	switch input {
	case "1":
		r.begin(st, session.ChoiceNumber)
	case "2":
		r.begin(st, session.ChoiceWord)
	case "":
		Exit(st)
	default:
		st.Choice = session.ChoiceNone
		st.Say(invalidChoice, MenuPrompt)
	}
}

// begin installs a fresh game of the given kind, keeping the counters.
func (r *Router) begin(st *session.State, c session.Choice) {
	st.PlayAgain = false
	switch c {
	case session.ChoiceNumber:
		st.Word = nil
		numbergame.Begin(st)
	case session.ChoiceWord:
		st.Number = nil
		r.Words.Begin(st)
	}
}

// Exit produces the session summary and resets the counters.
// The state continues under a new session id.
func Exit(st *session.State) {
	st.Say(fmt.Sprintf(
		"Thanks for playing! You played %d Number Guessing Games and %d Word Clue Guesser Games.",
		st.NumberGameCount, st.WordGameCount,
	))
	st.NumberGameCount = 0
	st.WordGameCount = 0
	st.Choice = session.ChoiceNone
	st.Number = nil
	st.Word = nil
	st.PlayAgain = false
	st.ID = uuid.NewString()
}

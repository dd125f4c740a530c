// internal/numbergame/engine.go
//
// Binary-search engine for the number guessing game.
// Responsibilities:
//   - Create a fresh range [1, 50].
//   - Narrow the range from yes/no answers to "is your number greater than mid?".
//   - Detect termination (min >= max), bump the counter, raise the play-again prompt.
//
// Notes:
//   - mid is floor((min+max)/2), computed without overflow.
//   - Input other than "y"/"n" leaves the range untouched and re-asks.
//   - An inverted range (min > max) is replaced by a fresh one.
package numbergame

import (
	"fmt"

	"github.com/robalobadob/guessgames/internal/session"
)

const (
	defaultMin = 1
	defaultMax = 50
)

// New returns a fresh sub-state over the default range.
func New() *session.NumberGame {
	return &session.NumberGame{Min: defaultMin, Max: defaultMax, NextStep: session.NumberStart}
}

// Begin installs a fresh range and asks the first question.
// Counters on st are left alone.
func Begin(st *session.State) {
	st.Choice = session.ChoiceNumber
	st.Number = New()
	st.Number.NextStep = session.NumberGuessing
	st.Say(
		fmt.Sprintf("Think of a number between %d and %d.", st.Number.Min, st.Number.Max),
		question(st.Number),
	)
}

// Step applies one answer and emits the next question or the result.
// A missing sub-state is treated as a fresh game.
func Step(st *session.State, input string) {
	if st.Number == nil {
		st.Number = New()
	}
	ng := st.Number
	if ng.NextStep == session.NumberDone {
		st.Say(fmt.Sprintf("Your number is %d!", ng.Min), session.PlayAgainPrompt)
		st.PlayAgain = true
		return
	}

	if ng.Min > ng.Max {
		*ng = *New()
	}
	Narrow(ng, input)

	if ng.Min >= ng.Max {
		ng.NextStep = session.NumberDone
		st.NumberGameCount++
		st.PlayAgain = true
		st.Say(fmt.Sprintf("Your number is %d!", ng.Min), session.PlayAgainPrompt)
		return
	}
	ng.NextStep = session.NumberGuessing
	st.Say(question(ng))
}

// Narrow updates the range for a single answer and reports whether the
// answer was understood.
func Narrow(ng *session.NumberGame, input string) bool {
	if ng.Min >= ng.Max {
		return false
	}
	mid := Mid(ng.Min, ng.Max)
	switch input {
	case "y":
		ng.Min = mid + 1
	case "n":
		ng.Max = mid
	default:
		return false
	}
	return true
}

// Mid returns floor((lo+hi)/2) for any lo, hi without overflowing.
func Mid(lo, hi int) int { return lo>>1 + hi>>1 + lo&hi&1 }

func question(ng *session.NumberGame) string {
	return fmt.Sprintf("Is your number greater than %d? (y/n)", Mid(ng.Min, ng.Max))
}

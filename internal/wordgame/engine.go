// internal/wordgame/engine.go
//
// Engine for the word clue guesser.
// Responsibilities:
//   - Ask up to MaxQuestions yes/no/maybe questions produced by the model.
//   - Record the player's answers.
//   - Ask the model for a final guess constrained to the candidate list.
//   - Handle the "was I correct?" verdict and raise the play-again prompt.
//
// Phases: asking (k = 0..MaxQuestions-1) -> guessing -> done.
// A model failure never blocks progress: a fixed question or the first
// candidate word is substituted.
package wordgame

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessgames/internal/llm"
	"github.com/robalobadob/guessgames/internal/session"
	"github.com/robalobadob/guessgames/internal/words"
)

const (
	DefaultMaxQuestions = 5

	// FallbackQuestion is used whenever the model cannot produce a question.
	FallbackQuestion = "Is it something you use daily?"

	maxRepeatAttempts = 3
	answerPrompt      = "Your answer? (yes/no/maybe)"
	verdictPrompt     = "Was I correct? (yes/no)"
)

// Engine drives the word game. The zero value works with the default word
// list, five questions and no model (all fallbacks).
type Engine struct {
	Model        llm.Model
	Words        []string
	MaxQuestions int
}

// New returns an Engine, applying defaults for empty arguments.
func New(m llm.Model, list []string, maxQuestions int) *Engine {
	return &Engine{Model: m, Words: list, MaxQuestions: maxQuestions}
}

func (e *Engine) model() llm.Model {
	if e.Model == nil {
		return llm.Unavailable{}
	}
	return e.Model
}

func (e *Engine) words() []string {
	if len(e.Words) == 0 {
		return words.Default()
	}
	return append([]string{}, e.Words...)
}

func (e *Engine) maxQuestions() int {
	if e.MaxQuestions <= 0 {
		return DefaultMaxQuestions
	}
	return e.MaxQuestions
}

// NewGame returns a fresh sub-state.
func (e *Engine) NewGame() *session.WordGame {
	return &session.WordGame{
		Words:        e.words(),
		MaxQuestions: e.maxQuestions(),
		Questions:    []string{},
		Answers:      []string{},
		AskedSet:     []string{},
		Phase:        session.WordAsking,
	}
}

// Begin installs a fresh game and shows the candidate list.
// Counters on st are left alone.
func (e *Engine) Begin(st *session.State) {
	st.Choice = session.ChoiceWord
	st.Word = e.NewGame()
	st.Say("Think of a word from this list:", strings.Join(st.Word.Words, ", "))
}

// Step consumes one input and advances the game by one phase transition.
func (e *Engine) Step(ctx context.Context, st *session.State, input string) {
	if st.Word == nil {
		st.Word = e.NewGame()
	}
	wg := st.Word
	if wg.MaxQuestions <= 0 {
		wg.MaxQuestions = e.maxQuestions()
	}
	if len(wg.Words) == 0 {
		wg.Words = e.words()
	}

	switch wg.Phase {
	case session.WordGuessing:
		e.verdict(st, input)
		return
	case session.WordDone:
		st.PlayAgain = true
		st.Say(session.PlayAgainPrompt)
		return
	}

	if input != "" && wg.Pending() {
		wg.Answers = append(wg.Answers, input)
	}

	if wg.QuestionIndex < wg.MaxQuestions {
		q := e.question(ctx, wg)
		wg.Questions = append(wg.Questions, q)
		wg.QuestionIndex++
		wg.Phase = session.WordAsking
		st.Say(fmt.Sprintf("Question %d: %s", wg.QuestionIndex, q), answerPrompt)
		return
	}

	e.guess(ctx, st)
}

// question asks the model for a question, re-asking while it repeats one
// already in the asked set. After maxRepeatAttempts the repeat is accepted.
func (e *Engine) question(ctx context.Context, wg *session.WordGame) string {
	asked := "none"
	if len(wg.AskedSet) > 0 {
		asked = strings.Join(wg.AskedSet, ", ")
	}
	prompt, err := render(questionPrompt, questionVars{
		Words:  strings.Join(wg.Words, ", "),
		Asked:  asked,
		Number: wg.QuestionIndex + 1,
		Max:    wg.MaxQuestions,
	})
	if err != nil {
		log.Warn().Err(err).Msg("render question prompt")
		return FallbackQuestion
	}

	m := e.model()
	q, err := m.Ask(ctx, prompt)
	for attempt := 0; err == nil && wg.Asked(strings.TrimSpace(q)) && attempt < maxRepeatAttempts; attempt++ {
		q, err = m.Ask(ctx, prompt)
	}
	if err != nil {
		log.Warn().Err(err).Int("question", wg.QuestionIndex+1).Msg("question fallback")
		return FallbackQuestion
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return FallbackQuestion
	}
	wg.MarkAsked(q)
	return q
}

// guess asks the model for the final word and counts the game.
func (e *Engine) guess(ctx context.Context, st *session.State) {
	wg := st.Word
	wg.Guess = e.pickGuess(ctx, wg)
	wg.Phase = session.WordGuessing
	st.WordGameCount++
	st.Say("My guess is: "+wg.Guess, verdictPrompt)
}

func (e *Engine) pickGuess(ctx context.Context, wg *session.WordGame) string {
	fallback := wg.Words[0]
	prompt, err := render(guessPrompt, guessVars{
		Words:      strings.Join(wg.Words, ", "),
		Transcript: Transcript(wg),
	})
	if err != nil {
		log.Warn().Err(err).Msg("render guess prompt")
		return fallback
	}
	reply, err := e.model().Ask(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("guess fallback")
		return fallback
	}
	w, ok := words.Match(reply, wg.Words)
	if !ok {
		log.Warn().Str("reply", reply).Msg("guess not in candidate list")
		return fallback
	}
	return w
}

func (e *Engine) verdict(st *session.State, input string) {
	switch input {
	case "yes", "y":
		st.Choice = session.ChoiceRetry
		st.Say("Yay! I guessed right!", session.PlayAgainPrompt)
	case "no", "n":
		st.Choice = session.ChoiceNone
		st.Say("I'm sorry I couldn't guess your word.", session.PlayAgainPrompt)
	default:
		st.Say("Please answer yes or no.", verdictPrompt)
		return
	}
	st.Word.Phase = session.WordDone
	st.PlayAgain = true
}

// Transcript lists the answered questions as "Q{i}: {q} A: {a}" lines.
func Transcript(wg *session.WordGame) string {
	lines := make([]string, 0, len(wg.Answers))
	for i, q := range wg.Questions {
		if i >= len(wg.Answers) {
			break
		}
		lines = append(lines, fmt.Sprintf("Q%d: %s A: %s", i+1, q, wg.Answers[i]))
	}
	return strings.Join(lines, "\n")
}

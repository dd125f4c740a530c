package session

import (
	"sort"

	"github.com/google/uuid"
)

// New returns an empty session: no game chosen, counters at zero.
func New() State {
	return State{
		ID:       uuid.NewString(),
		Choice:   ChoiceNone,
		Messages: []string{},
	}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s State) Clone() State {
	out := s
	if s.Number != nil {
		n := *s.Number
		out.Number = &n
	}
	if s.Word != nil {
		w := *s.Word
		w.Words = cloneStrings(s.Word.Words)
		w.Questions = cloneStrings(s.Word.Questions)
		w.Answers = cloneStrings(s.Word.Answers)
		w.AskedSet = cloneStrings(s.Word.AskedSet)
		out.Word = &w
	}
	out.Messages = cloneStrings(s.Messages)
	return out
}

// Normalize fills fields a client may have omitted.
func (s *State) Normalize() {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Choice == "" {
		s.Choice = ChoiceNone
	}
	if s.NumberGameCount < 0 {
		s.NumberGameCount = 0
	}
	if s.WordGameCount < 0 {
		s.WordGameCount = 0
	}
	if s.Messages == nil {
		s.Messages = []string{}
	}
}

// Say replaces the pending messages.
func (s *State) Say(lines ...string) {
	s.Messages = append([]string{}, lines...)
}

// Asked reports whether q is already in the asked set.
func (w *WordGame) Asked(q string) bool {
	for _, a := range w.AskedSet {
		if a == q {
			return true
		}
	}
	return false
}

// MarkAsked adds q to the asked set, keeping it sorted and unique.
func (w *WordGame) MarkAsked(q string) {
	if w.Asked(q) {
		return
	}
	w.AskedSet = append(w.AskedSet, q)
	sort.Strings(w.AskedSet)
}

// Pending reports whether the latest question still awaits an answer.
func (w *WordGame) Pending() bool { return len(w.Answers) < len(w.Questions) }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

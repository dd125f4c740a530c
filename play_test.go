package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/robalobadob/guessgames/internal/game"
	"github.com/robalobadob/guessgames/internal/llm"
	"github.com/robalobadob/guessgames/internal/store"
	"github.com/robalobadob/guessgames/internal/wordgame"
)

func newTestService() *game.Service {
	return game.NewService(game.NewRouter(wordgame.New(llm.Unavailable{}, nil, 5)), store.NewMemoryStore())
}

func TestPlay_NumberGameThenGoodbye(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("1\ny\ny\ny\ny\ny\nno\n")
	if err := play(context.Background(), newTestService(), in, &out); err != nil {
		t.Fatalf("play: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Is your number greater than 25? (y/n)",
		"Your number is 50!",
		"Thanks for playing! Goodbye!",
		"You played 1 Number Guessing Games and 0 Word Clue Guesser Games.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPlay_EmptyLineQuits(t *testing.T) {
	var out bytes.Buffer
	if err := play(context.Background(), newTestService(), strings.NewReader("\n1\n"), &out); err != nil {
		t.Fatalf("play: %v", err)
	}
	if strings.Contains(out.String(), "greater than 25") {
		t.Fatalf("input after quitting was played:\n%s", out.String())
	}
	if strings.Count(out.String(), "You played 0") != 1 {
		t.Fatalf("expected one summary:\n%s", out.String())
	}
}

func TestPlay_EOFMidGameSummarises(t *testing.T) {
	var out bytes.Buffer
	if err := play(context.Background(), newTestService(), strings.NewReader("2\n"), &out); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "You played 0 Number Guessing Games") {
		t.Fatalf("missing summary:\n%s", out.String())
	}
}

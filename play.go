package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/guessgames/internal/game"
	"github.com/robalobadob/guessgames/internal/session"
)

func newPlayCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the games in this terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return play(cmd.Context(), a.svc, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// play runs one console session. It ends when the session says goodbye
// or the input runs out, and always prints the session summary.
func play(ctx context.Context, svc *game.Service, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintln(out, "Welcome! "+game.MenuPrompt)

	st := session.New()
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		st = svc.Step(ctx, st, sc.Text())
		say(out, st)
		if finished(st) {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if !summarised(st) {
		say(out, svc.Exit(ctx, st))
	}
	return nil
}

func say(out io.Writer, st session.State) {
	for _, m := range st.Messages {
		fmt.Fprintln(out, m)
	}
}

// finished reports whether the last turn closed the session.
func finished(st session.State) bool {
	if st.Choice.Active() || st.PlayAgain || st.Choice == session.ChoiceRetry || len(st.Messages) == 0 {
		return false
	}
	return strings.HasPrefix(st.Messages[len(st.Messages)-1], "Thanks for playing!")
}

func summarised(st session.State) bool {
	return len(st.Messages) > 0 && strings.Contains(st.Messages[len(st.Messages)-1], "You played")
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	port         int
	db           string
	wordsFile    string
	maxQuestions int
	model        string
	maxTokens    int64
	logLevel     string
	clientOrigin string
	stateSecret  string
	stateTTL     time.Duration
	timeout      time.Duration
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxQuestions < 1 {
		return errors.New("--max-questions must be at least 1")
	}
	if c.stateTTL < 0 {
		return errors.New("--state-ttl must not be negative")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GUESSGAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "guessgames",
		Short:   "Serves the number guesser and word clue guesser over HTTP.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.logLevel)
			return cfg.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GUESSGAMES_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8000, "port to listen on (env: GUESSGAMES_PORT)")
	fs.StringVar(&cfg.db, "db", "", "sqlite file for game history; empty keeps history in memory (env: GUESSGAMES_DB)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "candidate word list, one per line (env: GUESSGAMES_WORDS_FILE)")
	fs.IntVar(&cfg.maxQuestions, "max-questions", 5, "questions asked before the word guess (env: GUESSGAMES_MAX_QUESTIONS)")
	fs.StringVar(&cfg.model, "model", "", "anthropic model name (env: GUESSGAMES_MODEL)")
	fs.Int64Var(&cfg.maxTokens, "max-tokens", 256, "max tokens per model reply (env: GUESSGAMES_MAX_TOKENS)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "zerolog level (env: GUESSGAMES_LOG_LEVEL)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", "*", "allowed CORS origin (env: GUESSGAMES_CLIENT_ORIGIN)")
	fs.StringVar(&cfg.stateSecret, "state-secret", "", "sign session state with this secret (env: GUESSGAMES_STATE_SECRET)")
	fs.DurationVar(&cfg.stateTTL, "state-ttl", 24*time.Hour, "lifetime of signed state tokens, 0 for none (env: GUESSGAMES_STATE_TTL)")
	fs.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "per-request handler timeout (env: GUESSGAMES_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newPlayCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("guessgames v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

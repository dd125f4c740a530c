package main

import (
	"strings"
	"testing"
)

func TestConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("GUESSGAMES_PORT", "9001")
	t.Setenv("GUESSGAMES_MAX_QUESTIONS", "3")
	cfg := &Config{}
	newCmd(cfg)
	if cfg.port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.port)
	}
	if cfg.maxQuestions != 3 {
		t.Errorf("maxQuestions = %d, want 3", cfg.maxQuestions)
	}
	if cfg.bind != "0.0.0.0" {
		t.Errorf("bind = %q", cfg.bind)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"ok", Config{port: 8000, maxQuestions: 5}, ""},
		{"port", Config{port: 0, maxQuestions: 5}, "invalid port"},
		{"questions", Config{port: 8000}, "max-questions"},
		{"ttl", Config{port: 8000, maxQuestions: 1, stateTTL: -1}, "state-ttl"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("got %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestPlayCommand_RunsFromStdin(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := &Config{}
	cmd := newCmd(cfg)
	var out strings.Builder
	cmd.SetIn(strings.NewReader("1\nn\nn\nn\nn\nn\nn\nno\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"play", "--log-level", "disabled"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "Your number is 1!") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRootCommand_RejectsBadPort(t *testing.T) {
	cmd := newCmd(&Config{})
	cmd.SetArgs([]string{"--port", "70000"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Fatalf("expected port error, got %v", err)
	}
}

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/guessgames/internal/game"
	"github.com/robalobadob/guessgames/internal/llm"
	"github.com/robalobadob/guessgames/internal/session"
	"github.com/robalobadob/guessgames/internal/statetoken"
	"github.com/robalobadob/guessgames/internal/store"
	"github.com/robalobadob/guessgames/internal/wordgame"
	"github.com/robalobadob/guessgames/internal/words"
)

func newTestServer(t *testing.T, tokens *statetoken.Signer) (*httptest.Server, store.Store) {
	t.Helper()
	hist := store.NewMemoryStore()
	svc := game.NewService(game.NewRouter(wordgame.New(llm.Unavailable{}, nil, 5)), hist)
	srv := New(svc, hist, Options{Tokens: tokens, Words: words.Default()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, hist
}

type turn struct {
	State    session.State `json:"state"`
	Messages []string      `json:"messages"`
	Token    string        `json:"token"`
}

func post(t *testing.T, url string, body any) (int, turn) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out turn
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type %q", ct)
	}
}

func TestNumberGameOverHTTP(t *testing.T) {
	ts, hist := newTestServer(t, nil)

	code, res := post(t, ts.URL+"/game/start", map[string]any{"input": "1"})
	if code != http.StatusOK {
		t.Fatalf("start status %d", code)
	}
	if res.State.ID == "" || res.State.Number == nil || res.State.Number.Max != 50 {
		t.Fatalf("unexpected start state %+v", res.State)
	}
	if res.Messages[len(res.Messages)-1] != "Is your number greater than 25? (y/n)" {
		t.Fatalf("unexpected prompt %v", res.Messages)
	}

	st := res.State
	for i := 0; i < 5; i++ {
		_, res = post(t, ts.URL+"/game/number", map[string]any{"state": st, "input": "y"})
		st = res.State
	}
	if st.NumberGameCount != 1 || res.Messages[0] != "Your number is 50!" {
		t.Fatalf("unexpected end state %+v %v", st, res.Messages)
	}

	_, res = post(t, ts.URL+"/game/exit", map[string]any{"state": st})
	if !strings.Contains(res.Messages[0], "You played 1 Number Guessing Games and 0 Word Clue Guesser Games") {
		t.Fatalf("unexpected exit %v", res.Messages)
	}
	if res.State.NumberGameCount != 0 {
		t.Fatal("exit did not reset counters")
	}

	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var totals map[string]int
	_ = json.NewDecoder(resp.Body).Decode(&totals)
	if totals[store.GameNumber] != 1 {
		t.Fatalf("unexpected totals %v", totals)
	}
	recent, _ := hist.Recent(context.Background(), 5)
	if len(recent) != 1 || recent[0].Outcome != "50" {
		t.Fatalf("unexpected history %+v", recent)
	}
}

func TestBadJSON(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Post(ts.URL+"/game/step", "application/json", strings.NewReader(`{"state":`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestUnknownChoiceRejected(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Post(ts.URL+"/game/step", "application/json",
		strings.NewReader(`{"state":{"gameChoice":"chess"},"input":"1"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestEmptyBodyStartsNewSession(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Post(ts.URL+"/game/exit", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var res turn
	_ = json.NewDecoder(resp.Body).Decode(&res)
	if resp.StatusCode != http.StatusOK || !strings.Contains(res.Messages[0], "You played 0") {
		t.Fatalf("status %d messages %v", resp.StatusCode, res.Messages)
	}
}

func TestStateTokenRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t, statetoken.New("secret", time.Hour))

	_, res := post(t, ts.URL+"/game/start", map[string]any{"input": "1"})
	if res.Token == "" {
		t.Fatal("expected token")
	}
	_, res = post(t, ts.URL+"/game/step", map[string]any{"token": res.Token, "input": "n"})
	if res.State.Number == nil || res.State.Number.Max != 25 {
		t.Fatalf("token state not used: %+v", res.State.Number)
	}

	code, _ := post(t, ts.URL+"/game/step", map[string]any{"token": "garbage", "input": "n"})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad token, got %d", code)
	}
}

func TestTokenWithoutSecretRejected(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	code, _ := post(t, ts.URL+"/game/step", map[string]any{"token": "x.y.z"})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestRecentBadLimit(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/games/recent?limit=abc")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/game/step", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("status %d origin %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestInlineStateRejectedWhenSigning(t *testing.T) {
	ts, _ := newTestServer(t, statetoken.New("secret", time.Hour))

	forged := session.New()
	forged.Choice = session.ChoiceNumber
	forged.Number = &session.NumberGame{Min: 49, Max: 50, NextStep: session.NumberGuessing}
	forged.NumberGameCount = 999

	resp, err := http.Post(ts.URL+"/game/step", "application/json",
		strings.NewReader(mustJSON(t, map[string]any{"state": forged, "input": "y"})))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "token_required" {
		t.Fatalf("status %d body %v", resp.StatusCode, body)
	}

	// An empty body still opens a new session.
	code, res := post(t, ts.URL+"/game/start", map[string]any{"input": "1"})
	if code != http.StatusOK || res.Token == "" || res.State.NumberGameCount != 0 {
		t.Fatalf("status %d res %+v", code, res)
	}
}

func TestGameByID(t *testing.T) {
	ts, hist := newTestServer(t, nil)
	_, res := post(t, ts.URL+"/game/start", map[string]any{"input": "1"})
	st := res.State
	for i := 0; i < 6; i++ {
		_, res = post(t, ts.URL+"/game/step", map[string]any{"state": st, "input": "n"})
		st = res.State
	}
	recent, _ := hist.Recent(context.Background(), 1)
	if len(recent) != 1 {
		t.Fatalf("expected one recorded game, got %d", len(recent))
	}

	resp, err := http.Get(ts.URL + "/games/" + recent[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got store.Result
	_ = json.NewDecoder(resp.Body).Decode(&got)
	if resp.StatusCode != http.StatusOK || got.Outcome != "1" || got.SessionID != st.ID {
		t.Fatalf("status %d result %+v", resp.StatusCode, got)
	}

	missing, err := http.Get(ts.URL + "/games/nope")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", missing.StatusCode)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

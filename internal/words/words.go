// internal/words/words.go
//
// Candidate word list for the word clue guesser.
//
// Responsibilities:
//   - Load the candidate list from a file, or fall back to the embedded default.
//   - Normalise entries (trimmed, lowercase, no blanks/comments, no duplicates).
//   - Match free-form model replies (e.g. "Kiwi!") back to a candidate.
//
// Default list: apple, kiwi, desk, chair, car, pen.
//
// File format: one word per line; blank lines and lines starting with '#'
// are ignored.

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"io"
	"os"
	"strings"
	"unicode"
)

//go:embed default_words.txt
var embeddedDefault string

// ErrEmpty is returned when a list has no usable words.
var ErrEmpty = errors.New("words: candidate list is empty")

// Default returns a fresh copy of the embedded candidate list.
func Default() []string {
	out, _ := parse(strings.NewReader(embeddedDefault))
	return out
}

// Load reads a candidate list from path. An empty path yields Default().
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := parse(f)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	return list, nil
}

// parse reads one word per line, lowercased and deduplicated in order.
func parse(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, sc.Err()
}

// Match maps a model reply onto a candidate word.
// An exact (case-insensitive, punctuation-trimmed) match wins; otherwise the
// first candidate appearing as a whole word in the reply. ok is false when
// nothing matches.
func Match(reply string, candidates []string) (word string, ok bool) {
	clean := strings.ToLower(strings.TrimFunc(reply, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
	for _, c := range candidates {
		if clean == strings.ToLower(c) {
			return c, true
		}
	}
	tokens := strings.FieldsFunc(strings.ToLower(reply), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, c := range candidates {
		lc := strings.ToLower(c)
		for _, tok := range tokens {
			if tok == lc {
				return c, true
			}
		}
	}
	return "", false
}

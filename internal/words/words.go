// Package words supplies the candidate word bank for board generation.
//
// By default the embedded noun list is used. An alternate list (one
// word per line, # comments allowed) can be loaded from a file via
// Init. Words are lowercased, trimmed and de-duplicated; order of
// first appearance is preserved so a seeded shuffle stays stable for
// a given list.
package words

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
)

//go:embed default_words.txt
var embeddedWords string

// MinWords is the smallest usable bank: one full board draw.
const MinWords = 25

var (
	initOnce sync.Once
	bank     []string
	initErr  error
)

// Init loads the word bank exactly once. An empty path selects the
// embedded default list. Fails if the resulting bank cannot fill a
// board.
func Init(path string) error {
	initOnce.Do(func() {
		bank, initErr = load(path)
	})
	return initErr
}

func load(path string) ([]string, error) {
	var lines []string
	if path == "" {
		lines = strings.Split(embeddedWords, "\n")
	} else {
		var err error
		lines, err = readLines(path)
		if err != nil {
			return nil, err
		}
	}

	list := normalize(lines)
	if len(list) < MinWords {
		return nil, fmt.Errorf("words: need at least %d words, have %d", MinWords, len(list))
	}
	return list, nil
}

// All returns the loaded bank. The slice is shared; callers must not
// mutate it.
func All() []string {
	return bank
}

func Count() int {
	return len(bank)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	return out, nil
}

func normalize(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		w := strings.ToLower(strings.TrimSpace(line))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

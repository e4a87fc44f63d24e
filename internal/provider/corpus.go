package provider

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ivlev/synthtext/internal/layout"
)

//go:embed corpus.txt
var defaultCorpus string

// Corpus is a set of text lines fragments are cut from.
type Corpus struct {
	lines [][]rune
}

// NewCorpus reads one entry per non-blank line.
func NewCorpus(r io.Reader) (*Corpus, error) {
	c := &Corpus{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		c.lines = append(c.lines, []rune(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(c.lines) == 0 {
		return nil, errors.New("corpus is empty")
	}
	return c, nil
}

// LoadCorpus reads a corpus file. An empty path selects the built-in one.
func LoadCorpus(path string) (*Corpus, error) {
	if path == "" {
		return DefaultCorpus(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := NewCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return c, nil
}

func DefaultCorpus() *Corpus {
	c, err := NewCorpus(strings.NewReader(defaultCorpus))
	if err != nil {
		panic(err) // embedded corpus is never empty
	}
	return c
}

func (c *Corpus) Len() int { return len(c.lines) }

// Next cuts a random run of minRunes..maxRunes runes from a random line.
// Leading and trailing spaces are trimmed off the cut.
func (c *Corpus) Next(rnd layout.Rand, minRunes, maxRunes int) string {
	line := c.lines[rnd.Intn(len(c.lines))]
	if maxRunes <= 0 || maxRunes > len(line) {
		maxRunes = len(line)
	}
	minRunes = max(1, min(minRunes, maxRunes))

	n := minRunes
	if maxRunes > minRunes {
		n += rnd.Intn(maxRunes - minRunes + 1)
	}
	start := 0
	if len(line) > n {
		start = rnd.Intn(len(line) - n + 1)
	}
	s := strings.TrimSpace(string(line[start : start+n]))
	if s == "" {
		return string(line[:n])
	}
	return s
}

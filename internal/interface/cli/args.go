// Package cli is the text front end: it turns command lines into commands
// and renders their results.
package cli

import (
	"sort"
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// PREFIXES
// ══════════════════════════════════════════════════════════════════════════════

// Prefix marks the start of one argument, e.g. "n/" in "n/Alex Yeoh".
type Prefix string

const (
	PrefixName        Prefix = "n/"
	PrefixPhone       Prefix = "p/"
	PrefixEmail       Prefix = "e/"
	PrefixTag         Prefix = "t/"
	PrefixClass       Prefix = "c/"
	PrefixLesson      Prefix = "l/"
	PrefixStudent     Prefix = "s/"
	PrefixWeek        Prefix = "w/"
	PrefixScore       Prefix = "a/"
	PrefixDay         Prefix = "d/"
	PrefixStart       Prefix = "st/"
	PrefixEnd         Prefix = "en/"
	PrefixVenue       Prefix = "v/"
	PrefixOccurrences Prefix = "o/"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOKENIZER
// ══════════════════════════════════════════════════════════════════════════════

// ArgMap holds the preamble and every prefixed value of one command line.
type ArgMap struct {
	preamble string
	values   map[Prefix][]string
}

type prefixPosition struct {
	prefix Prefix
	start  int
}

// Tokenize splits args on the given prefixes. A prefix only counts when it
// starts the string or follows whitespace, so "t/" is not found inside "st/".
func Tokenize(args string, prefixes ...Prefix) ArgMap {
	padded := " " + args
	var positions []prefixPosition
	for _, p := range prefixes {
		from := 0
		for {
			i := strings.Index(padded[from:], " "+string(p))
			if i < 0 {
				break
			}
			start := from + i + 1
			positions = append(positions, prefixPosition{prefix: p, start: start})
			from = start
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].start < positions[j].start })

	m := ArgMap{values: make(map[Prefix][]string)}
	if len(positions) == 0 {
		m.preamble = strings.TrimSpace(args)
		return m
	}
	m.preamble = strings.TrimSpace(padded[:positions[0].start])
	for i, pos := range positions {
		end := len(padded)
		if i+1 < len(positions) {
			end = positions[i+1].start
		}
		value := strings.TrimSpace(padded[pos.start+len(pos.prefix) : end])
		m.values[pos.prefix] = append(m.values[pos.prefix], value)
	}
	return m
}

// Preamble returns the text before the first prefix.
func (m ArgMap) Preamble() string {
	return m.preamble
}

// Value returns the last value given for p.
func (m ArgMap) Value(p Prefix) (string, bool) {
	values := m.values[p]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// All returns every value given for p in order.
func (m ArgMap) All(p Prefix) []string {
	return append([]string(nil), m.values[p]...)
}

// Has reports whether p appears at least once.
func (m ArgMap) Has(p Prefix) bool {
	return len(m.values[p]) > 0
}

// HasAll reports whether every prefix appears.
func (m ArgMap) HasAll(prefixes ...Prefix) bool {
	for _, p := range prefixes {
		if !m.Has(p) {
			return false
		}
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// VALUE PARSING
// ══════════════════════════════════════════════════════════════════════════════

// ParseIndex parses a 1-based index.
func ParseIndex(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, ErrInvalidIndex
	}
	return n, nil
}

func parseNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return n, nil
}

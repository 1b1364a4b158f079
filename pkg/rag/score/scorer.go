package score

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases s and returns its runs of word characters.
func Tokenize(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// Scorer counts keyword overlap between chunks and one fixed query.
type Scorer struct {
	terms map[string]struct{}
}

func NewScorer(query string) *Scorer {
	terms := make(map[string]struct{})
	for _, tok := range Tokenize(query) {
		terms[tok] = struct{}{}
	}
	return &Scorer{terms: terms}
}

// Score returns how many chunk tokens, repeats included, occur in the query.
func (s *Scorer) Score(chunk string) int {
	if len(s.terms) == 0 {
		return 0
	}
	n := 0
	for _, tok := range Tokenize(chunk) {
		if _, ok := s.terms[tok]; ok {
			n++
		}
	}
	return n
}

func Score(chunk, query string) int {
	return NewScorer(query).Score(chunk)
}

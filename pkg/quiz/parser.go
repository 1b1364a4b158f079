package quiz

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoQuestions means a response produced no usable question at all.
var ErrNoQuestions = errors.New("no quiz questions could be parsed")

const OptionCount = 4

// Question is one parsed multiple-choice item. Answer holds the option text, not the letter.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Rejection records why a question block was left out.
type Rejection struct {
	Block  int    `json:"block"`
	Reason string `json:"reason"`
}

type ParseResult struct {
	Questions []Question  `json:"questions"`
	Rejected  []Rejection `json:"rejected,omitempty"`
}

// Err returns ErrNoQuestions when nothing survived parsing.
func (r ParseResult) Err() error {
	if len(r.Questions) == 0 {
		return ErrNoQuestions
	}
	return nil
}

const (
	ReasonEmptyQuestion   = "empty question text"
	ReasonOptionCount     = "expected 4 options"
	ReasonDuplicateOption = "duplicate option text"
	ReasonMissingAnswer   = "missing answer line"
	ReasonUnknownAnswer   = "unrecognized answer letter"
)

var (
	questionMarker = regexp.MustCompile(`\nQ\d+\.`)
	optionPrefix   = regexp.MustCompile(`^[ABCD]\)`)
	answerIndex    = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}
)

// Parse splits raw model output on "Q<n>." markers and converts each block into a Question.
// Text before the first marker is ignored. Blocks that do not resolve to exactly four
// options and a valid answer are reported in Rejected instead of guessed.
func Parse(raw string) ParseResult {
	result := ParseResult{Questions: []Question{}}

	parts := questionMarker.Split("\n"+raw, -1)
	if len(parts) < 2 {
		return result
	}

	for i, block := range parts[1:] {
		if strings.TrimSpace(block) == "" {
			continue
		}
		q, reason := parseBlock(block)
		if reason != "" {
			result.Rejected = append(result.Rejected, Rejection{Block: i + 1, Reason: reason})
			continue
		}
		result.Questions = append(result.Questions, q)
	}

	return result
}

func parseBlock(block string) (Question, string) {
	lines := strings.Split(strings.TrimSpace(block), "\n")

	q := Question{Question: strings.TrimSpace(lines[0])}
	if q.Question == "" {
		return q, ReasonEmptyQuestion
	}

	letter := ""
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case optionPrefix.MatchString(line):
			q.Options = append(q.Options, strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "Answer:"):
			letter = answerLetter(strings.TrimPrefix(line, "Answer:"))
		}
	}

	if len(q.Options) != OptionCount {
		return q, fmt.Sprintf("%s, got %d", ReasonOptionCount, len(q.Options))
	}
	if hasDuplicates(q.Options) {
		return q, ReasonDuplicateOption
	}
	if letter == "" {
		return q, ReasonMissingAnswer
	}

	idx, ok := answerIndex[letter]
	if !ok {
		return q, ReasonUnknownAnswer
	}
	q.Answer = q.Options[idx]

	return q, ""
}

// answerLetter takes the first letter after the marker, skipping markdown emphasis.
func answerLetter(s string) string {
	s = strings.TrimLeft(s, " \t*_(")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1])
}

func hasDuplicates(options []string) bool {
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if _, ok := seen[o]; ok {
			return true
		}
		seen[o] = struct{}{}
	}
	return false
}

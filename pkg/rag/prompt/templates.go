package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDetailLevel = errors.New("unknown summary detail level")
	ErrInvalidQuizOptions = errors.New("invalid quiz options")
)

type DetailLevel string

const (
	DetailVeryShort DetailLevel = "very_short"
	DetailShort     DetailLevel = "short"
	DetailDetailed  DetailLevel = "detailed"
)

var summaryStyles = map[DetailLevel]string{
	DetailVeryShort: "Keep it extremely concise (max 5 bullets).",
	DetailShort:     "Use up to 8 bullets with key points only.",
	DetailDetailed:  "Use up to 12 bullets, briefly explain key concepts.",
}

// SummaryPrompt asks for a bullet summary of notes at the given detail level.
func SummaryPrompt(notes string, level DetailLevel) (string, error) {
	style, ok := summaryStyles[level]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDetailLevel, level)
	}

	var prompt strings.Builder
	prompt.WriteString("Summarize the following study notes into bullet points. ")
	prompt.WriteString(style)
	prompt.WriteString("\nUse simple language suitable for quick revision.\n\n")
	prompt.WriteString("Notes:\n\n")
	prompt.WriteString(notes)
	return prompt.String(), nil
}

const (
	MinQuizQuestions     = 3
	MaxQuizQuestions     = 20
	DefaultQuizQuestions = 5
	DefaultDifficulty    = "Medium"
)

var difficulties = map[string]bool{"Easy": true, "Medium": true, "Hard": true}

// QuizPrompt asks for count multiple-choice questions in the Q1./A)-D)/Answer: layout
// the quiz parser understands.
func QuizPrompt(notes string, count int, difficulty string) (string, error) {
	if count < MinQuizQuestions || count > MaxQuizQuestions {
		return "", fmt.Errorf("%w: question count %d outside %d..%d", ErrInvalidQuizOptions, count, MinQuizQuestions, MaxQuizQuestions)
	}
	if !difficulties[difficulty] {
		return "", fmt.Errorf("%w: difficulty %q", ErrInvalidQuizOptions, difficulty)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "From the notes below, generate %d multiple-choice questions of %s difficulty.\n", count, difficulty)
	prompt.WriteString("Provide 4 options (A, B, C, D) and mark the correct one.\n")
	prompt.WriteString("Use exactly this format:\n\n")
	prompt.WriteString("Q1. <question text>\n")
	prompt.WriteString("A) <option>\n")
	prompt.WriteString("B) <option>\n")
	prompt.WriteString("C) <option>\n")
	prompt.WriteString("D) <option>\n")
	prompt.WriteString("Answer: <A/B/C/D>\n\n")
	prompt.WriteString("Repeat for all questions.\n\n")
	prompt.WriteString("Notes:\n")
	prompt.WriteString(notes)
	return prompt.String(), nil
}

package quiz

import (
	"errors"
	"slices"
)

var (
	ErrEmptyQuiz         = errors.New("quiz has no questions")
	ErrInvalidTransition = errors.New("action not allowed in current quiz state")
	ErrUnknownChoice     = errors.New("choice is not one of the current options")
)

type State string

const (
	StateIdle           State = "IDLE"
	StateInProgress     State = "IN_PROGRESS"
	StateAnswerRevealed State = "ANSWER_REVEALED"
	StateCompleted      State = "COMPLETED"
)

// Session tracks progress through one generated quiz.
// Fields are exported so the whole study session can be serialized.
type Session struct {
	Questions     []Question `json:"questions"`
	Index         int        `json:"index"`
	Score         int        `json:"score"`
	FeedbackShown bool       `json:"feedback_shown"`
	LastChoice    string     `json:"last_choice,omitempty"`
}

type Feedback struct {
	Correct bool   `json:"correct"`
	Choice  string `json:"choice"`
	Answer  string `json:"answer"`
}

// View is what a client needs to render the quiz.
type View struct {
	State         State     `json:"state"`
	Index         int       `json:"index"`
	Total         int       `json:"total"`
	Score         int       `json:"score"`
	Question      string    `json:"question,omitempty"`
	Options       []string  `json:"options,omitempty"`
	FeedbackShown bool      `json:"feedback_shown"`
	Feedback      *Feedback `json:"feedback,omitempty"`
}

func (s *Session) State() State {
	switch {
	case len(s.Questions) == 0:
		return StateIdle
	case s.Index >= len(s.Questions):
		return StateCompleted
	case s.FeedbackShown:
		return StateAnswerRevealed
	default:
		return StateInProgress
	}
}

// Generate replaces any previous quiz and starts at the first question.
func (s *Session) Generate(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptyQuiz
	}
	*s = Session{Questions: slices.Clone(questions)}
	return nil
}

// Submit grades choice against the current question. Only one submission
// counts per question; a second one is rejected until Advance.
func (s *Session) Submit(choice string) (Feedback, error) {
	if s.State() != StateInProgress {
		return Feedback{}, ErrInvalidTransition
	}

	current := s.Questions[s.Index]
	if !slices.Contains(current.Options, choice) {
		return Feedback{}, ErrUnknownChoice
	}

	fb := Feedback{
		Correct: choice == current.Answer,
		Choice:  choice,
		Answer:  current.Answer,
	}
	if fb.Correct {
		s.Score++
	}
	s.FeedbackShown = true
	s.LastChoice = choice

	return fb, nil
}

func (s *Session) Advance() (State, error) {
	if s.State() != StateAnswerRevealed {
		return s.State(), ErrInvalidTransition
	}
	s.Index++
	s.FeedbackShown = false
	s.LastChoice = ""
	return s.State(), nil
}

// Restart drops the quiz entirely, from any state.
func (s *Session) Restart() {
	*s = Session{}
}

func (s *Session) Total() int {
	return len(s.Questions)
}

func (s *Session) View() View {
	v := View{
		State:         s.State(),
		Index:         s.Index,
		Total:         len(s.Questions),
		Score:         s.Score,
		FeedbackShown: s.FeedbackShown,
	}

	if v.State == StateInProgress || v.State == StateAnswerRevealed {
		current := s.Questions[s.Index]
		v.Question = current.Question
		v.Options = slices.Clone(current.Options)
		if s.FeedbackShown {
			v.Feedback = &Feedback{
				Correct: s.LastChoice == current.Answer,
				Choice:  s.LastChoice,
				Answer:  current.Answer,
			}
		}
	}

	return v
}

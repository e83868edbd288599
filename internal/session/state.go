// Package session implements the form session controller: an explicit
// session state, a pure reducer over navigation and submission events, and
// a Controller that owns one session and drives submission.
package session

import "github.com/tim-martinez/node-form/internal/models"

const (
	MessageSubmitted       = "Form submitted successfully!"
	MessageSubmitError     = "Error submitting form. Please try again."
	MessageConnectionError = "Error connecting to server. Please try again."
)

// State is everything one form session holds. Progress is derived from
// Answers and is never stored here.
type State struct {
	Section    int
	Answers    models.AnswerSet
	Submitting bool
	Message    string
}

// NewState returns the state of a fresh session.
func NewState() State {
	return State{Answers: models.AnswerSet{}}
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	s.Answers = s.Answers.Clone()
	return s
}

// Succeeded reports whether the status message is the success indicator.
func (s State) Succeeded() bool {
	return s.Message == MessageSubmitted
}

type Event interface{ event() }

type (
	SetAnswer struct {
		QuestionID string
		Value      any
	}
	Next            struct{}
	Previous        struct{}
	GoTo            struct{ Index int }
	SubmitStarted   struct{}
	SubmitSucceeded struct{}
	SubmitFailed    struct{ Transport bool }
)

func (SetAnswer) event()       {}
func (Next) event()            {}
func (Previous) event()        {}
func (GoTo) event()            {}
func (SubmitStarted) event()   {}
func (SubmitSucceeded) event() {}
func (SubmitFailed) event()    {}

// Reduce applies ev to s and returns the new state. s is not modified.
// Navigation outside the form bounds is a no-op.
func Reduce(form *models.Form, s State, ev Event) State {
	last := form.LastSection()
	switch ev := ev.(type) {
	case SetAnswer:
		answers := s.Answers.Clone()
		answers[ev.QuestionID] = ev.Value
		s.Answers = answers
	case Next:
		if s.Section < last {
			s.Section++
		}
	case Previous:
		if s.Section > 0 {
			s.Section--
		}
	case GoTo:
		if ev.Index >= 0 && ev.Index <= last {
			s.Section = ev.Index
		}
	case SubmitStarted:
		s.Submitting = true
		s.Message = ""
	case SubmitSucceeded:
		s.Answers = models.AnswerSet{}
		s.Section = 0
		s.Submitting = false
		s.Message = MessageSubmitted
	case SubmitFailed:
		s.Submitting = false
		if ev.Transport {
			s.Message = MessageConnectionError
		} else {
			s.Message = MessageSubmitError
		}
	}
	return s
}

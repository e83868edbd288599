package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"
)

const (
	FieldID          = "id"
	FieldSubmittedAt = "submittedAt"
)

// TimestampLayout matches JavaScript's Date.toISOString output.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// AnswerSet maps question IDs to scalar values (string or number).
type AnswerSet map[string]any

// Answered reports whether the question has a value that is not the empty string.
func (a AnswerSet) Answered(questionID string) bool {
	v, ok := a[questionID]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// Clone returns a shallow copy. Values are scalars so this is a full copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Submission is one stored answer set. Answers sit at the top level next to
// the server-assigned id and submittedAt fields.
type Submission map[string]any

// NewSubmission builds a record from answers. id and submittedAt always win
// over client-supplied fields of the same name.
func NewSubmission(id string, answers AnswerSet, at time.Time) Submission {
	s := make(Submission, len(answers)+2)
	for k, v := range answers {
		s[k] = v
	}
	s[FieldID] = id
	s[FieldSubmittedAt] = FormatTimestamp(at)
	return s
}

func (s Submission) ID() string {
	id, _ := s[FieldID].(string)
	return id
}

func (s Submission) SubmittedAt() string {
	at, _ := s[FieldSubmittedAt].(string)
	return at
}

// Answers returns the record without its server-assigned fields.
func (s Submission) Answers() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		if k == FieldID || k == FieldSubmittedAt {
			continue
		}
		out[k] = v
	}
	return out
}

// DecodeSubmission parses one JSON object into a Submission. Numbers stay
// json.Number so a stored record re-encodes to the digits it was written with.
func DecodeSubmission(data []byte) (Submission, error) {
	var s Submission
	if err := decodeExact(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeSubmissions parses a JSON array of records, keeping numbers exact.
func DecodeSubmissions(data []byte) ([]Submission, error) {
	var subs []Submission
	if err := decodeExact(data, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func decodeExact(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

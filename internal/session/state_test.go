package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/questionnaire"
)

func TestReduceNavigationBounds(t *testing.T) {
	form := questionnaire.Facility()
	s := NewState()

	s = Reduce(form, s, Previous{})
	assert.Equal(t, 0, s.Section, "previous from first section is a no-op")

	s = Reduce(form, s, Next{})
	s = Reduce(form, s, Next{})
	assert.Equal(t, 2, s.Section)

	s = Reduce(form, s, Next{})
	assert.Equal(t, 2, s.Section, "next from last section is a no-op")

	s = Reduce(form, s, Previous{})
	assert.Equal(t, 1, s.Section)
}

func TestReduceGoTo(t *testing.T) {
	form := questionnaire.Facility()
	s := NewState()

	s = Reduce(form, s, GoTo{Index: 2})
	assert.Equal(t, 2, s.Section, "jumping past incomplete sections is allowed")

	s = Reduce(form, s, GoTo{Index: 7})
	assert.Equal(t, 2, s.Section)
	s = Reduce(form, s, GoTo{Index: -1})
	assert.Equal(t, 2, s.Section)
}

func TestReduceSetAnswerDoesNotMutateInput(t *testing.T) {
	form := questionnaire.Facility()
	before := NewState()
	after := Reduce(form, before, SetAnswer{QuestionID: "facility-name", Value: "ORD Tower"})

	assert.Empty(t, before.Answers)
	assert.Equal(t, "ORD Tower", after.Answers["facility-name"])

	after = Reduce(form, after, SetAnswer{QuestionID: "facility-name", Value: "MDW Tower"})
	assert.Equal(t, "MDW Tower", after.Answers["facility-name"])
}

func TestReduceSubmitLifecycle(t *testing.T) {
	form := questionnaire.Facility()
	s := State{Section: 2, Answers: models.AnswerSet{"gpw-count": "4"}, Message: "old"}

	s = Reduce(form, s, SubmitStarted{})
	assert.True(t, s.Submitting)
	assert.Empty(t, s.Message)

	failed := Reduce(form, s, SubmitFailed{})
	assert.False(t, failed.Submitting)
	assert.Equal(t, MessageSubmitError, failed.Message)
	assert.Equal(t, models.AnswerSet{"gpw-count": "4"}, failed.Answers)
	assert.Equal(t, 2, failed.Section)

	unreachable := Reduce(form, s, SubmitFailed{Transport: true})
	assert.Equal(t, MessageConnectionError, unreachable.Message)

	ok := Reduce(form, s, SubmitSucceeded{})
	assert.False(t, ok.Submitting)
	assert.Empty(t, ok.Answers)
	assert.Equal(t, 0, ok.Section)
	assert.True(t, ok.Succeeded())
}

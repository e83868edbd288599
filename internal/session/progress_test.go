package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/questionnaire"
)

func TestSectionProgressRounding(t *testing.T) {
	form := questionnaire.Facility()
	ops := form.Sections[1]

	assert.Equal(t, 0, SectionProgress(ops, models.AnswerSet{}))
	assert.Equal(t, 25, SectionProgress(ops, models.AnswerSet{"sectors": "A,B"}))

	info := form.Sections[0]
	assert.Equal(t, 33, SectionProgress(info, models.AnswerSet{"facility-name": "x"}))
	assert.Equal(t, 67, SectionProgress(info, models.AnswerSet{"facility-name": "x", "facility-type": "Tower"}))
}

func TestSectionProgressIgnoresEmptyStrings(t *testing.T) {
	info := questionnaire.Facility().Sections[0]
	answers := models.AnswerSet{
		"facility-name":     "ORD Tower",
		"facility-type":     "",
		"facility-location": "Chicago",
	}
	assert.Equal(t, 67, SectionProgress(info, answers))

	answers["facility-type"] = "Tower"
	assert.Equal(t, 100, SectionProgress(info, answers))
}

func TestFacilityInfoScenario(t *testing.T) {
	form := questionnaire.Facility()
	answers := models.AnswerSet{
		"facility-name":     "ORD Tower",
		"facility-type":     "Tower",
		"facility-location": "Chicago",
	}

	progress := Progress(form, answers)
	assert.Equal(t, map[string]int{"facility-info": 100, "operations": 0, "equipment": 0}, progress)
	assert.Equal(t, 33, OverallProgress(form, answers))
	assert.Less(t, OverallProgress(form, answers), 100)
}

func TestOverallProgressComplete(t *testing.T) {
	form := questionnaire.Facility()
	answers := models.AnswerSet{}
	for _, s := range form.Sections {
		for _, q := range s.Questions {
			answers[q.ID] = "x"
		}
	}
	assert.Equal(t, 100, OverallProgress(form, answers))
	for _, s := range form.Sections {
		assert.Empty(t, MissingRequired(s, answers))
	}
}

func TestMissingRequired(t *testing.T) {
	form := &models.Form{Sections: []models.Section{{
		ID: "s",
		Questions: []models.Question{
			{ID: "a", Type: models.KindText, Required: true},
			{ID: "b", Type: models.KindText},
			{ID: "c", Type: models.KindNumber, Required: true},
		},
	}}}
	missing := MissingRequired(form.Sections[0], models.AnswerSet{"c": 3.0})
	if assert.Len(t, missing, 1) {
		assert.Equal(t, "a", missing[0].ID)
	}
}

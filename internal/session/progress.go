package session

import (
	"math"

	"github.com/tim-martinez/node-form/internal/models"
)

// SectionProgress is round(100 * answered / total) for one section.
func SectionProgress(section models.Section, answers models.AnswerSet) int {
	total := len(section.Questions)
	if total == 0 {
		return 0
	}
	answered := 0
	for _, q := range section.Questions {
		if answers.Answered(q.ID) {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(total)))
}

// Progress maps every section ID to its completion percentage.
func Progress(form *models.Form, answers models.AnswerSet) map[string]int {
	out := make(map[string]int, len(form.Sections))
	for _, s := range form.Sections {
		out[s.ID] = SectionProgress(s, answers)
	}
	return out
}

// OverallProgress is the mean of all section percentages, rounded for display.
func OverallProgress(form *models.Form, answers models.AnswerSet) int {
	if len(form.Sections) == 0 {
		return 0
	}
	sum := 0
	for _, s := range form.Sections {
		sum += SectionProgress(s, answers)
	}
	return int(math.Round(float64(sum) / float64(len(form.Sections))))
}

// MissingRequired lists required questions of the section without an answer.
func MissingRequired(section models.Section, answers models.AnswerSet) []models.Question {
	var missing []models.Question
	for _, q := range section.Questions {
		if q.Required && !answers.Answered(q.ID) {
			missing = append(missing, q)
		}
	}
	return missing
}

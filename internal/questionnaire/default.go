// Package questionnaire holds form definitions: the built-in facility
// questionnaire and loaders for YAML or JSON definition files.
package questionnaire

import "github.com/tim-martinez/node-form/internal/models"

// Facility returns the built-in facility questionnaire.
func Facility() *models.Form {
	return &models.Form{
		ID:    "facility",
		Title: "Facility Questionnaire",
		Sections: []models.Section{
			{
				ID:    "facility-info",
				Title: "Facility Information",
				Questions: []models.Question{
					{ID: "facility-name", Label: "Facility Name", Type: models.KindText, Required: true},
					{ID: "facility-type", Label: "Facility Type", Type: models.KindSelect, Required: true,
						Options: []string{"Tower", "TRACON", "Combined"}},
					{ID: "facility-location", Label: "Facility Location", Type: models.KindText, Required: true},
				},
			},
			{
				ID:    "operations",
				Title: "Operations",
				Questions: []models.Question{
					{ID: "daily-operations", Label: "Average Daily Operations", Type: models.KindNumber, Required: true},
					{ID: "operational-hours", Label: "Operational Hours", Type: models.KindSelect, Required: true,
						Options: []string{"24/7", "Daytime Only", "Variable Schedule"}},
					{ID: "training-program", Label: "Training Program Status", Type: models.KindSelect, Required: true,
						Options: []string{"Active", "Limited", "On Hold", "Not Available"}},
					{ID: "sectors", Label: "List all radar sectors", Type: models.KindText, Required: true},
				},
			},
			{
				ID:    "equipment",
				Title: "Equipment & Systems",
				Questions: []models.Question{
					{ID: "primary-system", Label: "Primary ATC System", Type: models.KindText, Required: true},
					{ID: "scope-count", Label: "Number of radar scopes", Type: models.KindNumber, Required: true},
					{ID: "gpw-count", Label: "Number of GPWs", Type: models.KindNumber, Required: true},
				},
			},
		},
	}
}

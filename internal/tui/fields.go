package tui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tim-martinez/node-form/internal/models"
)

const dateLayout = "2006-01-02"

var (
	partialNumber = regexp.MustCompile(`^-?\d*\.?\d*$`)
	partialDate   = regexp.MustCompile(`^\d{0,4}(-\d{0,2}(-\d{0,2})?)?$`)
)

// acceptInput reports whether s may stand in the input while the user is
// still typing. Numeric and date inputs only take characters they can use.
func acceptInput(kind models.Kind, s string) bool {
	switch kind {
	case models.KindNumber:
		return partialNumber.MatchString(s)
	case models.KindDate:
		return len(s) <= len(dateLayout) && partialDate.MatchString(s)
	}
	return true
}

// checkValue validates a finished answer before submission.
func checkValue(q models.Question, v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	switch q.Type {
	case models.KindNumber:
		var f float64
		if _, err := fmt.Sscanf(s, "%g", &f); err != nil || strings.HasSuffix(s, ".") || s == "-" {
			return fmt.Errorf("%s must be a number", q.Label)
		}
	case models.KindDate:
		if _, err := time.Parse(dateLayout, s); err != nil {
			return fmt.Errorf("%s must be a date (YYYY-MM-DD)", q.Label)
		}
	case models.KindSelect:
		for _, opt := range q.Options {
			if opt == s {
				return nil
			}
		}
		return fmt.Errorf("%s has an unknown option %q", q.Label, s)
	}
	return nil
}

// optionIndex returns the position of value in options, or -1 for none.
func optionIndex(options []string, value any) int {
	s, _ := value.(string)
	for i, opt := range options {
		if opt == s {
			return i
		}
	}
	return -1
}

// cycleOption steps through "no selection" (-1) and every option.
func cycleOption(current, n, step int) int {
	pos := (current + 1 + step) % (n + 1)
	if pos < 0 {
		pos += n + 1
	}
	return pos - 1
}

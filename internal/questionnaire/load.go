package questionnaire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tim-martinez/node-form/internal/models"
)

var ErrInvalidForm = errors.New("invalid form definition")

// Load reads a form definition file, or returns the built-in questionnaire
// when path is empty. Files ending in .json are parsed as JSON, anything else
// as YAML. Unknown fields are rejected.
func Load(path string) (*models.Form, error) {
	if path == "" {
		return Facility(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form definition: %w", err)
	}
	var form *models.Form
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		form, err = parseJSON(data)
	} else {
		form, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(form); err != nil {
		return nil, err
	}
	return form, nil
}

func parseJSON(data []byte) (*models.Form, error) {
	var form models.Form
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&form); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &form, nil
}

func parseYAML(data []byte) (*models.Form, error) {
	var form models.Form
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&form); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &form, nil
}

// EncodeYAML writes the form definition as YAML.
func EncodeYAML(w io.Writer, form *models.Form) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(form); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Validate checks the structural invariants the session controller relies on.
func Validate(form *models.Form) error {
	if form == nil || len(form.Sections) == 0 {
		return fmt.Errorf("%w: at least one section is required", ErrInvalidForm)
	}
	sectionIDs := map[string]struct{}{}
	questionIDs := map[string]struct{}{}
	for i, s := range form.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalidForm, i)
		}
		if _, dup := sectionIDs[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalidForm, s.ID)
		}
		sectionIDs[s.ID] = struct{}{}
		if len(s.Questions) == 0 {
			return fmt.Errorf("%w: section %q has no questions", ErrInvalidForm, s.ID)
		}
		for _, q := range s.Questions {
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("%w: section %q: %v", ErrInvalidForm, s.ID, err)
			}
			if _, dup := questionIDs[q.ID]; dup {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidForm, q.ID)
			}
			questionIDs[q.ID] = struct{}{}
		}
	}
	return nil
}

func validateQuestion(q models.Question) error {
	if q.ID == "" {
		return errors.New("question has no id")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
	}
	if q.Type != models.KindSelect {
		if len(q.Options) > 0 {
			return fmt.Errorf("question %q: options are only allowed on select questions", q.ID)
		}
		return nil
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %q: select needs at least one option", q.ID)
	}
	seen := map[string]struct{}{}
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("question %q: duplicate option %q", q.ID, opt)
		}
		seen[opt] = struct{}{}
	}
	return nil
}

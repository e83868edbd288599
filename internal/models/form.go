package models

// Kind is the input kind of a question.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
	KindSelect Kind = "select"
)

// Valid reports whether k is one of the known input kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindDate, KindSelect:
		return true
	}
	return false
}

type Question struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Type     Kind     `json:"type" yaml:"type"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
}

type Section struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Form is an ordered list of sections. Section order is the navigation order.
type Form struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// QuestionCount returns the number of questions across all sections.
func (f *Form) QuestionCount() int {
	n := 0
	for _, s := range f.Sections {
		n += len(s.Questions)
	}
	return n
}

// LastSection returns the index of the final section, or -1 for an empty form.
func (f *Form) LastSection() int {
	return len(f.Sections) - 1
}

package mapper

// FormSchema describes the manual-entry form for one standard. Tenants that
// have no parseable source document fill these fields by hand; the frontend
// renders the schema verbatim.
type FormSchema struct {
	Standard string        `json:"standard"`
	Sections []FormSection `json:"sections"`
}

// FormSection is one group of fields. Repeatable sections (competent persons,
// resource rows) can be instantiated multiple times.
type FormSection struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Repeatable bool        `json:"repeatable,omitempty"`
	Fields     []FormField `json:"fields"`
}

// FormField is one input. Type is one of text, textarea, number, date, email,
// select; Options is set for selects only.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

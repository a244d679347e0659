package schema

// FieldType classifies how a config field is presented and collected.
type FieldType string

const (
	FieldText     FieldType = "text"     // Free-form single line
	FieldPassword FieldType = "password" // Secret, never echoed back
	FieldSelect   FieldType = "select"   // One of a fixed set of options
	FieldCheckbox FieldType = "checkbox" // Boolean toggle
	FieldNumber   FieldType = "number"   // Numeric input
	FieldTextarea FieldType = "textarea" // Free-form multi-line
)

// FieldOption is one selectable value/label pair for select fields.
type FieldOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ConfigField is a single named, typed configuration input declared by a
// plugin's setup schema. Name is unique within a schema.
type ConfigField struct {
	Name         string        `json:"name" yaml:"name"`
	Type         FieldType     `json:"type" yaml:"type"`
	Label        string        `json:"label" yaml:"label"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required     bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern      string        `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	PatternError string        `json:"pattern_error,omitempty" yaml:"pattern_error,omitempty"`
	Options      []FieldOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// ConfigSchema is the ordered set of fields a plugin declares it needs.
// Order is significant for presentation; it is immutable after session
// creation.
type ConfigSchema struct {
	Fields []ConfigField `json:"fields" yaml:"fields"`
}

// Field returns the field with the given name, or nil if the schema does not
// declare it.
func (s *ConfigSchema) Field(name string) *ConfigField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the declared field names in schema order.
func (s *ConfigSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

package core

import (
	"fmt"
	"strings"

	"plugsetup/pkg/schema"
)

// FieldPrompt renders the conversational prompt for one config field. Pure
// formatting; nothing here mutates session state.
func FieldPrompt(field *schema.ConfigField) string {
	var b strings.Builder

	label := field.Label
	if label == "" {
		label = field.Name
	}

	fmt.Fprintf(&b, "Please provide a value for %s", label)
	if field.Required {
		b.WriteString(" (required)")
	}
	b.WriteString(".")

	if field.Description != "" {
		fmt.Fprintf(&b, "\n%s", field.Description)
	}

	switch field.Type {
	case schema.FieldPassword:
		b.WriteString("\nThis value is stored securely and will not be shown again.")
	case schema.FieldSelect:
		if len(field.Options) > 0 {
			b.WriteString("\nChoose one of:")
			for _, opt := range field.Options {
				fmt.Fprintf(&b, "\n  - %s (%s)", opt.Value, opt.Label)
			}
		}
	case schema.FieldCheckbox:
		b.WriteString("\nAnswer true or false.")
	case schema.FieldNumber:
		b.WriteString("\nEnter a number.")
	case schema.FieldTextarea:
		b.WriteString("\nMultiple lines are accepted.")
	}

	if field.Placeholder != "" {
		fmt.Fprintf(&b, "\nExample: %s", field.Placeholder)
	}

	return b.String()
}

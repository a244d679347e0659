package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidateFieldValue checks a proposed value against the schema's declared
// constraints for the named field. A nil return means the value is accepted.
func ValidateFieldValue(s *ConfigSchema, name string, value Value) error {
	field := s.Field(name)
	if field == nil {
		return fmt.Errorf("unknown field %q; valid fields: %s",
			name, strings.Join(s.FieldNames(), ", "))
	}

	// A kind-less zero Value means the caller never supplied one (e.g. the
	// field was omitted from a decoded request). Persisting it would write
	// null into the config file, so it is rejected for every field, not
	// just required ones.
	switch value.Kind {
	case KindString, KindNumber, KindBool:
	default:
		if field.Required {
			return fmt.Errorf("field %q is required", name)
		}
		return fmt.Errorf("no value provided for field %q", name)
	}

	if field.Required && value.IsEmpty() {
		return fmt.Errorf("field %q is required", name)
	}

	// Pattern constraints only apply to string values.
	if field.Pattern != "" && value.Kind == KindString {
		re, err := regexp.Compile(field.Pattern)
		if err != nil {
			return fmt.Errorf("field %q has invalid pattern %q: %w", name, field.Pattern, err)
		}
		if !re.MatchString(value.Str) {
			if field.PatternError != "" {
				return fmt.Errorf("%s", field.PatternError)
			}
			return fmt.Errorf("value for %q does not match pattern %s", name, field.Pattern)
		}
	}

	return nil
}

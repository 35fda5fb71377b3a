package flow

import (
	"errors"
	"fmt"
)

// ErrMissingArgument is returned when a required handler parameter is
// absent or has the wrong type.
var ErrMissingArgument = errors.New("flow: missing argument")

// Args carries handler arguments decoded from JSON, so values are
// strings and bools.
type Args map[string]any

// String returns the string value for key, or "" when absent.
func (a Args) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// Bool returns the bool value for key, or false when absent.
func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// validate checks a's required parameters against the binding spec.
func (a Args) validate(b Binding) error {
	for _, p := range b.Params {
		if !p.Required {
			continue
		}
		switch p.Type {
		case "boolean":
			if _, ok := a[p.Name].(bool); !ok {
				return fmt.Errorf("%w: %s.%s", ErrMissingArgument, b.Name, p.Name)
			}
		default:
			if a.String(p.Name) == "" {
				return fmt.Errorf("%w: %s.%s", ErrMissingArgument, b.Name, p.Name)
			}
		}
	}
	return nil
}

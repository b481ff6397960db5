// Package schema describes capability arguments and renders them as JSON Schema.
package schema

// Kind is the primitive type an argument accepts.
type Kind int

const (
	String Kind = iota + 1
	Number
	Integer
	Boolean
)

// String returns the JSON Schema type name for k.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Arg is a tagged description of one argument.
type Arg struct {
	Name        string
	Kind        Kind
	Optional    bool
	Description string
	Minimum     *float64
}

// Args is an ordered argument list. Order is preserved in discovery output.
type Args []Arg

// Required reports whether the argument must be supplied.
func (a Arg) Required() bool { return !a.Optional }

// Min returns a copy of a with a lower bound attached. Only meaningful for
// Number and Integer arguments.
func (a Arg) Min(v float64) Arg {
	a.Minimum = &v
	return a
}

// Str declares a required string argument.
func Str(name, description string) Arg {
	return Arg{Name: name, Kind: String, Description: description}
}

// Num declares a required number argument.
func Num(name, description string) Arg {
	return Arg{Name: name, Kind: Number, Description: description}
}

// Int declares a required integer argument.
func Int(name, description string) Arg {
	return Arg{Name: name, Kind: Integer, Description: description}
}

// Bool declares a required boolean argument.
func Bool(name, description string) Arg {
	return Arg{Name: name, Kind: Boolean, Description: description}
}

// Optional marks the argument as optional.
func Optional(a Arg) Arg {
	a.Optional = true
	return a
}

// Lookup returns the argument named name.
func (as Args) Lookup(name string) (Arg, bool) {
	for _, a := range as {
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// Schema represents the subset of JSON Schema used for tool input discovery.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Description string             `json:"description,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
}

// JSONSchema renders the argument list as an object schema.
func (as Args) JSONSchema() *Schema {
	s := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema, len(as)),
	}
	for _, a := range as {
		s.Properties[a.Name] = &Schema{
			Type:        a.Kind.String(),
			Description: a.Description,
			Minimum:     a.Minimum,
		}
		if a.Required() {
			s.Required = append(s.Required, a.Name)
		}
	}
	return s
}

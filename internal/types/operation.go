package types

// ParamType constrains how an operation parameter's string value is parsed
// and, for file-handle params, triggers Registry resolution before argv
// substitution.
type ParamType int

const (
	ParamDuration ParamType = iota
	ParamInteger
	ParamFloat
	ParamFileHandle
	ParamEnum
	ParamString
)

func (t ParamType) String() string {
	switch t {
	case ParamDuration:
		return "duration"
	case ParamInteger:
		return "integer"
	case ParamFloat:
		return "float"
	case ParamFileHandle:
		return "file_handle"
	case ParamEnum:
		return "enum"
	default:
		return "string"
	}
}

// ParamSpec declares one named parameter an OperationSpec's template may
// reference.
type ParamSpec struct {
	Name     string
	Type     ParamType
	Required bool
	Enum     []string // allowed values, only meaningful when Type == ParamEnum
	Default  string
}

// ExtensionPolicy governs what output extensions callers may request for an
// operation.
type ExtensionPolicy int

const (
	// ExtensionFixed means the operation always produces one fixed
	// extension, ignoring the caller's request.
	ExtensionFixed ExtensionPolicy = iota
	// ExtensionCallerChoice means the caller may pick from AllowedExtensions.
	ExtensionCallerChoice
)

// ArgToken is one token of an operation's argv template. Normally exactly
// one of Literal or Placeholder is set, and the Executor substitutes a
// Placeholder token wholesale with its parameter's resolved value. A Literal
// token MAY additionally carry "${paramName}" markers (e.g. a filter value
// combining two params, such as "scale=${width}:${height}"); the Executor
// text-substitutes those markers in place rather than replacing the whole
// token, since ffmpeg expects one argv entry per filter expression.
type ArgToken struct {
	Literal     string
	Placeholder string // parameter name, substituted at build time
}

// Lit builds a literal argv token.
func Lit(s string) ArgToken { return ArgToken{Literal: s} }

// Ref builds a placeholder argv token referencing a declared parameter.
func Ref(name string) ArgToken { return ArgToken{Placeholder: name} }

// OperationSpec is a catalog entry: the static, data-driven description of
// one whitelisted media operation. The Executor interprets this data; no
// operation is implemented as a bespoke Go function, per the "operation
// catalog as data" pattern.
type OperationSpec struct {
	Name              string
	Description       string
	Params            []ParamSpec
	PreInputArgs      []ArgToken // inserted immediately before "-i <input>"
	ArgsTemplate      []ArgToken // remaining argv, after the primary input
	ExtensionPolicy   ExtensionPolicy
	FixedExtension    string   // used when ExtensionPolicy == ExtensionFixed
	AllowedExtensions []string // used when ExtensionPolicy == ExtensionCallerChoice
	// SecondInputParam names the file-handle param (if any) that supplies a
	// second "-i" input, for dual-input operations like concatenate_simple,
	// gradient_wipe, crossfade_transition, and replace_audio.
	SecondInputParam string
}

// ParamByName returns the declared ParamSpec for name, or false if name is
// not declared on this operation.
func (o OperationSpec) ParamByName(name string) (ParamSpec, bool) {
	for _, p := range o.Params {
		if p.Name == name {
			return p, true
		}
	}

	return ParamSpec{}, false
}

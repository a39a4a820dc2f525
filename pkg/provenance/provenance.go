// Package provenance tracks where a field value came from.
//
// A Value pairs a string with a State describing how much it can be trusted:
// unknown, guessed by a heuristic, verified against a live source, overridden
// by the user, or excluded from searching altogether. Precedence between
// states is a pure function over the tag (see Supersede).
package provenance

import (
	"strings"

	"github.com/agentstation/halloffame/pkg/errors"
)

// State is the provenance tag of a Value.
type State uint8

// Provenance states.
const (
	// StateUnknown means no claim has been made.
	StateUnknown State = iota
	// StateGuessed is a heuristic value, for example derived from a repository name.
	StateGuessed
	// StateVerified is a value matched against a live source.
	StateVerified
	// StateOverridden is a user-declared value.
	StateOverridden
	// StateExcluded means the field must not be searched at all.
	StateExcluded
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateGuessed:
		return "guessed"
	case StateVerified:
		return "verified"
	case StateOverridden:
		return "overridden"
	case StateExcluded:
		return "excluded"
	default:
		return "invalid"
	}
}

// Serialized prefixes.
const (
	GuessedPrefix   = "?"
	VerifiedPrefix  = "!"
	EscapePrefix    = "="
	ExcludedLiteral = "%EXCLUDED%"
)

// Value is a provenance-tagged string. The zero Value is Unknown.
type Value struct {
	state State
	value string
}

// Unknown returns an empty value with no claim.
func Unknown() Value { return Value{} }

// Guessed returns a heuristic value.
func Guessed(v string) Value { return Value{state: StateGuessed, value: v} }

// Verified returns a value confirmed by a live source.
func Verified(v string) Value { return Value{state: StateVerified, value: v} }

// Overridden returns a user-declared value.
func Overridden(v string) Value { return Value{state: StateOverridden, value: v} }

// Excluded returns the do-not-search marker.
func Excluded() Value { return Value{state: StateExcluded} }

// State returns the provenance tag.
func (v Value) State() State { return v.state }

// String returns the payload. Unknown and Excluded have an empty payload.
func (v Value) String() string { return v.value }

// IsKnown reports whether the value is Verified or Overridden.
func (v Value) IsKnown() bool {
	return v.state == StateVerified || v.state == StateOverridden
}

// IsPresent reports whether the value is not Excluded and has non-blank content.
func (v Value) IsPresent() bool {
	return v.state != StateExcluded && strings.TrimSpace(v.value) != ""
}

// IsExcluded reports whether the field must be skipped by sources.
func (v Value) IsExcluded() bool { return v.state == StateExcluded }

// IsTerminal reports whether automated values can no longer replace this one.
func (v Value) IsTerminal() bool {
	return v.state == StateOverridden || v.state == StateExcluded
}

// IsUserDeclared reports whether the value came from the user.
func (v Value) IsUserDeclared() bool { return v.IsTerminal() }

// Or returns v when it is present and fallback otherwise.
func (v Value) Or(fallback string) string {
	if v.IsPresent() {
		return v.value
	}
	return fallback
}

// rank orders automated states. User-declared states rank above all of them.
func (s State) rank() int {
	switch s {
	case StateGuessed:
		return 1
	case StateVerified:
		return 2
	case StateOverridden, StateExcluded:
		return 3
	default:
		return 0
	}
}

// Supersede returns the value that wins when next is offered for a field
// currently holding current.
//
// Overridden and Excluded are fixed points for automated values. Verified
// replaces Unknown and Guessed, Guessed replaces only Unknown, and nothing
// automated replaces a value of equal rank. A user declaration always
// replaces the current value, including an earlier declaration.
func Supersede(current, next Value) Value {
	if next.IsUserDeclared() {
		return next
	}
	if current.IsTerminal() {
		return current
	}
	if next.state.rank() > current.state.rank() {
		return next
	}
	return current
}

// Encode returns the flat prefixed string form of the value.
func (v Value) Encode() string {
	switch v.state {
	case StateGuessed:
		return GuessedPrefix + v.value
	case StateVerified:
		return VerifiedPrefix + v.value
	case StateExcluded:
		return ExcludedLiteral
	case StateOverridden:
		if needsEscape(v.value) {
			return EscapePrefix + v.value
		}
		return v.value
	default:
		return ""
	}
}

func needsEscape(s string) bool {
	return s == "" || s == ExcludedLiteral ||
		strings.HasPrefix(s, GuessedPrefix) ||
		strings.HasPrefix(s, VerifiedPrefix) ||
		strings.HasPrefix(s, EscapePrefix)
}

// Decode parses the prefixed string form produced by Encode.
// A plain string is a user override, the empty string is Unknown.
func Decode(s string) Value {
	switch {
	case s == "":
		return Unknown()
	case s == ExcludedLiteral:
		return Excluded()
	case strings.HasPrefix(s, GuessedPrefix):
		return Guessed(s[len(GuessedPrefix):])
	case strings.HasPrefix(s, VerifiedPrefix):
		return Verified(s[len(VerifiedPrefix):])
	case strings.HasPrefix(s, EscapePrefix):
		return Overridden(s[len(EscapePrefix):])
	default:
		return Overridden(s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	if v.state > StateExcluded {
		return nil, errors.NewValidationError("state", v.state, "unknown provenance state")
	}
	return []byte(v.Encode()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	*v = Decode(string(text))
	return nil
}

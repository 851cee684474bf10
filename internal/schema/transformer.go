package schema

// Stage says when a transformer runs relative to coercion and validation.
// Transformers default to a fixed stage per kind (see the engine's stage
// table); an explicit Stage on the rule overrides the default.
type Stage string

const (
	// StageDefault means no explicit override: the engine's stage table
	// decides.
	StageDefault Stage = ""

	// StagePre runs before type coercion and validation, so validators see
	// the canonical form of the value.
	StagePre Stage = "pre"

	// StagePost runs after validation, for presentation and enrichment
	// transforms that must not influence whether raw input validates.
	StagePost Stage = "post"
)

// Transformer is a rule that rewrites a field's value. Transformers never
// produce validation errors themselves.
//
// Like Validator, the set is closed: one struct per kind, dispatched on the
// concrete type. Every variant may carry an explicit Stage override.
type Transformer interface {
	transformer()
}

// Trim removes leading and trailing whitespace. Defaults to pre.
type Trim struct {
	Stage Stage
}

// Uppercase maps the value to upper case. Defaults to pre.
type Uppercase struct {
	Stage Stage
}

// Lowercase maps the value to lower case. Defaults to pre.
type Lowercase struct {
	Stage Stage
}

// Capitalize title-cases the value. Defaults to post.
type Capitalize struct {
	Stage Stage
}

// RemoveSpecialChars strips everything except letters, digits, and spaces.
// Defaults to pre.
type RemoveSpecialChars struct {
	Stage Stage
}

// NormalizePhone reformats the value as a canonical phone number when it
// contains enough digits. Defaults to pre.
type NormalizePhone struct {
	Stage Stage
}

// NormalizeDate reparses the value as a date and reformats it with Format
// (a Go time layout; defaults to 2006-01-02 when empty). Defaults to pre.
type NormalizeDate struct {
	Format string
	Stage  Stage
}

// Default substitutes Value when the field is empty after pre-stage
// transforms. Defaults to post so a defaulted value never counts as
// user-supplied for a required check.
type Default struct {
	Value string
	Stage Stage
}

// Replace substitutes every occurrence of Find with Replace. Defaults to post.
type Replace struct {
	Find    string
	Replace string
	Stage   Stage
}

// Custom invokes a named transform capability registered by the host
// application ahead of time. Defaults to post.
type Custom struct {
	Name  string
	Stage Stage
}

func (Trim) transformer()               {}
func (Uppercase) transformer()          {}
func (Lowercase) transformer()          {}
func (Capitalize) transformer()         {}
func (RemoveSpecialChars) transformer() {}
func (NormalizePhone) transformer()     {}
func (NormalizeDate) transformer()      {}
func (Default) transformer()            {}
func (Replace) transformer()            {}
func (Custom) transformer()             {}

// transformerStage returns the explicit stage override carried by t, or
// StageDefault when the rule does not declare one.
func transformerStage(t Transformer) Stage {
	switch t := t.(type) {
	case Trim:
		return t.Stage
	case Uppercase:
		return t.Stage
	case Lowercase:
		return t.Stage
	case Capitalize:
		return t.Stage
	case RemoveSpecialChars:
		return t.Stage
	case NormalizeDate:
		return t.Stage
	case NormalizePhone:
		return t.Stage
	case Default:
		return t.Stage
	case Replace:
		return t.Stage
	case Custom:
		return t.Stage
	}
	return StageDefault
}

// StageOverride exposes the explicit stage override for a transformer so the
// engine's stage resolver can honor it.
func StageOverride(t Transformer) Stage {
	return transformerStage(t)
}

package schema

// Validator is a rule that inspects a (possibly transformed) field value and
// may produce a field error. Validators never mutate the value.
//
// The set of validators is closed: each variant is a distinct struct carrying
// only its own parameters, and the engine dispatches on the concrete type.
// Every variant may carry a custom Message that replaces the stock error text.
type Validator interface {
	validator()
}

// Required fails when the value is empty after pre-stage transforms.
type Required struct {
	Message string
}

// Unique fails when the value was already seen in this column earlier in the
// dataset. The first occurrence wins; later duplicates are flagged.
type Unique struct {
	Message string
}

// Regex fails when the value does not match Pattern.
type Regex struct {
	Pattern string
	Message string
}

// Min fails when the value is not numeric or is below Value.
type Min struct {
	Value   float64
	Message string
}

// Max fails when the value is not numeric or is above Value.
type Max struct {
	Value   float64
	Message string
}

// MinLength fails when the value is shorter than Value characters.
type MinLength struct {
	Value   int
	Message string
}

// MaxLength fails when the value is longer than Value characters.
type MaxLength struct {
	Value   int
	Message string
}

func (Required) validator()  {}
func (Unique) validator()    {}
func (Regex) validator()     {}
func (Min) validator()       {}
func (Max) validator()       {}
func (MinLength) validator() {}
func (MaxLength) validator() {}

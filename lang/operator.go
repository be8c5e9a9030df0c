package lang

import "sort"

// Associativity controls how binary operators of equal precedence group.
type Associativity int

const (
	// LeftAssoc groups a ∘ b ∘ c as (a ∘ b) ∘ c.
	LeftAssoc Associativity = iota
	// RightAssoc groups a ∘ b ∘ c as a ∘ (b ∘ c).
	RightAssoc
)

// Operator is a named unary or binary operator known to the parser.
type Operator interface {
	Name() string
	Precedence() int

	// IsLessThan reports whether the receiver, about to be pushed, forces
	// other (the top of the operator stack) to be reduced first.
	IsLessThan(other Operator) bool
}

// UnaryFunc evaluates a unary operator.
type UnaryFunc func(f *Frame, v Value) (Value, error)

// BinaryFunc evaluates a binary operator.
type BinaryFunc func(f *Frame, a, b Value) (Value, error)

// UnaryOperator is a prefix operator.
type UnaryOperator struct {
	Apply UnaryFunc
	name  string
	prec  int
}

// NewUnaryOperator returns a prefix operator.
func NewUnaryOperator(name string, prec int, apply UnaryFunc) *UnaryOperator {
	return &UnaryOperator{name: name, prec: prec, Apply: apply}
}

// Name implements [Operator].
func (o *UnaryOperator) Name() string { return o.name }

// Precedence implements [Operator].
func (o *UnaryOperator) Precedence() int { return o.prec }

// IsLessThan implements [Operator]. A prefix operator never has a left
// operand, so it never reduces what precedes it.
func (o *UnaryOperator) IsLessThan(Operator) bool { return false }

func (o *UnaryOperator) String() string { return o.name }

// BinaryOperator is an infix operator.
type BinaryOperator struct {
	Apply BinaryFunc
	name  string
	prec  int
	assoc Associativity
}

// NewBinaryOperator returns an infix operator.
func NewBinaryOperator(
	name string,
	prec int,
	assoc Associativity,
	apply BinaryFunc,
) *BinaryOperator {
	return &BinaryOperator{name: name, prec: prec, assoc: assoc, Apply: apply}
}

// Name implements [Operator].
func (o *BinaryOperator) Name() string { return o.name }

// Precedence implements [Operator].
func (o *BinaryOperator) Precedence() int { return o.prec }

// Associativity returns the operator's associativity.
func (o *BinaryOperator) Associativity() Associativity { return o.assoc }

// IsLessThan implements [Operator].
func (o *BinaryOperator) IsLessThan(other Operator) bool {
	if o.assoc == RightAssoc {
		return o.prec < other.Precedence()
	}

	return o.prec <= other.Precedence()
}

func (o *BinaryOperator) String() string { return o.name }

// Dictionary holds the unary and binary operators known to a parser, plus
// the default operator inserted between adjacent terms.
type Dictionary struct {
	unary  map[string]*UnaryOperator
	binary map[string]*BinaryOperator
	def    *BinaryOperator
	gen    uint64
}

// NewDictionary returns an empty operator dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		unary:  make(map[string]*UnaryOperator),
		binary: make(map[string]*BinaryOperator),
	}
}

// AddUnary registers a prefix operator, replacing any with the same name.
func (d *Dictionary) AddUnary(op *UnaryOperator) *UnaryOperator {
	d.unary[op.name] = op
	d.gen++

	return op
}

// AddBinary registers an infix operator, replacing any with the same name.
func (d *Dictionary) AddBinary(op *BinaryOperator) *BinaryOperator {
	d.binary[op.name] = op
	d.gen++

	return op
}

// SetDefault designates the operator inserted between adjacent terms.
func (d *Dictionary) SetDefault(op *BinaryOperator) {
	d.def = op
	d.gen++
}

// Generation counts the changes made to d. It identifies the syntax a
// source was parsed with.
func (d *Dictionary) Generation() uint64 { return d.gen }

// Unary returns the prefix operator with the given name.
func (d *Dictionary) Unary(name string) (*UnaryOperator, bool) {
	op, ok := d.unary[name]

	return op, ok
}

// Binary returns the infix operator with the given name.
func (d *Dictionary) Binary(name string) (*BinaryOperator, bool) {
	op, ok := d.binary[name]

	return op, ok
}

// Default returns the default operator, if one is set.
func (d *Dictionary) Default() (*BinaryOperator, bool) {
	return d.def, d.def != nil
}

// Names returns the sorted, de-duplicated names of all operators.
func (d *Dictionary) Names() []string {
	seen := make(map[string]struct{}, len(d.unary)+len(d.binary))
	for name := range d.unary {
		seen[name] = struct{}{}
	}

	for name := range d.binary {
		seen[name] = struct{}{}
	}

	return sortedKeys(seen)
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

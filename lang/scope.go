package lang

import (
	"log/slog"
	"slices"
)

// Scope maps names to symbols. Lookups that miss locally fall back to the
// parent scope, if any.
type Scope interface {
	Get(name string) (Symbol, bool)
	Put(name string, sym Symbol) error
	// Names returns every name visible from the scope, sorted.
	Names() []string
}

// RootScope is a writable scope without a parent. The environment's global
// scope is a RootScope.
type RootScope struct {
	symbols map[string]Symbol
}

// NewRootScope returns an empty root scope.
func NewRootScope() *RootScope {
	return &RootScope{symbols: make(map[string]Symbol)}
}

// Get implements [Scope].
func (s *RootScope) Get(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]

	return sym, ok
}

// Put implements [Scope].
func (s *RootScope) Put(name string, sym Symbol) error {
	s.symbols[name] = sym

	return nil
}

// Names implements [Scope].
func (s *RootScope) Names() []string { return sortedKeys(s.symbols) }

// NestedScope is a writable scope whose writes shadow its parent.
type NestedScope struct {
	parent  Scope
	symbols map[string]Symbol
}

// NewNestedScope returns an empty scope chained to parent.
func NewNestedScope(parent Scope) *NestedScope {
	return &NestedScope{parent: parent, symbols: make(map[string]Symbol)}
}

// Get implements [Scope].
func (s *NestedScope) Get(name string) (Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}

	return s.parent.Get(name)
}

// Put implements [Scope].
func (s *NestedScope) Put(name string, sym Symbol) error {
	s.symbols[name] = sym

	return nil
}

// Names implements [Scope].
func (s *NestedScope) Names() []string {
	names := append(s.parent.Names(), sortedKeys(s.symbols)...)
	slices.Sort(names)

	return slices.Compact(names)
}

// PatternScope is a read-only scope used while compiling patterns. Names
// that the parent cannot resolve resolve to pattern placeholders instead of
// failing.
type PatternScope struct {
	parent Scope
}

// NewPatternScope returns a pattern scope over parent.
func NewPatternScope(parent Scope) *PatternScope {
	return &PatternScope{parent: parent}
}

// Get implements [Scope]. It always succeeds.
func (s *PatternScope) Get(name string) (Symbol, bool) {
	if sym, ok := s.parent.Get(name); ok {
		return sym, true
	}

	return patternSymbol{name: name}, true
}

// Put implements [Scope]. Pattern scopes reject all writes.
func (s *PatternScope) Put(name string, _ Symbol) error {
	return ErrReadOnlyScope.With(slog.String("name", name))
}

// Names implements [Scope].
func (s *PatternScope) Names() []string { return s.parent.Names() }

// Define binds name to v in scope.
func Define(scope Scope, name string, v Value) error {
	return scope.Put(name, Bind(v))
}

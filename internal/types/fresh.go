package types

import "fmt"

// Fresh allocates distinct type variable names. Freshness holds for the
// duration of one inference run: two calls never return the same name.
// The supply is injected into the unifier and inferencer rather than kept
// as a package-level counter, so tests that depend on specific names can
// reset it.
type Fresh struct {
	counter int
}

// NewFresh creates a fresh-variable supply starting at T0
func NewFresh() *Fresh {
	return &Fresh{}
}

// Fresh returns the next unused type variable
func (f *Fresh) Fresh() *TVar {
	v := &TVar{Name: fmt.Sprintf("T%d", f.counter)}
	f.counter++
	return v
}

// Reset rewinds the supply to T0
func (f *Fresh) Reset() {
	f.counter = 0
}

package attribute

import "fmt"

// Array is the dense attribute register file: one float64 per Attribute.
// It is a value type; assignment copies the whole register file, which is how
// the evaluator snapshots base attributes into working attributes.
//
// Invariant: indexing with an attribute outside the closed set is a
// programming error and panics; it is never a recoverable condition.
type Array [Count]float64

// Get returns the value stored for a.
//
// Precondition: a.Valid(). Panics otherwise.
func (r *Array) Get(a Attribute) float64 {
	if !a.Valid() {
		panic(fmt.Sprintf("attribute: Get with invalid attribute %d", int(a)))
	}
	return r[a]
}

// Set overwrites the value stored for a.
//
// Precondition: a.Valid(). Panics otherwise.
func (r *Array) Set(a Attribute, v float64) {
	if !a.Valid() {
		panic(fmt.Sprintf("attribute: Set with invalid attribute %d", int(a)))
	}
	r[a] = v
}

// Add accumulates v into the value stored for a.
//
// Precondition: a.Valid(). Panics otherwise.
func (r *Array) Add(a Attribute, v float64) {
	if !a.Valid() {
		panic(fmt.Sprintf("attribute: Add with invalid attribute %d", int(a)))
	}
	r[a] += v
}

// Clear zeroes every register.
func (r *Array) Clear() {
	*r = Array{}
}

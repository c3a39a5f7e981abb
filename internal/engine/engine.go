// Package engine holds the explicit stacks the parser runs on. Depth and value
// limits are enforced as the stacks grow so a hostile input fails fast instead
// of being parsed to completion.
package engine

// Stacks pairs a state stack with a value stack. S is the parser state type
// and V the value type under construction.
type Stacks[S any, V any] struct {
	states []S
	values []V
	limits Limits
	count  int
}

// New returns stacks seeded with one state. The seed sits at depth 0.
func New[S any, V any](seed S, limits Limits) *Stacks[S, V] {
	st := &Stacks[S, V]{limits: limits}
	st.states = make([]S, 1, 8)
	st.states[0] = seed
	st.values = make([]V, 0, 16)
	return st
}

// Depth returns the index of the current state; -1 once the root is popped.
func (st *Stacks[S, V]) Depth() int { return len(st.states) - 1 }

// State returns the current state. It must not be called at depth -1.
func (st *Stacks[S, V]) State() S { return st.states[len(st.states)-1] }

// Replace swaps the current state for r.
func (st *Stacks[S, V]) Replace(r S) { st.states[len(st.states)-1] = r }

// ReplaceAndPush swaps the current state for r and pushes p above it.
// pos is reported if the push exceeds the depth limit.
func (st *Stacks[S, V]) ReplaceAndPush(pos int, r, p S) error {
	st.states[len(st.states)-1] = r
	if len(st.states) >= st.limits.MaxDepth {
		return depthExceeded(pos)
	}
	st.states = append(st.states, p)
	return nil
}

// Pop drops the current state and returns the new depth.
func (st *Stacks[S, V]) Pop() int {
	st.states = st.states[:len(st.states)-1]
	return len(st.states) - 1
}

// CountValue records one parsed value at pos.
func (st *Stacks[S, V]) CountValue(pos int) error {
	st.count++
	if st.count > st.limits.MaxValues+1 {
		return valuesExceeded(pos)
	}
	return nil
}

// AppendValue counts v and pushes it.
func (st *Stacks[S, V]) AppendValue(pos int, v V) error {
	if err := st.CountValue(pos); err != nil {
		return err
	}
	st.values = append(st.values, v)
	return nil
}

// Push pushes values without counting them.
func (st *Stacks[S, V]) Push(vs ...V) { st.values = append(st.values, vs...) }

// PopValue removes and returns the top value.
func (st *Stacks[S, V]) PopValue() V {
	n := len(st.values) - 1
	v := st.values[n]
	var zero V
	st.values[n] = zero
	st.values = st.values[:n]
	return v
}

// Peek returns the top value.
func (st *Stacks[S, V]) Peek() V { return st.values[len(st.values)-1] }

// Bottom returns the first value pushed.
func (st *Stacks[S, V]) Bottom() V { return st.values[0] }

// Values returns the number of values currently on the stack.
func (st *Stacks[S, V]) Values() int { return len(st.values) }

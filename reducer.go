package userboard

import "fmt"

// Reduce returns the state that results from applying action to state.
//
// Reduce is a pure function: it never modifies state and the returned slice
// never shares a backing array with it.
//
//   - [AddUser]: returns state with the record appended, prior order preserved
//   - [RemoveAllUsers]: returns an empty list
//
// Reduce panics if action is nil or a nil pointer variant.
func Reduce(state []UserRecord, action Action) []UserRecord {
	switch a := action.(type) {
	case AddUser:
		next := make([]UserRecord, len(state), len(state)+1)
		copy(next, state)
		return append(next, a.Record)
	case *AddUser:
		if a == nil {
			break
		}
		return Reduce(state, *a)
	case RemoveAllUsers:
		return []UserRecord{}
	case *RemoveAllUsers:
		if a == nil {
			break
		}
		return []UserRecord{}
	}
	panic(fmt.Sprintf("userboard: cannot reduce action %T", action))
}

// Fold applies actions to seed from left to right and returns the final state.
//
// Fold(seed, a1, a2) is equivalent to Reduce(Reduce(seed, a1), a2).
// seed itself is never modified.
func Fold(seed []UserRecord, actions ...Action) []UserRecord {
	state := copyUsers(seed)
	for _, a := range actions {
		state = Reduce(state, a)
	}
	return state
}

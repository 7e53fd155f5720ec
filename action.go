package userboard

import "fmt"

const (
	// KindAddUser is the kind reported by [AddUser].
	KindAddUser = "add_user"

	// KindRemoveAllUsers is the kind reported by [RemoveAllUsers].
	KindRemoveAllUsers = "remove_all_users"
)

// Action describes an intended state change.
//
// The set of actions is closed: only [AddUser] and [RemoveAllUsers] implement
// Action, which is enforced by an unexported method. [Reduce] is therefore
// total over every value a caller can construct.
type Action interface {
	// Kind returns a stable identifier for the action variant.
	Kind() string

	isAction()
}

// AddUser appends Record to the end of the state.
type AddUser struct {
	Record UserRecord
}

// Kind implements [Action].
func (AddUser) Kind() string { return KindAddUser }

func (AddUser) isAction() {}

// String implements fmt.Stringer.
func (a AddUser) String() string {
	return fmt.Sprintf("%s(%s)", KindAddUser, a.Record)
}

// RemoveAllUsers resets the state to an empty list.
type RemoveAllUsers struct{}

// Kind implements [Action].
func (RemoveAllUsers) Kind() string { return KindRemoveAllUsers }

func (RemoveAllUsers) isAction() {}

// String implements fmt.Stringer.
func (RemoveAllUsers) String() string { return KindRemoveAllUsers }

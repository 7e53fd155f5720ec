package userboard

import "fmt"

// UserRecord is a single entry in the store's state.
//
// UserRecord is a comparable value type; two records are equal when both
// fields are equal.
type UserRecord struct {
	// Username is the display name of the user.
	Username string `json:"username"`

	// Email is the user's email address.
	Email string `json:"email"`
}

// String returns the record formatted as "username <email>".
func (u UserRecord) String() string {
	return fmt.Sprintf("%s <%s>", u.Username, u.Email)
}

// copyUsers returns a copy of users that never aliases the input.
// A nil or empty input yields an empty, non-nil slice so JSON renders "[]".
func copyUsers(users []UserRecord) []UserRecord {
	cp := make([]UserRecord, len(users))
	copy(cp, users)
	return cp
}

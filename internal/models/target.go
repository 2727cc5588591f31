package models

import "regexp"

// nameRE is the format check for member and group names: an
// alphanumeric first character, then alphanumerics, '_', '-', '(' or ')'.
var nameRE = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-()]*$`)

// ValidName reports whether s is acceptable as a member or group name.
func ValidName(s string) bool {
	return nameRE.MatchString(s)
}

// Target is one parsed payer or receiver directive: a member name and
// an optional explicit amount. A nil Amount is a wildcard, meaning the
// member's share is resolved later by equal distribution of whatever
// remains of the expense.
type Target struct {
	Member string `json:"member" yaml:"member"`
	Amount *Money `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// Wildcard reports whether the target carries no explicit amount.
func (t Target) Wildcard() bool {
	return t.Amount == nil
}

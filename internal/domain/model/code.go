package model

import "regexp"

// codePattern accepts alphanumeric values only, anchored on both ends.
var codePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ReferralCode is a distributable token with a capped number of uses.
// The store assigns IDs; UsageCount grows by one each time the code is
// handed out and the row is deleted once the configured cap is reached.
type ReferralCode struct {
	ID         int64
	Value      string
	UsageCount int
}

// ValidCodeValue reports whether value is a well-formed referral code.
func ValidCodeValue(value string) bool {
	return codePattern.MatchString(value)
}

// Offer is a code handed to a specific user, pending confirmation of use.
type Offer struct {
	CodeID int64
	Value  string
	UserID int64
}

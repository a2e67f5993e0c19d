package model

import "time"

// Action enumerates the ledger actions used to derive eligibility.
type Action string

const (
	ActionAdd Action = "add"
	ActionGet Action = "get"
)

// ActivityRecord is one append-only ledger entry. Records are never
// mutated or deleted; a code may disappear from the pool while its add
// record persists, which keeps re-adds of the same value blocked.
type ActivityRecord struct {
	ID           int64
	UserID       int64
	Action       Action
	ReferralCode string
	Timestamp    time.Time
}

package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Referral-code errors
	ErrInvalidCode   = errors.New("referral code is not alphanumeric")
	ErrNotEligible   = errors.New("user already added this referral code")
	ErrRateLimited   = errors.New("user requested a code within the rate-limit window")
	ErrNoCodes       = errors.New("no referral codes available")
	ErrCodeNotFound  = errors.New("referral code not found")
	ErrNotAuthorized = errors.New("user not authorized for this action")

	// Infrastructure errors surfaced through repositories
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)

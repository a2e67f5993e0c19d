package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-referral-bot/internal/domain"
)

// The confirmation protocol keeps no server-side state: everything is
// reconstructed from the callback payload, so the encoded ids are the sole
// carriers of state and anything unparseable is rejected conservatively.

const (
	// OfferPrefix tags the "mark used" button under a delivered code.
	OfferPrefix = "use:"
	// ConfirmPrefix tags the Yes button of the confirmation prompt.
	ConfirmPrefix = "useyes:"
	// CancelPrefix tags the No button of the confirmation prompt.
	CancelPrefix = "useno:"
)

// OfferClaim is the decoded payload of a "mark used" press.
type OfferClaim struct {
	CodeID int64
	UserID int64
}

// AuthorizedFor reports whether the presser is the user the offer was
// addressed to.
func (c OfferClaim) AuthorizedFor(userID int64) bool {
	return c.UserID == userID
}

func OfferPayload(codeID, userID int64) string {
	return fmt.Sprintf("%s%d:%d", OfferPrefix, codeID, userID)
}

func ConfirmPayload(codeID int64) string {
	return fmt.Sprintf("%s%d", ConfirmPrefix, codeID)
}

func CancelPayload(codeID int64) string {
	return fmt.Sprintf("%s%d", CancelPrefix, codeID)
}

// ParseOfferPayload decodes a "mark used" payload. Tampered or truncated
// payloads fail with domain.ErrNotAuthorized.
func ParseOfferPayload(data string) (OfferClaim, error) {
	rest, ok := strings.CutPrefix(data, OfferPrefix)
	if !ok {
		return OfferClaim{}, domain.ErrNotAuthorized
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 2 {
		return OfferClaim{}, domain.ErrNotAuthorized
	}
	codeID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return OfferClaim{}, domain.ErrNotAuthorized
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return OfferClaim{}, domain.ErrNotAuthorized
	}
	return OfferClaim{CodeID: codeID, UserID: userID}, nil
}

// ParseDecisionPayload decodes a Yes/No press, returning the code id and
// whether the user confirmed.
func ParseDecisionPayload(data string) (int64, bool, error) {
	var rest string
	var confirmed bool
	switch {
	case strings.HasPrefix(data, ConfirmPrefix):
		rest, confirmed = strings.TrimPrefix(data, ConfirmPrefix), true
	case strings.HasPrefix(data, CancelPrefix):
		rest, confirmed = strings.TrimPrefix(data, CancelPrefix), false
	default:
		return 0, false, domain.ErrNotAuthorized
	}
	codeID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false, domain.ErrNotAuthorized
	}
	return codeID, confirmed, nil
}

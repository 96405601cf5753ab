// Package actioncode encodes and decodes the scanned attendance codes.
//
// A code carries the intended action, the event it belongs to, and the time
// it was issued: SWD-<ACTION>-<EVENTID>-<ISSUEDAT_UNIX>. Decoding only
// classifies intent; it performs no geofence or state checks, and codes are
// deliberately reusable so one printed code serves every volunteer at an
// event.
package actioncode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Action string

const (
	ActionCheckIn  Action = "CHECKIN"
	ActionCheckOut Action = "CHECKOUT"
)

const codePrefix = "SWD"

var ErrInvalidCode = errors.New("invalid action code")

// Code is the decoded form of a scanned attendance token.
type Code struct {
	Action   Action
	EventID  uint
	IssuedAt time.Time
}

// Encode builds the canonical token string for an event action.
func Encode(action Action, eventID uint, issuedAt time.Time) string {
	return fmt.Sprintf("%s-%s-%d-%d", codePrefix, action, eventID, issuedAt.Unix())
}

// Decode parses a scanned string into a Code. It fails with ErrInvalidCode
// on anything that does not match the canonical format.
func Decode(raw string) (Code, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 4 || parts[0] != codePrefix {
		return Code{}, ErrInvalidCode
	}

	action := Action(parts[1])
	switch action {
	case ActionCheckIn, ActionCheckOut:
	default:
		return Code{}, ErrInvalidCode
	}

	eventID, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || eventID == 0 {
		return Code{}, ErrInvalidCode
	}

	issuedAt, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil || issuedAt <= 0 {
		return Code{}, ErrInvalidCode
	}

	return Code{
		Action:   action,
		EventID:  uint(eventID),
		IssuedAt: time.Unix(issuedAt, 0).UTC(),
	}, nil
}

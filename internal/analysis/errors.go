package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means a week's cohort cannot support the normal model.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMissingPlayerStats means a referenced player has no stat line.
	ErrMissingPlayerStats = errors.New("missing player stats")
	// ErrMalformedSnapshot means the league snapshot violates a structural invariant.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// SnapshotError describes a structural violation in the supplied league data.
type SnapshotError struct {
	TeamID string
	Week   int
	Reason string
}

func (e *SnapshotError) Error() string {
	switch {
	case e.TeamID != "" && e.Week > 0:
		return fmt.Sprintf("malformed snapshot: team %s week %d: %s", e.TeamID, e.Week, e.Reason)
	case e.TeamID != "":
		return fmt.Sprintf("malformed snapshot: team %s: %s", e.TeamID, e.Reason)
	case e.Week > 0:
		return fmt.Sprintf("malformed snapshot: week %d: %s", e.Week, e.Reason)
	default:
		return fmt.Sprintf("malformed snapshot: %s", e.Reason)
	}
}

func (e *SnapshotError) Unwrap() error {
	return ErrMalformedSnapshot
}

func malformed(teamID string, week int, format string, args ...any) error {
	return &SnapshotError{TeamID: teamID, Week: week, Reason: fmt.Sprintf(format, args...)}
}

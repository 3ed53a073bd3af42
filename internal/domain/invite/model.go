package invite

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether no further transition is permitted from s.
// Only pending invites may still move.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// Invite is a squad's offer to a player to join its roster.
type Invite struct {
	ID              string
	SquadID         string
	InvitedPlayerID string
	InvitedByID     string
	Message         string
	Status          Status
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

func (i Invite) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("invite id is required")
	}
	if i.SquadID == "" {
		return fmt.Errorf("squad id is required")
	}
	if i.InvitedPlayerID == "" {
		return fmt.Errorf("invited player id is required")
	}
	if !i.Status.Valid() {
		return fmt.Errorf("invalid invite status %q", i.Status)
	}
	if i.ExpiresAt.IsZero() {
		return fmt.Errorf("invite expiry is required")
	}
	if !i.CreatedAt.IsZero() && !i.ExpiresAt.After(i.CreatedAt) {
		return fmt.Errorf("invite expiry must be after creation")
	}

	return nil
}

package season

import "fmt"

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Season is a bounded competitive period. Seasons are owned by the
// scheduling collaborator; this service only reads them.
type Season struct {
	ID     string
	Number int
	Name   string
	Status Status
}

// Label is the display form used in lock banners, e.g. "Season 5 (Spring Split)".
func (s Season) Label() string {
	if s.Name != "" {
		return fmt.Sprintf("Season %d (%s)", s.Number, s.Name)
	}
	return fmt.Sprintf("Season %d", s.Number)
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Number <= 0 {
		return fmt.Errorf("season number must be positive")
	}
	switch s.Status {
	case StatusUpcoming, StatusActive, StatusCompleted:
	default:
		return fmt.Errorf("invalid season status %q", s.Status)
	}

	return nil
}

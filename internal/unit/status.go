package unit

import "fmt"

// Status describes where a unit is in its lifecycle.
type Status string

const (
	StatusProduction Status = "production"
	StatusBuilt      Status = "built"
	StatusRevision   Status = "revision"
	StatusFinalized  Status = "finalized"
)

// ParseStatus validates a persisted or user supplied status value.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusProduction, StatusBuilt, StatusRevision, StatusFinalized:
		return Status(value), nil
	default:
		return "", fmt.Errorf("unknown unit status %q", value)
	}
}

// Assemblable reports whether an operator may work on a unit in this status.
func (s Status) Assemblable() bool {
	return s == StatusProduction || s == StatusRevision
}

package order

import "fmt"

// Status is a closed set. Admin updates must follow the transition table;
// arbitrary strings are rejected at the boundary.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusDeleted   Status = "deleted"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusDeleted},
	StatusShipped:   {StatusDelivered, StatusDeleted},
	StatusDelivered: {StatusDeleted},
	StatusDeleted:   {},
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusShipped, StatusDelivered, StatusDeleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

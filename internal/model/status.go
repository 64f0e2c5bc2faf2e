package model

import "fmt"

// Status is the lifecycle state of a document request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusOnProcess Status = "on process"
	StatusReady     Status = "ready for pick-up"
	StatusReleased  Status = "released"
	StatusDeclined  Status = "declined"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusOnProcess, StatusReady, StatusReleased, StatusDeclined}

// transitions holds the guarded graph used by the normal transition API.
// Administrative overrides bypass it.
var transitions = map[Status][]Status{
	StatusPending:   {StatusOnProcess, StatusDeclined, StatusReleased},
	StatusOnProcess: {StatusReady, StatusReleased},
	StatusReady:     {StatusReleased},
}

// ParseStatus validates s against the five known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Terminal reports whether no guarded transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusReleased || s == StatusDeclined
}

// CanTransition reports whether the guarded graph allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

package application

import (
	"slices"
	"strings"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusWaitlisted  Status = "waitlisted"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusUnderReview, StatusApproved, StatusRejected, StatusWaitlisted}

var transitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected, StatusWaitlisted},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusWaitlisted},
}

// ParseStatus accepts one of the five known statuses, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Statuses, st) {
		return st, true
	}
	return "", false
}

// Terminal reports whether the guided flow ends at s.
func (s Status) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// CanTransition reports whether from -> to is a guided transition.
// Anything else, including reopening a terminal application, is an override.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// NextStatuses returns the guided targets from s.
func NextStatuses(s Status) []Status {
	return slices.Clone(transitions[s])
}

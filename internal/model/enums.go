// Package model defines the shared domain types for the listing service.
//
// Opportunities are the normalized union of job and internship postings.
// A (Kind, ID) pair is the composite key for any cross-referencing — an id
// collision between a job and an internship is unrelated.
package model

import "fmt"

// Kind discriminates the two posting types carried in one listing.
type Kind string

const (
	KindJob        Kind = "job"
	KindInternship Kind = "internship"
)

// ParseKind converts a raw string to a Kind, returning an error for
// unknown values.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	switch k {
	case KindJob, KindInternship:
		return k, nil
	}
	return "", fmt.Errorf("unknown opportunity kind %q", s)
}

// Label returns the display form used by type filters ("Job" / "Internship").
func (k Kind) Label() string {
	switch k {
	case KindJob:
		return "Job"
	case KindInternship:
		return "Internship"
	}
	return string(k)
}

// Status values mirror the posting status column; only active postings are
// ever fetched for display.
type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusClosed  Status = "closed"
	StatusExpired Status = "expired"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusActive, StatusPaused, StatusClosed, StatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown posting status %q", s)
}

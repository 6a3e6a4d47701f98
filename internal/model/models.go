package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is either a plain-text string (Raw) or a structured address.
// Never both: Raw is set only when the source delivered a bare string.
type Location struct {
	Raw           string `json:"raw,omitempty"`
	City          string `json:"city,omitempty"`
	Area          string `json:"area,omitempty"`
	Pincode       string `json:"pincode,omitempty"`
	StreetAddress string `json:"streetAddress,omitempty"`
}

// Display renders the location for presentation: the raw string as-is, or
// "city, area, pincode" for structured addresses.
func (l Location) Display() string {
	if l.Raw != "" {
		return l.Raw
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.Area, l.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ContainsTerm reports whether term matches this location: a substring of
// the raw string, or of any of city/area/pincode when structured.
// Matching is case-insensitive; an empty term matches everything.
func (l Location) ContainsTerm(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if l.Raw != "" {
		return strings.Contains(strings.ToLower(l.Raw), term)
	}
	for _, p := range []string{l.City, l.Area, l.Pincode} {
		if p != "" && strings.Contains(strings.ToLower(p), term) {
			return true
		}
	}
	return false
}

// CompanyRef is the denormalized company relation attached to a raw record.
// Nil when the relation is absent.
type CompanyRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url"`
}

// RawRecord is the gateway-shape posting before normalization. The
// Requirements field keeps the source's loose union (string array,
// JSON-encoded string, or comma-separated string) — it never leaves the
// aggregation boundary in this form.
type RawRecord struct {
	ID              string
	Title           string
	Description     string
	Company         *CompanyRef
	Location        any    // plain string or JSON-encoded address object
	Category        string // job_type / internship_type
	Amount          int
	MinAmount       int
	MaxAmount       int
	PayRate         string // e.g. "month"
	PostedAt        time.Time
	Requirements    any
	ExperienceLevel string
	Status          Status
	DurationMonths  int // internships only; 0 = not specified
}

// Opportunity is the normalized union of a job and an internship posting.
type Opportunity struct {
	ID              string    `json:"id"`
	Kind            Kind      `json:"kind"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Company         string    `json:"company"`
	CompanyLogoURL  string    `json:"companyLogoUrl"`
	Location        Location  `json:"location"`
	Category        string    `json:"category"`
	Salary          string    `json:"salary"` // display string, see listing.FormatSalary
	PostedAt        time.Time `json:"postedAt"`
	Requirements    []string  `json:"requirements"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	Status          Status    `json:"status"`
	DurationMonths  int       `json:"durationMonths,omitempty"`
}

// FavoriteRelation is a persisted (user, opportunity) saved link.
type FavoriteRelation struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"userId"`
	OpportunityID string    `json:"opportunityId"`
	Kind          Kind      `json:"kind"`
	CreatedAt     time.Time `json:"createdAt"`
}

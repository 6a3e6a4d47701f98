// Package listing contains the listing aggregator and the filter/sort
// engine. It is transport-agnostic: used by the HTTP handlers (api
// package) and the snapshot refresher.
package listing

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentbridge/listing-service/internal/model"
)

// unknownCompany is the display fallback when the company relation is
// absent from a raw record.
const unknownCompany = "Unknown Company"

// salaryNotSpecified is the display fallback when a posting carries no
// numeric compensation at all.
const salaryNotSpecified = "Salary not specified"

// NormalizeRequirements collapses the source's loose requirements union
// into an ordered string slice. Accepted shapes: a string slice, a JSON
// array (possibly JSON-encoded inside a string), or a comma-separated
// string. Anything unparseable degrades to an empty slice, never an error.
func NormalizeRequirements(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return normalizeEntries(v)
	case []any:
		entries := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				entries = append(entries, s)
			}
		}
		return normalizeEntries(entries)
	case string:
		return normalizeRequirementsString(v)
	case json.RawMessage:
		return normalizeRequirementsString(string(v))
	case []byte:
		return normalizeRequirementsString(string(v))
	}
	return []string{}
}

func normalizeRequirementsString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return []string{}
	}

	// A JSON array, either directly or JSON-encoded inside a string
	// ("[\"React\",\"Node\"]" round-trips through a text column as a
	// quoted payload).
	var parsed []string
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return normalizeEntries(parsed)
	}
	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &parsed); err == nil {
			return normalizeEntries(parsed)
		}
		return splitCommaList(inner)
	}

	return splitCommaList(s)
}

func splitCommaList(s string) []string {
	return normalizeEntries(strings.Split(s, ","))
}

func normalizeEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeLocation collapses the source's location union (bare string or
// address object, possibly JSON-encoded) into a model.Location. An
// unparseable value is kept wholesale as the free-text form.
func NormalizeLocation(raw any) model.Location {
	switch v := raw.(type) {
	case nil:
		return model.Location{}
	case model.Location:
		return v
	case string:
		return normalizeLocationString(v)
	case json.RawMessage:
		return normalizeLocationString(string(v))
	case []byte:
		return normalizeLocationString(string(v))
	}
	return model.Location{}
}

func normalizeLocationString(s string) model.Location {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return model.Location{}
	}

	var structured struct {
		City          string `json:"city"`
		Area          string `json:"area"`
		Pincode       string `json:"pincode"`
		StreetAddress string `json:"streetAddress"`
	}
	if err := json.Unmarshal([]byte(s), &structured); err == nil {
		return model.Location{
			City:          structured.City,
			Area:          structured.Area,
			Pincode:       structured.Pincode,
			StreetAddress: structured.StreetAddress,
		}
	}

	var plain string
	if err := json.Unmarshal([]byte(s), &plain); err == nil {
		return model.Location{Raw: plain}
	}
	return model.Location{Raw: s}
}

// FormatSalary renders the compensation display string: a range when min
// and max differ, the single amount otherwise, the pay-rate suffixed when
// present, and a fixed fallback when no numeric amount exists.
func FormatSalary(amount, minAmount, maxAmount int, payRate string) string {
	suffix := ""
	if payRate != "" {
		suffix = " / " + payRate
	}
	switch {
	case minAmount > 0 && maxAmount > 0 && minAmount != maxAmount:
		return fmt.Sprintf("₹%d - ₹%d%s", minAmount, maxAmount, suffix)
	case amount > 0:
		return fmt.Sprintf("₹%d%s", amount, suffix)
	case minAmount > 0:
		return fmt.Sprintf("₹%d%s", minAmount, suffix)
	}
	return salaryNotSpecified
}

// ParseSalaryNumber extracts the first number from a compensation display
// string. Digit groups joined by commas count as one number, so
// "₹15,000 - ₹30,000 / month" parses to 15000. Returns 0 when the string
// carries no digits.
func ParseSalaryNumber(salary string) int {
	n := 0
	started := false
	for _, r := range salary {
		switch {
		case r >= '0' && r <= '9':
			started = true
			n = n*10 + int(r-'0')
		case r == ',' && started:
			// grouping separator inside the number
		default:
			if started {
				return n
			}
		}
	}
	return n
}

// normalize converts one raw gateway record into the canonical
// Opportunity shape. The requirements/location unions end here.
func normalize(r model.RawRecord, kind model.Kind) model.Opportunity {
	company := unknownCompany
	logo := ""
	if r.Company != nil {
		if r.Company.Name != "" {
			company = r.Company.Name
		}
		logo = r.Company.LogoURL
	}

	return model.Opportunity{
		ID:              r.ID,
		Kind:            kind,
		Title:           r.Title,
		Description:     r.Description,
		Company:         company,
		CompanyLogoURL:  logo,
		Location:        NormalizeLocation(r.Location),
		Category:        r.Category,
		Salary:          FormatSalary(r.Amount, r.MinAmount, r.MaxAmount, r.PayRate),
		PostedAt:        r.PostedAt,
		Requirements:    NormalizeRequirements(r.Requirements),
		ExperienceLevel: r.ExperienceLevel,
		Status:          r.Status,
		DurationMonths:  r.DurationMonths,
	}
}

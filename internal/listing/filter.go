package listing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"talentbridge/listing-service/internal/model"
)

// FilterState holds the currently selected filter values. An empty string
// means "no constraint" for that key; active constraints AND-combine.
type FilterState struct {
	Type         string `json:"type"`         // category or kind label, exact match
	Location     string `json:"location"`     // location term, substring match
	Company      string `json:"company"`      // exact match
	Skill        string `json:"skill"`        // membership in requirements
	Experience   string `json:"experience"`   // substring of experience level
	SalaryRange  string `json:"salaryRange"`  // bucket label, see ParseSalaryBucket
	RemoteWork   string `json:"remoteWork"`   // substring of category
	Duration     string `json:"duration"`     // bucket label, internships
	PostedWithin string `json:"postedWithin"` // bucket label, see ParsePostedBucket
	Sort         string `json:"sort"`         // see ParseSortMode
}

// Empty reports whether no key carries a constraint.
func (f FilterState) Empty() bool {
	return f == FilterState{}
}

// ─── Salary buckets ──────────────────────────────────────────────────────────

// SalaryBucket is a named compensation range. Bucket labels come from the
// filter UI; parsing is strict so an unexpected label excludes the record
// instead of silently passing it.
type SalaryBucket int

const (
	SalaryUnder20k SalaryBucket = iota
	Salary20kTo40k
	Salary40kTo60k
	Salary60kPlus
)

// ParseSalaryBucket converts a bucket label to a SalaryBucket, returning
// an error for unknown labels.
func ParseSalaryBucket(s string) (SalaryBucket, error) {
	switch strings.ToLower(s) {
	case "<20k":
		return SalaryUnder20k, nil
	case "20k-40k":
		return Salary20kTo40k, nil
	case "40k-60k":
		return Salary40kTo60k, nil
	case "60k+":
		return Salary60kPlus, nil
	}
	return 0, fmt.Errorf("unknown salary bucket %q", s)
}

// Contains reports whether the parsed salary n falls in the bucket.
// Total over the enum: half-open ranges [20000,40000) and [40000,60000).
func (b SalaryBucket) Contains(n int) bool {
	switch b {
	case SalaryUnder20k:
		return n < 20000
	case Salary20kTo40k:
		return n >= 20000 && n < 40000
	case Salary40kTo60k:
		return n >= 40000 && n < 60000
	case Salary60kPlus:
		return n >= 60000
	}
	return false
}

// ─── Duration buckets ────────────────────────────────────────────────────────

// DurationBucket is a named internship-duration range in months.
type DurationBucket int

const (
	DurationUnder3Months DurationBucket = iota
	Duration3To6Months
	DurationOver6Months
)

// ParseDurationBucket converts a bucket label to a DurationBucket,
// returning an error for unknown labels.
func ParseDurationBucket(s string) (DurationBucket, error) {
	switch strings.ToLower(s) {
	case "<3 months":
		return DurationUnder3Months, nil
	case "3-6 months":
		return Duration3To6Months, nil
	case "6+ months":
		return DurationOver6Months, nil
	}
	return 0, fmt.Errorf("unknown duration bucket %q", s)
}

// Contains reports whether a duration of months falls in the bucket.
// The 3-6 range is inclusive at both ends.
func (b DurationBucket) Contains(months int) bool {
	switch b {
	case DurationUnder3Months:
		return months < 3
	case Duration3To6Months:
		return months >= 3 && months <= 6
	case DurationOver6Months:
		return months > 6
	}
	return false
}

// ─── Posted-date buckets ─────────────────────────────────────────────────────

// PostedBucket is a named recency window. Windows start from "now" at
// evaluation time — never persisted, recomputed every call.
type PostedBucket int

const (
	PostedLastDay PostedBucket = iota
	PostedLast3Days
	PostedLast7Days
	PostedLast30Days
)

// ParsePostedBucket converts a bucket label to a PostedBucket, returning
// an error for unknown labels.
func ParsePostedBucket(s string) (PostedBucket, error) {
	switch strings.ToLower(s) {
	case "last 24 hours":
		return PostedLastDay, nil
	case "last 3 days":
		return PostedLast3Days, nil
	case "last 7 days":
		return PostedLast7Days, nil
	case "last 30 days":
		return PostedLast30Days, nil
	}
	return 0, fmt.Errorf("unknown posted-date bucket %q", s)
}

// window returns the inclusive bucket width.
func (b PostedBucket) window() time.Duration {
	days := map[PostedBucket]int{
		PostedLastDay:    1,
		PostedLast3Days:  3,
		PostedLast7Days:  7,
		PostedLast30Days: 30,
	}[b]
	return time.Duration(days) * 24 * time.Hour
}

// Contains reports whether elapsed time since posting falls in the window.
func (b PostedBucket) Contains(elapsed time.Duration) bool {
	return elapsed >= 0 && elapsed <= b.window()
}

// ─── Sort modes ──────────────────────────────────────────────────────────────

// SortMode selects the output ordering of FilterAndSort.
type SortMode int

const (
	SortRelevance SortMode = iota // stable, keeps incoming order
	SortNewest                    // descending posting date
	SortSalary                    // descending parsed compensation
)

// ParseSortMode is total: empty and unrecognized values fall back to
// relevance ordering, matching the default arm of the original sorters.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(s) {
	case "newest":
		return SortNewest
	case "salary":
		return SortSalary
	}
	return SortRelevance
}

// ─── Engine ──────────────────────────────────────────────────────────────────

// FilterAndSort returns the subset of items matching the filter state and
// the search/location terms, in the order selected by the sort mode. It is
// a pure function over its inputs apart from reading the clock for
// posted-date windows: no hidden state, safe to call repeatedly, and it
// never mutates the input slice.
//
// With an all-empty filter state and empty terms the input collection is
// returned unchanged in order.
func FilterAndSort(items []model.Opportunity, f FilterState, searchTerm, locationTerm string) []model.Opportunity {
	if f.Empty() && searchTerm == "" && locationTerm == "" {
		return items
	}

	now := time.Now()
	out := make([]model.Opportunity, 0, len(items))
	for _, o := range items {
		if matches(o, f, searchTerm, locationTerm, now) {
			out = append(out, o)
		}
	}

	sortOpportunities(out, ParseSortMode(f.Sort))
	return out
}

// matches applies every active constraint; all must hold.
func matches(o model.Opportunity, f FilterState, searchTerm, locationTerm string, now time.Time) bool {
	if f.Type != "" && !matchesType(o, f.Type) {
		return false
	}
	if f.Company != "" && !strings.EqualFold(o.Company, f.Company) {
		return false
	}
	if f.Skill != "" && !matchesSkill(o, f.Skill) {
		return false
	}
	if f.Experience != "" && !containsFold(o.ExperienceLevel, f.Experience) {
		return false
	}
	if f.SalaryRange != "" && !matchesSalary(o, f.SalaryRange) {
		return false
	}
	if f.RemoteWork != "" && !containsFold(o.Category, f.RemoteWork) {
		return false
	}
	if f.Duration != "" && !matchesDuration(o, f.Duration) {
		return false
	}
	if f.PostedWithin != "" && !matchesPosted(o, f.PostedWithin, now) {
		return false
	}
	if f.Location != "" && !o.Location.ContainsTerm(f.Location) {
		return false
	}
	if locationTerm != "" && !o.Location.ContainsTerm(locationTerm) {
		return false
	}
	if searchTerm != "" && !matchesSearch(o, searchTerm) {
		return false
	}
	return true
}

// matchesType accepts an exact category match or the kind label itself, so
// selecting "Internship" as a type also matches by kind.
func matchesType(o model.Opportunity, value string) bool {
	return strings.EqualFold(o.Category, value) || strings.EqualFold(o.Kind.Label(), value)
}

func matchesSkill(o model.Opportunity, skill string) bool {
	for _, req := range o.Requirements {
		if strings.EqualFold(req, skill) {
			return true
		}
	}
	return false
}

// matchesSalary buckets the parsed compensation. A record whose salary
// string has no parseable number fails every bucket — it never silently
// passes.
func matchesSalary(o model.Opportunity, value string) bool {
	bucket, err := ParseSalaryBucket(value)
	if err != nil {
		return false
	}
	n := ParseSalaryNumber(o.Salary)
	if n == 0 {
		return false
	}
	return bucket.Contains(n)
}

// matchesDuration applies the duration bucket to internships. Jobs without
// a duration are outside the rule's scope and pass; an internship without
// a recorded duration cannot be verified and fails.
func matchesDuration(o model.Opportunity, value string) bool {
	bucket, err := ParseDurationBucket(value)
	if err != nil {
		return false
	}
	if o.DurationMonths == 0 {
		return o.Kind == model.KindJob
	}
	return bucket.Contains(o.DurationMonths)
}

func matchesPosted(o model.Opportunity, value string, now time.Time) bool {
	bucket, err := ParsePostedBucket(value)
	if err != nil {
		return false
	}
	return bucket.Contains(now.Sub(o.PostedAt))
}

func matchesSearch(o model.Opportunity, term string) bool {
	return containsFold(o.Title, term) ||
		containsFold(o.Company, term) ||
		containsFold(o.Description, term)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortOpportunities reorders in place. Relevance keeps the incoming order;
// both other modes sort stably so equal keys keep their relative order.
func sortOpportunities(items []model.Opportunity, mode SortMode) {
	switch mode {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PostedAt.After(items[j].PostedAt)
		})
	case SortSalary:
		sort.SliceStable(items, func(i, j int) bool {
			return ParseSalaryNumber(items[i].Salary) > ParseSalaryNumber(items[j].Salary)
		})
	}
}

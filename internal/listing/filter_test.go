package listing_test

import (
	"testing"
	"time"

	"talentbridge/listing-service/internal/listing"
	"talentbridge/listing-service/internal/model"
)

func opp(id string, kind model.Kind, mutate func(*model.Opportunity)) model.Opportunity {
	o := model.Opportunity{
		ID:              id,
		Kind:            kind,
		Title:           "Backend Engineer",
		Description:     "Build services",
		Company:         "Acme",
		Location:        model.Location{City: "Pune", Area: "Kharadi"},
		Category:        "Full-time",
		Salary:          "₹30,000 / month",
		PostedAt:        time.Now().Add(-48 * time.Hour),
		Requirements:    []string{"Go", "SQL"},
		ExperienceLevel: "Mid Level (2-4 years)",
		Status:          model.StatusActive,
	}
	if mutate != nil {
		mutate(&o)
	}
	return o
}

func ids(items []model.Opportunity) []string {
	out := make([]string, 0, len(items))
	for _, o := range items {
		out = append(out, o.ID)
	}
	return out
}

func sameIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ── Identity ───────────────────────────────────────────────────────────────

func TestFilterAndSort_EmptyStateIsIdentity(t *testing.T) {
	items := []model.Opportunity{
		opp("a", model.KindJob, nil),
		opp("b", model.KindInternship, nil),
		opp("c", model.KindJob, nil),
	}

	got := listing.FilterAndSort(items, listing.FilterState{}, "", "")
	if !sameIDs(ids(got), "a", "b", "c") {
		t.Errorf("empty filter state should return input unchanged in order, got %v", ids(got))
	}
}

// ── Conjunctive matching ───────────────────────────────────────────────────

func TestFilterAndSort_TypeAndCompanyConjunction(t *testing.T) {
	items := []model.Opportunity{
		opp("match", model.KindJob, func(o *model.Opportunity) {
			o.Category = "Full-time"
			o.Company = "Acme"
		}),
		opp("wrong-company", model.KindJob, func(o *model.Opportunity) {
			o.Category = "Full-time"
			o.Company = "Globex"
		}),
		opp("wrong-type", model.KindJob, func(o *model.Opportunity) {
			o.Category = "Part-time"
			o.Company = "Acme"
		}),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Type: "full-time", Company: "acme"}, "", "")
	if !sameIDs(ids(got), "match") {
		t.Errorf("type+company must AND-combine, got %v", ids(got))
	}
}

func TestFilterAndSort_TypeAndSkillConjunction(t *testing.T) {
	items := []model.Opportunity{
		opp("match", model.KindJob, func(o *model.Opportunity) {
			o.Requirements = []string{"React", "Node"}
		}),
		opp("wrong-skill", model.KindJob, func(o *model.Opportunity) {
			o.Requirements = []string{"Java"}
		}),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Type: "Full-time", Skill: "react"}, "", "")
	if !sameIDs(ids(got), "match") {
		t.Errorf("type+skill must AND-combine, got %v", ids(got))
	}
}

// ── Type filter matches kind label ─────────────────────────────────────────

func TestFilterAndSort_TypeMatchesKindLabel(t *testing.T) {
	items := []model.Opportunity{
		opp("i1", model.KindInternship, func(o *model.Opportunity) { o.Category = "Summer" }),
		opp("j1", model.KindJob, nil),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Type: "Internship"}, "", "")
	if !sameIDs(ids(got), "i1") {
		t.Errorf("selecting \"Internship\" as a type should match by kind, got %v", ids(got))
	}
}

// ── Skill membership ───────────────────────────────────────────────────────

func TestFilterAndSort_SkillIsExactMembership(t *testing.T) {
	items := []model.Opportunity{
		opp("has", model.KindJob, func(o *model.Opportunity) {
			o.Requirements = []string{"React", "Node", "SQL"}
		}),
		opp("substring-only", model.KindJob, func(o *model.Opportunity) {
			o.Requirements = []string{"React Native"}
		}),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Skill: "react"}, "", "")
	if !sameIDs(ids(got), "has") {
		t.Errorf("skill filter is a membership test, not substring, got %v", ids(got))
	}
}

// ── Salary buckets ─────────────────────────────────────────────────────────

func TestFilterAndSort_SalaryBucketUnder20k(t *testing.T) {
	items := []model.Opportunity{
		opp("low", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹15,000 / month" }),
		opp("high", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹25,000 / month" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{SalaryRange: "<20k"}, "", "")
	if !sameIDs(ids(got), "low") {
		t.Errorf("<20k bucket should retain ₹15,000 and exclude ₹25,000, got %v", ids(got))
	}
}

func TestFilterAndSort_SalaryBucket60kPlus(t *testing.T) {
	items := []model.Opportunity{
		opp("high", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹75,000 / month" }),
		opp("mid", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹50,000 / month" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{SalaryRange: "60k+"}, "", "")
	if !sameIDs(ids(got), "high") {
		t.Errorf("60k+ bucket should retain ₹75,000 and exclude ₹50,000, got %v", ids(got))
	}
}

func TestFilterAndSort_SalaryBucketBoundaries(t *testing.T) {
	items := []model.Opportunity{
		opp("exactly-20k", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹20,000" }),
		opp("exactly-40k", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹40,000" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{SalaryRange: "20k-40k"}, "", "")
	if !sameIDs(ids(got), "exactly-20k") {
		t.Errorf("20k-40k is half-open [20000,40000), got %v", ids(got))
	}
}

func TestFilterAndSort_UnparseableSalaryFailsEveryBucket(t *testing.T) {
	items := []model.Opportunity{
		opp("none", model.KindJob, func(o *model.Opportunity) { o.Salary = "Salary not specified" }),
	}

	for _, bucket := range []string{"<20k", "20k-40k", "40k-60k", "60k+"} {
		got := listing.FilterAndSort(items, listing.FilterState{SalaryRange: bucket}, "", "")
		if len(got) != 0 {
			t.Errorf("unparseable salary should fail bucket %q, got %v", bucket, ids(got))
		}
	}
}

func TestFilterAndSort_UnknownSalaryBucketExcludes(t *testing.T) {
	items := []model.Opportunity{opp("a", model.KindJob, nil)}

	got := listing.FilterAndSort(items, listing.FilterState{SalaryRange: "100k+"}, "", "")
	if len(got) != 0 {
		t.Errorf("an unrecognized bucket value must exclude, not silently pass, got %v", ids(got))
	}
}

// ── Experience / work-mode substrings ──────────────────────────────────────

func TestFilterAndSort_ExperienceSubstring(t *testing.T) {
	items := []model.Opportunity{
		opp("mid", model.KindJob, func(o *model.Opportunity) { o.ExperienceLevel = "Mid Level (2-4 years)" }),
		opp("senior", model.KindJob, func(o *model.Opportunity) { o.ExperienceLevel = "Senior Level" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Experience: "mid level"}, "", "")
	if !sameIDs(ids(got), "mid") {
		t.Errorf("experience filter is a substring match, got %v", ids(got))
	}
}

func TestFilterAndSort_RemoteWorkMatchesCategory(t *testing.T) {
	items := []model.Opportunity{
		opp("remote", model.KindJob, func(o *model.Opportunity) { o.Category = "Full-time Remote" }),
		opp("onsite", model.KindJob, func(o *model.Opportunity) { o.Category = "Full-time" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{RemoteWork: "remote"}, "", "")
	if !sameIDs(ids(got), "remote") {
		t.Errorf("work-mode filter is a substring match on category, got %v", ids(got))
	}
}

// ── Duration buckets ───────────────────────────────────────────────────────

func TestFilterAndSort_DurationBuckets(t *testing.T) {
	items := []model.Opportunity{
		opp("short", model.KindInternship, func(o *model.Opportunity) { o.DurationMonths = 2 }),
		opp("mid", model.KindInternship, func(o *model.Opportunity) { o.DurationMonths = 6 }),
		opp("long", model.KindInternship, func(o *model.Opportunity) { o.DurationMonths = 9 }),
	}

	cases := []struct {
		bucket string
		want   string
	}{
		{"<3 months", "short"},
		{"3-6 months", "mid"},
		{"6+ months", "long"},
	}
	for _, c := range cases {
		got := listing.FilterAndSort(items, listing.FilterState{Duration: c.bucket}, "", "")
		if !sameIDs(ids(got), c.want) {
			t.Errorf("duration bucket %q should retain only %q, got %v", c.bucket, c.want, ids(got))
		}
	}
}

func TestFilterAndSort_DurationIgnoredForJobsWithoutDuration(t *testing.T) {
	items := []model.Opportunity{
		opp("job", model.KindJob, nil), // no duration
		opp("intern-no-duration", model.KindInternship, nil),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Duration: "<3 months"}, "", "")
	if !sameIDs(ids(got), "job") {
		t.Errorf("duration filter ignores jobs without a duration but fails internships without one, got %v", ids(got))
	}
}

// ── Posted-date buckets ────────────────────────────────────────────────────

func TestFilterAndSort_PostedDateBuckets(t *testing.T) {
	items := []model.Opportunity{
		opp("today", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-6 * time.Hour) }),
		opp("last-week", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-5 * 24 * time.Hour) }),
		opp("old", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-60 * 24 * time.Hour) }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{PostedWithin: "Last 24 hours"}, "", "")
	if !sameIDs(ids(got), "today") {
		t.Errorf("Last 24 hours should retain only today's posting, got %v", ids(got))
	}

	got = listing.FilterAndSort(items, listing.FilterState{PostedWithin: "Last 7 days"}, "", "")
	if !sameIDs(ids(got), "today", "last-week") {
		t.Errorf("Last 7 days should retain today + last-week, got %v", ids(got))
	}

	got = listing.FilterAndSort(items, listing.FilterState{PostedWithin: "Last 30 days"}, "", "")
	if !sameIDs(ids(got), "today", "last-week") {
		t.Errorf("Last 30 days should exclude the 60-day-old posting, got %v", ids(got))
	}
}

// ── Free-text search and location terms ────────────────────────────────────

func TestFilterAndSort_SearchTerm(t *testing.T) {
	items := []model.Opportunity{
		opp("by-title", model.KindJob, func(o *model.Opportunity) { o.Title = "Senior Go Developer" }),
		opp("by-company", model.KindJob, func(o *model.Opportunity) { o.Company = "Golang Cafe" }),
		opp("by-description", model.KindJob, func(o *model.Opportunity) { o.Description = "We write Go services" }),
		opp("no-match", model.KindJob, func(o *model.Opportunity) {
			o.Title = "Designer"
			o.Company = "Studio"
			o.Description = "Figma all day"
		}),
	}

	got := listing.FilterAndSort(items, listing.FilterState{}, "go", "")
	if !sameIDs(ids(got), "by-title", "by-company", "by-description") {
		t.Errorf("search term matches title, company, or description, got %v", ids(got))
	}
}

func TestFilterAndSort_LocationTerm(t *testing.T) {
	items := []model.Opportunity{
		opp("pune", model.KindJob, func(o *model.Opportunity) {
			o.Location = model.Location{City: "Pune", Area: "Kharadi"}
		}),
		opp("mumbai", model.KindJob, func(o *model.Opportunity) {
			o.Location = model.Location{City: "Mumbai", Area: "Andheri"}
		}),
	}

	got := listing.FilterAndSort(items, listing.FilterState{}, "", "Kharadi")
	if !sameIDs(ids(got), "pune") {
		t.Errorf("location term should match the structured area, got %v", ids(got))
	}

	got = listing.FilterAndSort(items, listing.FilterState{}, "", "pune")
	if !sameIDs(ids(got), "pune") {
		t.Errorf("location term should match case-insensitively, got %v", ids(got))
	}
}

// ── Sorting ────────────────────────────────────────────────────────────────

func TestFilterAndSort_SortNewest(t *testing.T) {
	t1 := time.Now().Add(-72 * time.Hour)
	t2 := time.Now().Add(-48 * time.Hour)
	t3 := time.Now().Add(-24 * time.Hour)
	items := []model.Opportunity{
		opp("t1", model.KindJob, func(o *model.Opportunity) { o.PostedAt = t1 }),
		opp("t3", model.KindJob, func(o *model.Opportunity) { o.PostedAt = t3 }),
		opp("t2", model.KindJob, func(o *model.Opportunity) { o.PostedAt = t2 }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Sort: "newest"}, "", "")
	if !sameIDs(ids(got), "t3", "t2", "t1") {
		t.Errorf("newest sort should order [T3, T2, T1], got %v", ids(got))
	}
}

func TestFilterAndSort_SortSalary(t *testing.T) {
	items := []model.Opportunity{
		opp("s10", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹10,000" }),
		opp("s50", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹50,000" }),
		opp("s30", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹30,000" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Sort: "salary"}, "", "")
	if !sameIDs(ids(got), "s50", "s30", "s10") {
		t.Errorf("salary sort should order by descending parsed amount, got %v", ids(got))
	}
}

func TestFilterAndSort_SortSalaryUnparseableTreatedAsZero(t *testing.T) {
	items := []model.Opportunity{
		opp("none", model.KindJob, func(o *model.Opportunity) { o.Salary = "Salary not specified" }),
		opp("s20", model.KindJob, func(o *model.Opportunity) { o.Salary = "₹20,000" }),
	}

	got := listing.FilterAndSort(items, listing.FilterState{Sort: "salary"}, "", "")
	if !sameIDs(ids(got), "s20", "none") {
		t.Errorf("unparseable salary sorts as 0, got %v", ids(got))
	}
}

func TestFilterAndSort_DefaultSortKeepsOrder(t *testing.T) {
	items := []model.Opportunity{
		opp("first", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-90 * time.Hour) }),
		opp("second", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-1 * time.Hour) }),
	}

	// Sort key set to an unknown value falls back to relevance ordering.
	got := listing.FilterAndSort(items, listing.FilterState{Sort: "relevance"}, "", "")
	if !sameIDs(ids(got), "first", "second") {
		t.Errorf("relevance sort keeps incoming order, got %v", ids(got))
	}
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	items := []model.Opportunity{
		opp("b", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-90 * time.Hour) }),
		opp("a", model.KindJob, func(o *model.Opportunity) { o.PostedAt = time.Now().Add(-1 * time.Hour) }),
	}

	listing.FilterAndSort(items, listing.FilterState{Sort: "newest"}, "", "")
	if !sameIDs(ids(items), "b", "a") {
		t.Errorf("FilterAndSort must not reorder its input slice, got %v", ids(items))
	}
}

package models

import (
	"time"

	id "missionsuivi/pkg/domain"
)

// GroupResult is the aggregate of one (city, branch) pair.
type GroupResult struct {
	CityID     id.CityID
	CityName   string
	BranchID   id.BranchID
	BranchName string

	// RubricMeans is keyed by rubric numero. A nil entry means the rubric
	// has no live notes in this group.
	RubricMeans map[int]*float64

	// Overall is the mean over every note of the group, not the mean of
	// the rubric means. Nil when the group has no notes.
	Overall      *float64
	Appreciation string
	NoteCount    int
}

// MeanFor returns the rubric mean, or nil.
func (g GroupResult) MeanFor(numero int) *float64 {
	return g.RubricMeans[numero]
}

// CoverageState tells the caller which message a coverage answer carries.
type CoverageState string

const (
	CoverageIncompleteFilter CoverageState = "incomplete_filter"
	CoverageNoInspectors     CoverageState = "no_inspectors"
	CoverageNoneSubmitted    CoverageState = "none_submitted"
	CoverageReported         CoverageState = "reported"
)

// InspectorCoverage summarizes the deduplicated submissions of one inspector.
type InspectorCoverage struct {
	Inspector           Inspector
	SubmissionCount     int
	CategoriesEvaluated int
	LastEvaluationDate  *time.Time
	LastSubmission      *time.Time
}

// Coverage partitions a city's roster into inspectors who submitted for the
// selected tuple and those who did not.
type Coverage struct {
	Total        int
	Submitted    []InspectorCoverage
	NotSubmitted []Inspector
	State        CoverageState
}

// StatRow is one line of the dashboard statistics.
type StatRow struct {
	ID          int64
	Label       string
	Mean        *float64
	Submissions int
}

// DashboardStats holds means by city, branch and category over live rows.
type DashboardStats struct {
	ByCity     []StatRow
	ByBranch   []StatRow
	ByCategory []StatRow
}

// SubmissionCheck answers whether a tuple already has a live submission.
type SubmissionCheck struct {
	Exists         bool
	EvaluationDate time.Time
	CreatedAt      time.Time
	InspectorName  string
	RubricCount    int
}

// DetailLine is one rubric note of a submission, joined with its rubric.
type DetailLine struct {
	Rubric         Rubric
	Note           int
	Comment        string
	EvaluationDate time.Time
	CreatedAt      time.Time
}

// SubmissionDetail is the full view of one tuple for administrators.
type SubmissionDetail struct {
	Found          bool
	InspectorName  string
	CityName       string
	BranchName     string
	CategoryLabel  string
	PeriodLabel    string
	EvaluationDate time.Time
	SubmittedAt    time.Time
	Lines          []DetailLine
}

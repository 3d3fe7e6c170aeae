// Package models holds the evaluation domain entities, the typed filter used
// by every read path, and the aggregate result shapes.
package models

import (
	"time"

	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
)

type City struct {
	ID   id.CityID
	Name string
}

// Branch is a bank establishment visited during a mission. Names are unique
// within a city.
type Branch struct {
	ID     id.BranchID
	Name   string
	CityID id.CityID
}

type Inspector struct {
	ID        id.InspectorID
	LastName  string
	FirstName string
	CityID    id.CityID
}

// FullName renders "NOM Prénom" the way reports and coverage lists show it.
func (i Inspector) FullName() string {
	return i.LastName + " " + i.FirstName
}

// Period is a city-scoped label for a date range. It binds to a Mission by
// exact range equality.
type Period struct {
	ID        id.PeriodID
	Label     string
	StartDate time.Time
	EndDate   time.Time
	CityID    id.CityID
}

// Mission is the global aggregation key for evaluations.
type Mission struct {
	ID        id.MissionID
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// NewMission enforces end >= start.
func NewMission(name string, start, end time.Time) (Mission, error) {
	if name == "" {
		return Mission{}, dErrors.New(dErrors.CodeValidation, "mission name is required")
	}
	if end.Before(start) {
		return Mission{}, dErrors.New(dErrors.CodeValidation, "mission end date must not precede start date")
	}
	return Mission{Name: name, StartDate: start, EndDate: end}, nil
}

// SameRange reports exact date equality, ignoring time of day.
func SameRange(aStart, aEnd, bStart, bEnd time.Time) bool {
	return sameDay(aStart, bStart) && sameDay(aEnd, bEnd)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Category (volet) is fixed reference data.
type Category struct {
	ID           id.CategoryID
	Code         id.CategoryCode
	Label        string
	DisplayOrder int
}

// Rubric is one scored criterion. Numero (1..12) is unique within its
// category and orders every listing.
type Rubric struct {
	ID               id.RubricID
	CategoryID       id.CategoryID
	Numero           int
	Label            string
	Component        string
	Criteria         string
	VerificationMode string
}

// ScaleItem maps a rounded note to its qualitative label (bareme).
type ScaleItem struct {
	Note        int
	Label       string
	Description string
}

// Record is one stored rubric note. CityName and BranchName are filled by
// read paths that join the reference tables.
type Record struct {
	ID             id.RecordID
	MissionID      id.MissionID
	CityID         id.CityID
	BranchID       id.BranchID
	InspectorID    id.InspectorID
	CategoryID     id.CategoryID
	RubricID       id.RubricID
	Note           int
	Comment        string
	EvaluationDate time.Time
	CreatedAt      time.Time
	DeletedAt      *time.Time

	CityName   string
	BranchName string
}

// SubmissionKey identifies one logical submission: every rubric note an
// inspector entered for one branch and category during one mission.
type SubmissionKey struct {
	MissionID   id.MissionID
	CityID      id.CityID
	BranchID    id.BranchID
	InspectorID id.InspectorID
	CategoryID  id.CategoryID
}

func (r Record) SubmissionKey() SubmissionKey {
	return SubmissionKey{
		MissionID:   r.MissionID,
		CityID:      r.CityID,
		BranchID:    r.BranchID,
		InspectorID: r.InspectorID,
		CategoryID:  r.CategoryID,
	}
}

func (r Record) IsDeleted() bool {
	return r.DeletedAt != nil
}

package models

import (
	"strings"

	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
)

// RubricNote is one scored rubric inside a submission.
type RubricNote struct {
	RubricID int64   `json:"rubriqueId" validate:"required,gt=0"`
	Note     int     `json:"note" validate:"required,min=1,max=5"`
	Comment  *string `json:"commentaire" validate:"omitempty,max=2000"`
}

// SubmissionRequest is the body of POST /evaluations. Either MissionID or
// PeriodID identifies the mission.
type SubmissionRequest struct {
	MissionID   *int64       `json:"missionId" validate:"omitempty,gt=0"`
	PeriodID    *int64       `json:"periodeId" validate:"omitempty,gt=0"`
	CityID      int64        `json:"villeId" validate:"required,gt=0"`
	BranchID    int64        `json:"etablissementVisiteId" validate:"required,gt=0"`
	InspectorID int64        `json:"controleurId" validate:"required,gt=0"`
	CategoryID  int64        `json:"voletId" validate:"required,gt=0"`
	Replace     bool         `json:"replace"`
	Rubrics     []RubricNote `json:"rubriques" validate:"required,min=1,dive"`
}

func (r *SubmissionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	if (r.MissionID == nil) == (r.PeriodID == nil) {
		return dErrors.New(dErrors.CodeValidation, "exactly one of missionId or periodeId is required")
	}
	seen := make(map[int64]struct{}, len(r.Rubrics))
	for _, n := range r.Rubrics {
		if _, dup := seen[n.RubricID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate rubriqueId in submission")
		}
		seen[n.RubricID] = struct{}{}
	}
	return nil
}

// Submission is the validated, typed form of a SubmissionRequest.
type Submission struct {
	MissionID   *id.MissionID
	PeriodID    *id.PeriodID
	CityID      id.CityID
	BranchID    id.BranchID
	InspectorID id.InspectorID
	CategoryID  id.CategoryID
	Replace     bool
	Notes       []RubricNote
}

func (r *SubmissionRequest) ToSubmission() Submission {
	s := Submission{
		CityID:      id.CityID(r.CityID),
		BranchID:    id.BranchID(r.BranchID),
		InspectorID: id.InspectorID(r.InspectorID),
		CategoryID:  id.CategoryID(r.CategoryID),
		Replace:     r.Replace,
		Notes:       make([]RubricNote, 0, len(r.Rubrics)),
	}
	if r.MissionID != nil {
		m := id.MissionID(*r.MissionID)
		s.MissionID = &m
	}
	if r.PeriodID != nil {
		p := id.PeriodID(*r.PeriodID)
		s.PeriodID = &p
	}
	for _, n := range r.Rubrics {
		if n.Comment != nil {
			trimmed := strings.TrimSpace(*n.Comment)
			if trimmed == "" {
				n.Comment = nil
			} else {
				n.Comment = &trimmed
			}
		}
		s.Notes = append(s.Notes, n)
	}
	return s
}

// Key returns the submission tuple once the mission is known.
func (s Submission) Key(mission id.MissionID) SubmissionKey {
	return SubmissionKey{
		MissionID:   mission,
		CityID:      s.CityID,
		BranchID:    s.BranchID,
		InspectorID: s.InspectorID,
		CategoryID:  s.CategoryID,
	}
}

// ReferenceEntity names a reference list that supports soft delete.
type ReferenceEntity string

const (
	EntityCity      ReferenceEntity = "villes"
	EntityBranch    ReferenceEntity = "etablissements"
	EntityInspector ReferenceEntity = "controleurs"
	EntityPeriod    ReferenceEntity = "periodes"
	EntityMission   ReferenceEntity = "missions"
)

var entityTables = map[ReferenceEntity]string{
	EntityCity:      "ville",
	EntityBranch:    "etablissement_visite",
	EntityInspector: "controleur",
	EntityPeriod:    "periode",
	EntityMission:   "mission",
}

// ParseReferenceEntity maps a route segment to a reference entity.
func ParseReferenceEntity(s string) (ReferenceEntity, error) {
	e := ReferenceEntity(s)
	if _, ok := entityTables[e]; !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "unknown reference list: "+s)
	}
	return e, nil
}

// Table returns the SQL table backing the entity.
func (e ReferenceEntity) Table() string {
	return entityTables[e]
}

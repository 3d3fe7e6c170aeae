package models

import (
	"errors"
	"fmt"

	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Filter selects evaluation records. Nil fields are unconstrained.
// PeriodID is resolved to MissionID by the binder before a store sees it.
type Filter struct {
	MissionID   *id.MissionID   `validate:"omitempty,gt=0"`
	PeriodID    *id.PeriodID    `validate:"omitempty,gt=0"`
	CityID      *id.CityID      `validate:"omitempty,gt=0"`
	BranchID    *id.BranchID    `validate:"omitempty,gt=0"`
	InspectorID *id.InspectorID `validate:"omitempty,gt=0"`
	CategoryID  *id.CategoryID  `validate:"omitempty,gt=0"`

	// IncludeDeleted returns soft-deleted rows too (restoration views).
	IncludeDeleted bool
}

// Validate checks id ranges and that mission and period are not both set.
func (f Filter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return validationError(err)
	}
	if f.MissionID != nil && f.PeriodID != nil {
		return dErrors.New(dErrors.CodeValidation, "missionId and periodeId are mutually exclusive")
	}
	return nil
}

// IsEmpty reports whether no dimension is constrained.
func (f Filter) IsEmpty() bool {
	return f.MissionID == nil && f.PeriodID == nil && f.CityID == nil &&
		f.BranchID == nil && f.InspectorID == nil && f.CategoryID == nil
}

// SubmissionFilter is the exact five-dimension tuple used by coverage,
// submission check, detail and targeted delete.
type SubmissionFilter struct {
	CityID      id.CityID      `validate:"required,gt=0"`
	BranchID    id.BranchID    `validate:"required,gt=0"`
	InspectorID id.InspectorID `validate:"required,gt=0"`
	PeriodID    id.PeriodID    `validate:"required,gt=0"`
	CategoryID  id.CategoryID  `validate:"required,gt=0"`
}

func (f SubmissionFilter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return validationError(err)
	}
	return nil
}

// ToFilter narrows a Filter to the tuple once the period has been bound.
func (f SubmissionFilter) ToFilter(mission id.MissionID) Filter {
	return Filter{
		MissionID:   &mission,
		CityID:      &f.CityID,
		BranchID:    &f.BranchID,
		InspectorID: &f.InspectorID,
		CategoryID:  &f.CategoryID,
	}
}

// CoverageFilter is the (city, branch, period, category) tuple. Any missing
// dimension makes the coverage answer empty.
type CoverageFilter struct {
	CityID     *id.CityID
	BranchID   *id.BranchID
	PeriodID   *id.PeriodID
	CategoryID *id.CategoryID
}

func (f CoverageFilter) Complete() bool {
	return f.CityID != nil && f.BranchID != nil && f.PeriodID != nil && f.CategoryID != nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, "invalid filter")
}

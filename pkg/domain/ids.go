// Package domain holds typed identifiers and small value types shared across
// the evaluation packages. Identifiers are database serials; the distinct types
// keep a city id from being passed where a branch id is expected.
package domain

import (
	"strconv"
	"strings"

	dErrors "missionsuivi/pkg/domain-errors"
)

type (
	CityID      int64
	BranchID    int64
	InspectorID int64
	PeriodID    int64
	MissionID   int64
	CategoryID  int64
	RubricID    int64
	RecordID    int64
)

func (id CityID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id BranchID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id InspectorID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id PeriodID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id MissionID) String() string   { return strconv.FormatInt(int64(id), 10) }
func (id CategoryID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id RubricID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id RecordID) String() string    { return strconv.FormatInt(int64(id), 10) }

// parseSerial accepts a positive base-10 integer. Zero and negatives are rejected
// because serial columns start at 1.
func parseSerial(s, field string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "invalid "+field)
	}
	return n, nil
}

func ParseCityID(s string) (CityID, error) {
	n, err := parseSerial(s, "ville_id")
	return CityID(n), err
}

func ParseBranchID(s string) (BranchID, error) {
	n, err := parseSerial(s, "etablissement_id")
	return BranchID(n), err
}

func ParseInspectorID(s string) (InspectorID, error) {
	n, err := parseSerial(s, "controleur_id")
	return InspectorID(n), err
}

func ParsePeriodID(s string) (PeriodID, error) {
	n, err := parseSerial(s, "periode_id")
	return PeriodID(n), err
}

func ParseMissionID(s string) (MissionID, error) {
	n, err := parseSerial(s, "mission_id")
	return MissionID(n), err
}

func ParseCategoryID(s string) (CategoryID, error) {
	n, err := parseSerial(s, "volet_id")
	return CategoryID(n), err
}

func ParseRubricID(s string) (RubricID, error) {
	n, err := parseSerial(s, "rubrique_id")
	return RubricID(n), err
}

// ParseRecordID parses an evaluation record id.
func ParseRecordID(s string) (RecordID, error) {
	n, err := parseSerial(s, "id")
	return RecordID(n), err
}

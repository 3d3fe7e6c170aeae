package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/service"
	id "missionsuivi/pkg/domain"
	dErrors "missionsuivi/pkg/domain-errors"
)

// optionalID reads the first non-empty query parameter among keys. "all"
// means unconstrained, as the filter forms send it.
func optionalID[T any](r *http.Request, parse func(string) (T, error), keys ...string) (*T, error) {
	q := r.URL.Query()
	for _, key := range keys {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" || strings.EqualFold(raw, "all") {
			continue
		}
		v, err := parse(raw)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil, nil
}

func requiredID[T any](r *http.Request, parse func(string) (T, error), key string) (T, error) {
	return parse(r.URL.Query().Get(key))
}

// reportFilter parses the shared report, dashboard and delete filter.
func reportFilter(r *http.Request) (models.Filter, error) {
	var (
		f   models.Filter
		err error
	)
	if f.MissionID, err = optionalID(r, id.ParseMissionID, "missionId"); err != nil {
		return f, err
	}
	if f.PeriodID, err = optionalID(r, id.ParsePeriodID, "periodeId", "periodId"); err != nil {
		return f, err
	}
	if f.CityID, err = optionalID(r, id.ParseCityID, "villeId"); err != nil {
		return f, err
	}
	if f.BranchID, err = optionalID(r, id.ParseBranchID, "etablissementId", "etablissementVisiteId"); err != nil {
		return f, err
	}
	if f.InspectorID, err = optionalID(r, id.ParseInspectorID, "controleurId"); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalID(r, id.ParseCategoryID, "voletId"); err != nil {
		return f, err
	}
	return f, f.Validate()
}

func coverageFilter(r *http.Request) (models.CoverageFilter, error) {
	var (
		f   models.CoverageFilter
		err error
	)
	if f.CityID, err = optionalID(r, id.ParseCityID, "villeId"); err != nil {
		return f, err
	}
	if f.BranchID, err = optionalID(r, id.ParseBranchID, "etablissementId", "etablissementVisiteId"); err != nil {
		return f, err
	}
	if f.PeriodID, err = optionalID(r, id.ParsePeriodID, "periodeId", "periodId"); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalID(r, id.ParseCategoryID, "voletId"); err != nil {
		return f, err
	}
	return f, nil
}

func submissionFilter(r *http.Request) (models.SubmissionFilter, error) {
	var (
		t   models.SubmissionFilter
		err error
	)
	if t.CityID, err = requiredID(r, id.ParseCityID, "villeId"); err != nil {
		return t, err
	}
	if t.BranchID, err = requiredID(r, id.ParseBranchID, "etablissementId"); err != nil {
		return t, err
	}
	if t.InspectorID, err = requiredID(r, id.ParseInspectorID, "controleurId"); err != nil {
		return t, err
	}
	if t.PeriodID, err = requiredID(r, id.ParsePeriodID, "periodeId"); err != nil {
		return t, err
	}
	if t.CategoryID, err = requiredID(r, id.ParseCategoryID, "voletId"); err != nil {
		return t, err
	}
	return t, nil
}

func boolParam(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.New(dErrors.CodeValidation, "invalid "+key)
	}
	return v, nil
}

func pathID(r *http.Request, key string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "invalid "+key)
	}
	return n, nil
}

// restoreRequest is the body of POST /admin/evaluations/restore.
// deleteAll is accepted as an alias of restoreAll.
type restoreRequest struct {
	ID         *int64  `json:"id"`
	IDs        []int64 `json:"ids"`
	RestoreAll bool    `json:"restoreAll"`
	DeleteAll  bool    `json:"deleteAll"`
}

func (req *restoreRequest) Validate() error {
	if req.ID != nil && *req.ID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "invalid id")
	}
	for _, v := range req.IDs {
		if v <= 0 {
			return dErrors.New(dErrors.CodeValidation, "invalid ids")
		}
	}
	if req.ID == nil && len(req.IDs) == 0 && !req.RestoreAll && !req.DeleteAll {
		return dErrors.New(dErrors.CodeValidation, "id, ids or restoreAll is required")
	}
	return nil
}

func (req *restoreRequest) target() service.RestoreTarget {
	var t service.RestoreTarget
	if req.ID != nil {
		rid := id.RecordID(*req.ID)
		t.ID = &rid
	}
	for _, v := range req.IDs {
		t.IDs = append(t.IDs, id.RecordID(v))
	}
	t.All = req.RestoreAll || req.DeleteAll
	return t
}

type referenceRestoreRequest struct {
	ID int64 `json:"id"`
}

func (req *referenceRestoreRequest) Validate() error {
	if req.ID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "id is required")
	}
	return nil
}

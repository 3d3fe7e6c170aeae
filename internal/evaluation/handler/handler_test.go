package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"missionsuivi/internal/evaluation/binder"
	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/refcache"
	"missionsuivi/internal/evaluation/report"
	"missionsuivi/internal/evaluation/service"
	"missionsuivi/internal/evaluation/softdelete"
	"missionsuivi/internal/evaluation/store"
	"missionsuivi/internal/platform/middleware"
	id "missionsuivi/pkg/domain"
	"missionsuivi/pkg/testutil"
)

type tokenValidator map[string]string

func (v tokenValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	role, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &middleware.JWTClaims{Subject: token + "-user", Role: role}, nil
}

type HandlerSuite struct {
	suite.Suite
	store  *store.InMemoryStore
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	guard := softdelete.ForSchemaVersion(3)
	s.store = store.NewInMemoryStore(guard)
	s.store.SeedCategories()
	s.store.PutCity(models.City{ID: 1, Name: "Marrakech"})
	s.store.PutBranch(models.Branch{ID: 10, Name: "Agence Gueliz", CityID: 1})
	s.store.PutInspector(models.Inspector{ID: 5, LastName: "Amrani", FirstName: "Nadia", CityID: 1})
	s.store.PutInspector(models.Inspector{ID: 6, LastName: "Berrada", FirstName: "Karim", CityID: 1})
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	s.store.PutMission(models.Mission{ID: 3, Name: "T2 2024", StartDate: start, EndDate: end})
	s.store.PutPeriod(models.Period{ID: 8, Label: "T2", StartDate: start, EndDate: end, CityID: 1})
	s.store.PutRubric(models.Rubric{ID: 1, CategoryID: 1, Numero: 1, Label: "Caisse", Component: "1- Tenue de caisse"})
	s.store.PutRubric(models.Rubric{ID: 2, CategoryID: 1, Numero: 2, Label: "Coffre", Component: "2- Coffre"})
	_, err := s.store.UpsertScale(context.Background(), []models.ScaleItem{{Note: 4, Label: "Bien"}})
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(service.Deps{
		Records:  s.store,
		Refs:     s.store,
		Cache:    refcache.New(nil, s.store),
		Binder:   binder.New(s.store),
		Tx:       s.store,
		Guard:    guard,
		Renderer: report.NewRenderer(),
	}, service.WithLogger(logger))

	s.router = chi.NewRouter()
	s.router.Use(middleware.RequestID)
	New(svc, logger, tokenValidator{
		"admin-token": middleware.RoleAdmin,
		"sup-token":   middleware.RoleSupervisor,
		"insp-token":  "controleur",
	}).Register(s.router)
}

func (s *HandlerSuite) do(method, target, token string, body any) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, target, token, body))
}

func (s *HandlerSuite) decode(rr *httptest.ResponseRecorder, v any) {
	testutil.Decode(s.T(), rr, v)
}

func (s *HandlerSuite) submit(inspector int64, notes ...int) {
	var rubrics []map[string]any
	for i, n := range notes {
		rubrics = append(rubrics, map[string]any{"rubriqueId": i + 1, "note": n})
	}
	rr := s.do(http.MethodPost, "/evaluations", "insp-token", map[string]any{
		"periodeId":             8,
		"villeId":               1,
		"etablissementVisiteId": 10,
		"controleurId":          inspector,
		"voletId":               1,
		"rubriques":             rubrics,
	})
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
}

func (s *HandlerSuite) TestAuth() {
	s.Run("missing token", func() {
		rr := s.do(http.MethodGet, "/dashboard/stats", "", nil)
		s.Equal(http.StatusUnauthorized, rr.Code)
	})
	s.Run("inspector cannot export", func() {
		rr := s.do(http.MethodGet, "/admin/reports/export?voletId=1", "insp-token", nil)
		s.Equal(http.StatusForbidden, rr.Code)
	})
	s.Run("supervisor cannot delete", func() {
		rr := s.do(http.MethodDelete, "/admin/evaluations?deleteAll=true", "sup-token", nil)
		s.Equal(http.StatusForbidden, rr.Code)
	})
}

func (s *HandlerSuite) TestSubmitValidation() {
	rr := s.do(http.MethodPost, "/evaluations", "insp-token", map[string]any{
		"missionId": 3, "villeId": 1, "etablissementVisiteId": 10, "controleurId": 5, "voletId": 1,
		"rubriques": []map[string]any{{"rubriqueId": 1, "note": 6}},
	})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *HandlerSuite) TestExport() {
	s.submit(5, 4, 4)

	rr := s.do(http.MethodGet, "/admin/reports/export?periodeId=8&voletId=1", "sup-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal(report.ContentType, rr.Header().Get("Content-Type"))
	s.Contains(rr.Header().Get("Content-Disposition"), "evaluations_")

	wb, err := excelize.OpenReader(rr.Body)
	s.Require().NoError(err)
	defer wb.Close()
	s.Equal([]string{"Moy_FI_MARR_Agence Gueliz"}, wb.GetSheetList())

	s.Run("unknown category", func() {
		rr := s.do(http.MethodGet, "/admin/reports/export?voletId=42", "admin-token", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
	s.Run("malformed id", func() {
		rr := s.do(http.MethodGet, "/admin/reports/export?voletId=abc", "admin-token", nil)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestCoverage() {
	s.submit(5, 3)

	rr := s.do(http.MethodGet, "/admin/inspectors/stats?villeId=1&etablissementId=10&periodeId=8&voletId=1", "admin-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var body coverageResponse
	s.decode(rr, &body)
	s.Equal(2, body.Total)
	s.Equal(1, body.Submitted.Count)
	s.Equal("Amrani Nadia", body.Submitted.Inspectors[0].FullName)
	s.Require().NotNil(body.Submitted.Inspectors[0].LastEvaluation)
	s.Equal(1, body.Missing.Count)
	s.Equal("Berrada", body.Missing.Inspectors[0].LastName)

	rr = s.do(http.MethodGet, "/admin/inspectors/stats?villeId=1", "admin-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &body)
	s.Equal(string(models.CoverageIncompleteFilter), body.State)
	s.Zero(body.Total)
}

func (s *HandlerSuite) TestDeleteAndRestore() {
	s.submit(5, 4, 2)

	rr := s.do(http.MethodDelete, "/admin/evaluations", "admin-token", nil)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodDelete, "/admin/evaluations?villeId=1&periodeId=8", "admin-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var del deleteResponse
	s.decode(rr, &del)
	s.Equal(int64(2), del.Deleted)
	s.Equal("2 évaluation(s) supprimée(s)", del.Message)

	rr = s.do(http.MethodPost, "/admin/evaluations/restore", "admin-token", map[string]any{"id": 1})
	s.Require().Equal(http.StatusOK, rr.Code)
	var res restoreResponse
	s.decode(rr, &res)
	s.Equal(int64(1), res.Restored)

	rr = s.do(http.MethodPost, "/admin/evaluations/restore", "admin-token", map[string]any{"id": 1})
	s.Equal(http.StatusNotFound, rr.Code)
	s.Contains(rr.Body.String(), "non supprimée")

	rr = s.do(http.MethodPost, "/admin/evaluations/restore", "admin-token", map[string]any{"restoreAll": true})
	s.Require().Equal(http.StatusOK, rr.Code)
	s.decode(rr, &res)
	s.Equal(int64(1), res.Restored)

	rr = s.do(http.MethodPost, "/admin/evaluations/restore", "admin-token", map[string]any{})
	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *HandlerSuite) TestCheckAndDetail() {
	query := "?villeId=1&etablissementId=10&controleurId=5&periodeId=8&voletId=1"

	rr := s.do(http.MethodGet, "/evaluations/check"+query, "insp-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"exists":false,"evaluation":null}`, rr.Body.String())

	s.submit(5, 4, 3)

	rr = s.do(http.MethodGet, "/evaluations/check"+query, "insp-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var check checkResponse
	s.decode(rr, &check)
	s.True(check.Exists)
	s.Equal(2, check.Evaluation.RubricCount)
	s.Equal("Amrani Nadia", check.Evaluation.InspectorName)

	rr = s.do(http.MethodGet, "/admin/evaluations"+query, "admin-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var detail detailResponse
	s.decode(rr, &detail)
	s.Require().NotNil(detail.Evaluation)
	s.Equal("T2", detail.Evaluation.PeriodLabel)
	s.Require().Len(detail.Rubrics, 2)
	s.Equal(4, detail.Rubrics[0].Note)

	rr = s.do(http.MethodGet, "/evaluations/check?villeId=1", "insp-token", nil)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, strings.Replace("/evaluations/check"+query, "periodeId=8", "periodeId=99", 1), "insp-token", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *HandlerSuite) TestDashboard() {
	s.submit(5, 4, 5)
	rr := s.do(http.MethodGet, "/dashboard/stats?missionId=3", "sup-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var body dashboardResponse
	s.decode(rr, &body)
	s.Require().Len(body.ByCity, 1)
	s.InDelta(4.5, *body.ByCity[0].Mean, 1e-9)
	s.Equal("Agence Gueliz - Marrakech", body.ByBranch[0].Label)
}

func (s *HandlerSuite) TestReferenceDeleteAndRestore() {
	rr := s.do(http.MethodDelete, "/admin/controleurs/6", "admin-token", nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	roster, err := s.store.Roster(context.Background(), id.CityID(1))
	s.Require().NoError(err)
	s.Len(roster, 1)

	rr = s.do(http.MethodPost, "/admin/controleurs/restore", "admin-token", map[string]any{"id": 6})
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodPost, "/admin/controleurs/restore", "admin-token", map[string]any{"id": 6})
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodDelete, "/admin/bareme/1", "admin-token", nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

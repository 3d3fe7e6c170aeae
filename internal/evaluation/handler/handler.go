// Package handler exposes the evaluation engine over HTTP.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"missionsuivi/internal/evaluation/models"
	"missionsuivi/internal/evaluation/report"
	"missionsuivi/internal/evaluation/service"
	"missionsuivi/internal/platform/middleware"
	dErrors "missionsuivi/pkg/domain-errors"
	"missionsuivi/pkg/platform/httputil"
	"missionsuivi/pkg/requestcontext"
)

// Service is the evaluation engine as the HTTP layer uses it.
type Service interface {
	GenerateReport(ctx context.Context, f models.Filter) (*service.Report, error)
	GetCoverageStats(ctx context.Context, f models.CoverageFilter) (models.Coverage, error)
	DeleteEvaluations(ctx context.Context, f models.Filter, all bool) (int64, error)
	RestoreEvaluations(ctx context.Context, t service.RestoreTarget) (int64, error)
	Submit(ctx context.Context, sub models.Submission) error
	CheckSubmission(ctx context.Context, t models.SubmissionFilter) (models.SubmissionCheck, error)
	SubmissionDetail(ctx context.Context, t models.SubmissionFilter) (models.SubmissionDetail, error)
	DashboardStats(ctx context.Context, f models.Filter) (models.DashboardStats, error)
	DeleteReference(ctx context.Context, entity models.ReferenceEntity, rowID int64) error
	RestoreReference(ctx context.Context, entity models.ReferenceEntity, rowID int64) error
}

type Handler struct {
	svc          Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(svc Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{svc: svc, logger: logger, jwtValidator: jwtValidator}
}

// Register mounts the evaluation routes. Every route requires a bearer
// token; mutations and detail views need the admin role, reports and
// statistics accept supervisors too.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		r.Post("/evaluations", h.handleSubmit)
		r.Get("/evaluations/check", h.handleCheck)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(h.logger, middleware.RoleAdmin, middleware.RoleSupervisor))
			r.Get("/admin/reports/export", h.handleExport)
			r.Get("/admin/inspectors/stats", h.handleCoverage)
			r.Get("/dashboard/stats", h.handleDashboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(h.logger, middleware.RoleAdmin))
			r.Get("/admin/evaluations", h.handleDetail)
			r.Delete("/admin/evaluations", h.handleDelete)
			r.Post("/admin/evaluations/restore", h.handleRestore)
			r.Delete("/admin/{entity}/{id}", h.handleDeleteReference)
			r.Post("/admin/{entity}/restore", h.handleRestoreReference)
		})
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := reportFilter(r)
	if err != nil {
		h.fail(ctx, w, "invalid report filter", err)
		return
	}

	rep, err := h.svc.GenerateReport(ctx, f)
	if err != nil {
		h.fail(ctx, w, "failed to generate report", err)
		return
	}
	defer func() {
		if err := rep.Workbook.Close(); err != nil {
			h.logger.WarnContext(ctx, "failed to close workbook", "error", err)
		}
	}()

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(requestcontext.Now(ctx))))
	w.WriteHeader(http.StatusOK)
	if _, err := rep.Workbook.WriteTo(w); err != nil {
		h.logger.ErrorContext(ctx, "failed to stream workbook",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (h *Handler) handleCoverage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := coverageFilter(r)
	if err != nil {
		h.fail(ctx, w, "invalid coverage filter", err)
		return
	}
	cov, err := h.svc.GetCoverageStats(ctx, f)
	if err != nil {
		h.fail(ctx, w, "failed to compute coverage", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCoverageResponse(cov))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := reportFilter(r)
	if err != nil {
		h.fail(ctx, w, "invalid dashboard filter", err)
		return
	}
	stats, err := h.svc.DashboardStats(ctx, f)
	if err != nil {
		h.fail(ctx, w, "failed to compute dashboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDashboardResponse(stats))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := reportFilter(r)
	if err != nil {
		h.fail(ctx, w, "invalid delete filter", err)
		return
	}
	all, err := boolParam(r, "deleteAll")
	if err != nil {
		h.fail(ctx, w, "invalid delete filter", err)
		return
	}
	n, err := h.svc.DeleteEvaluations(ctx, f, all)
	if err != nil {
		h.fail(ctx, w, "failed to delete evaluations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Deleted: n,
		Message: fmt.Sprintf("%d évaluation(s) supprimée(s)", n),
	})
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[restoreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	n, err := h.svc.RestoreEvaluations(ctx, req.target())
	if err != nil {
		h.fail(ctx, w, "failed to restore evaluations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, restoreResponse{
		Success:  true,
		Restored: n,
		Message:  fmt.Sprintf("%d évaluation(s) restaurée(s)", n),
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.SubmissionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.svc.Submit(ctx, req.ToSubmission()); err != nil {
		h.fail(ctx, w, "failed to submit evaluation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, successResponse{Success: true})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := submissionFilter(r)
	if err != nil {
		h.fail(ctx, w, "invalid submission filter", err)
		return
	}
	check, err := h.svc.CheckSubmission(ctx, t)
	if err != nil {
		h.fail(ctx, w, "failed to check submission", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCheckResponse(check))
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := submissionFilter(r)
	if err != nil {
		h.fail(ctx, w, "invalid submission filter", err)
		return
	}
	detail, err := h.svc.SubmissionDetail(ctx, t)
	if err != nil {
		h.fail(ctx, w, "failed to load submission", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDetailResponse(detail))
}

func (h *Handler) handleDeleteReference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entity, err := models.ParseReferenceEntity(chi.URLParam(r, "entity"))
	if err != nil {
		h.fail(ctx, w, "unknown reference list", err)
		return
	}
	rowID, err := pathID(r, "id")
	if err != nil {
		h.fail(ctx, w, "invalid reference id", err)
		return
	}
	if err := h.svc.DeleteReference(ctx, entity, rowID); err != nil {
		h.fail(ctx, w, "failed to delete reference", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) handleRestoreReference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entity, err := models.ParseReferenceEntity(chi.URLParam(r, "entity"))
	if err != nil {
		h.fail(ctx, w, "unknown reference list", err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[referenceRestoreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.svc.RestoreReference(ctx, entity, req.ID); err != nil {
		h.fail(ctx, w, "failed to restore reference", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

// fail logs at warn for client errors and error for the rest, then writes
// the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", requestcontext.ActorID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

package handler

import (
	"time"

	"github.com/samber/lo"

	"missionsuivi/internal/evaluation/models"
)

const dateLayout = "2006-01-02"

type successResponse struct {
	Success bool `json:"success"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

type restoreResponse struct {
	Success  bool   `json:"success"`
	Restored int64  `json:"restored"`
	Message  string `json:"message"`
}

type inspectorDTO struct {
	ID       int64  `json:"id"`
	LastName string `json:"nom"`
	First    string `json:"prenom"`
	FullName string `json:"nom_complet"`
}

type submittedInspectorDTO struct {
	inspectorDTO
	CategoriesEvaluated int     `json:"volets_evalues"`
	Submissions         int     `json:"nombre_soumissions"`
	LastEvaluation      *string `json:"derniere_evaluation"`
	LastSubmission      *string `json:"derniere_soumission"`
}

type submittedGroup struct {
	Count      int                     `json:"nombre"`
	Inspectors []submittedInspectorDTO `json:"controleurs"`
}

type missingGroup struct {
	Count      int            `json:"nombre"`
	Inspectors []inspectorDTO `json:"controleurs"`
}

type coverageResponse struct {
	Total     int            `json:"total"`
	State     string         `json:"etat"`
	Message   string         `json:"message,omitempty"`
	Submitted submittedGroup `json:"avec_evaluations"`
	Missing   missingGroup   `json:"sans_evaluations"`
}

var coverageMessages = map[models.CoverageState]string{
	models.CoverageIncompleteFilter: "Sélectionnez une ville, un établissement, une période et un volet",
	models.CoverageNoInspectors:     "Aucun contrôleur dans cette ville",
	models.CoverageNoneSubmitted:    "Aucun contrôleur n'a encore soumis d'évaluation",
}

func toInspectorDTO(i models.Inspector) inspectorDTO {
	return inspectorDTO{ID: int64(i.ID), LastName: i.LastName, First: i.FirstName, FullName: i.FullName()}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.Format(dateLayout))
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UTC().Format(time.RFC3339))
}

func toCoverageResponse(c models.Coverage) coverageResponse {
	return coverageResponse{
		Total:   c.Total,
		State:   string(c.State),
		Message: coverageMessages[c.State],
		Submitted: submittedGroup{
			Count: len(c.Submitted),
			Inspectors: lo.Map(c.Submitted, func(ic models.InspectorCoverage, _ int) submittedInspectorDTO {
				return submittedInspectorDTO{
					inspectorDTO:        toInspectorDTO(ic.Inspector),
					CategoriesEvaluated: ic.CategoriesEvaluated,
					Submissions:         ic.SubmissionCount,
					LastEvaluation:      formatDate(ic.LastEvaluationDate),
					LastSubmission:      formatTimestamp(ic.LastSubmission),
				}
			}),
		},
		Missing: missingGroup{
			Count:      len(c.NotSubmitted),
			Inspectors: lo.Map(c.NotSubmitted, func(i models.Inspector, _ int) inspectorDTO { return toInspectorDTO(i) }),
		},
	}
}

type checkEvaluationDTO struct {
	EvaluationDate string `json:"date_evaluation"`
	CreatedAt      string `json:"created_at"`
	InspectorName  string `json:"controleur_nom"`
	RubricCount    int    `json:"nombre_rubriques"`
}

type checkResponse struct {
	Exists     bool                `json:"exists"`
	Evaluation *checkEvaluationDTO `json:"evaluation"`
}

func toCheckResponse(c models.SubmissionCheck) checkResponse {
	if !c.Exists {
		return checkResponse{}
	}
	return checkResponse{
		Exists: true,
		Evaluation: &checkEvaluationDTO{
			EvaluationDate: c.EvaluationDate.Format(dateLayout),
			CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
			InspectorName:  c.InspectorName,
			RubricCount:    c.RubricCount,
		},
	}
}

type detailHeaderDTO struct {
	InspectorName  string `json:"controleur_nom"`
	CityName       string `json:"ville_nom"`
	BranchName     string `json:"etablissement_nom"`
	CategoryLabel  string `json:"volet_nom"`
	PeriodLabel    string `json:"periode_libelle"`
	EvaluationDate string `json:"date_evaluation"`
	SubmittedAt    string `json:"created_at"`
}

type detailLineDTO struct {
	RubricID         int64  `json:"rubrique_id"`
	Numero           int    `json:"numero"`
	Label            string `json:"libelle"`
	Component        string `json:"composante"`
	Criteria         string `json:"criteres"`
	VerificationMode string `json:"mode_verification"`
	Note             int    `json:"note"`
	Comment          string `json:"commentaire"`
}

type detailResponse struct {
	Evaluation *detailHeaderDTO `json:"evaluation"`
	Rubrics    []detailLineDTO  `json:"rubriques"`
}

func toDetailResponse(d models.SubmissionDetail) detailResponse {
	resp := detailResponse{Rubrics: []detailLineDTO{}}
	if !d.Found {
		return resp
	}
	resp.Evaluation = &detailHeaderDTO{
		InspectorName:  d.InspectorName,
		CityName:       d.CityName,
		BranchName:     d.BranchName,
		CategoryLabel:  d.CategoryLabel,
		PeriodLabel:    d.PeriodLabel,
		EvaluationDate: d.EvaluationDate.Format(dateLayout),
		SubmittedAt:    d.SubmittedAt.UTC().Format(time.RFC3339),
	}
	resp.Rubrics = lo.Map(d.Lines, func(l models.DetailLine, _ int) detailLineDTO {
		return detailLineDTO{
			RubricID:         int64(l.Rubric.ID),
			Numero:           l.Rubric.Numero,
			Label:            l.Rubric.Label,
			Component:        l.Rubric.Component,
			Criteria:         l.Rubric.Criteria,
			VerificationMode: l.Rubric.VerificationMode,
			Note:             l.Note,
			Comment:          l.Comment,
		}
	})
	return resp
}

type statRowDTO struct {
	ID          int64    `json:"id"`
	Label       string   `json:"libelle"`
	Mean        *float64 `json:"moyenne"`
	Submissions int      `json:"nombre_evaluations"`
}

type dashboardResponse struct {
	ByCity     []statRowDTO `json:"par_ville"`
	ByBranch   []statRowDTO `json:"par_etablissement"`
	ByCategory []statRowDTO `json:"par_volet"`
}

func toStatRows(rows []models.StatRow) []statRowDTO {
	return lo.Map(rows, func(r models.StatRow, _ int) statRowDTO {
		return statRowDTO{ID: r.ID, Label: r.Label, Mean: r.Mean, Submissions: r.Submissions}
	})
}

func toDashboardResponse(s models.DashboardStats) dashboardResponse {
	return dashboardResponse{
		ByCity:     toStatRows(s.ByCity),
		ByBranch:   toStatRows(s.ByBranch),
		ByCategory: toStatRows(s.ByCategory),
	}
}

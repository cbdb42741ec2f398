package handlers

import (
	"net/http"

	"github.com/campuspulse/campuspulse/internal/app"
	"github.com/campuspulse/campuspulse/internal/models"
)

type AnalyticsHandler struct {
	service *app.Service
}

func NewAnalyticsHandler(service *app.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

func filterFromQuery(r *http.Request) models.AnalyticsFilter {
	q := r.URL.Query()
	return models.AnalyticsFilter{
		AcademicYearID: q.Get("academic_year_id"),
		DepartmentID:   q.Get("department_id"),
		SubjectID:      q.Get("subject_id"),
		SemesterID:     q.Get("semester_id"),
		DivisionID:     q.Get("division_id"),
		FacultyID:      q.Get("faculty_id"),
		LectureType:    q.Get("lecture_type"),
		Batch:          q.Get("batch"),
	}
}

func (h *AnalyticsHandler) HandleOverallRating(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.service.Analytics.OverallSemesterRating(
		q.Get("semester_id"),
		q.Get("division_id"),
		q.Get("batch"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, summary)
}

func (h *AnalyticsHandler) HandleSubjectRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.Analytics.SubjectWiseRating(r.URL.Query().Get("semester_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"subjects": ratings})
}

func (h *AnalyticsHandler) HandleHighImpactAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.Analytics.HighImpactAreas(filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"areas": areas})
}

func (h *AnalyticsHandler) HandleSemesterTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	points, err := h.service.Analytics.SemesterTrend(q.Get("subject_id"), q.Get("academic_year_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"trend": points})
}

func (h *AnalyticsHandler) HandleAnnualTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Analytics.AnnualTrend()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"trend": points})
}

func (h *AnalyticsHandler) HandleDivisionBatchComparison(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.Analytics.DivisionBatchComparison(filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"divisions": ratings})
}

func (h *AnalyticsHandler) HandleLectureLabComparison(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.Analytics.LectureLabComparison(filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"lecture_types": ratings})
}

func (h *AnalyticsHandler) HandleFacultyMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.Analytics.FacultyYearMatrix(
		r.PathValue("faculty_id"),
		r.URL.Query().Get("academic_year_id"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, matrix)
}

func (h *AnalyticsHandler) HandleAllFacultyMatrix(w http.ResponseWriter, r *http.Request) {
	matrices, err := h.service.Analytics.AllFacultyYearMatrix(r.URL.Query().Get("academic_year_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"faculty": matrices})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuspulse/campuspulse/internal/app"
	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/metrics"
)

type FeedbackHandler struct {
	service *app.Service
}

func NewFeedbackHandler(service *app.Service) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
	}
}

// writeError maps the domain error taxonomy onto transport codes. Only the
// domain message crosses the boundary; infrastructure details stay in logs.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch feedback.KindOf(err) {
	case feedback.KindNotFound:
		status = http.StatusNotFound
	case feedback.KindGone:
		status = http.StatusGone
	case feedback.KindForbidden:
		status = http.StatusForbidden
	case feedback.KindConflict:
		status = http.StatusConflict
	case feedback.KindInvalidInput:
		status = http.StatusBadRequest
	}

	message := "internal error"
	var fe *feedback.Error
	if errors.As(err, &fe) && status != http.StatusInternalServerError {
		message = fe.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error.Printf("Internal failure: %v", err)
	}
	http.Error(w, message, status)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func observe(r *http.Request, start time.Time, status int) {
	// The registered pattern keeps label cardinality bounded; tokens and ids
	// never become label values.
	path := r.Pattern
	if path == "" {
		path = r.URL.Path
	}
	metrics.APIRequestDuration.WithLabelValues(
		path,
		r.Method,
		strconv.Itoa(status),
	).Observe(time.Since(start).Seconds())
}

// statusRecorder captures the status a handler writes so the duration
// histogram carries the real outcome, not an assumed 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with request-duration observation labeled by
// path, method and written status.
func Instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		observe(r, start, rec.status)
	}
}

type submitRequest struct {
	Answers map[string]any `json:"answers"`
}

func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		http.Error(w, "Missing access token", http.StatusBadRequest)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Answers) == 0 {
		http.Error(w, "No answers supplied", http.StatusBadRequest)
		return
	}

	responses, err := h.service.Submissions.SubmitResponses(token, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"responses": responses,
	})
}

func (h *FeedbackHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		http.Error(w, "Missing access token", http.StatusBadRequest)
		return
	}

	submitted, err := h.service.Submissions.CheckSubmissionStatus(token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"is_submitted": submitted,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/metrics"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", feedback.E(feedback.KindNotFound, "missing"), http.StatusNotFound},
		{"gone", feedback.E(feedback.KindGone, "removed"), http.StatusGone},
		{"forbidden", feedback.E(feedback.KindForbidden, "closed"), http.StatusForbidden},
		{"conflict", feedback.E(feedback.KindConflict, "already submitted"), http.StatusConflict},
		{"invalid input", feedback.E(feedback.KindInvalidInput, "bad filter"), http.StatusBadRequest},
		{"inconsistency stays internal", feedback.E(feedback.KindInconsistency, "broken access"), http.StatusInternalServerError},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tc.err)
			assert.Equal(t, tc.expected, rr.Code)
		})
	}

	t.Run("internal details never cross the boundary", func(t *testing.T) {
		rr := httptest.NewRecorder()
		writeError(rr, errors.New("pq: password authentication failed"))
		assert.Equal(t, "internal error\n", rr.Body.String())
	})
}

func TestInstrumentRecordsWrittenStatus(t *testing.T) {
	serve := func(path string, status int) {
		handler := Instrument(func(w http.ResponseWriter, r *http.Request) {
			if status == http.StatusOK {
				w.Write([]byte("ok"))
				return
			}
			http.Error(w, "nope", status)
		})
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, status, rr.Code)
	}

	base := testutil.CollectAndCount(metrics.APIRequestDuration)

	// First failure creates a child labeled with the written status.
	serve("/instrumented", http.StatusNotFound)
	assert.Equal(t, base+1, testutil.CollectAndCount(metrics.APIRequestDuration))

	// Same path and status reuses that child.
	serve("/instrumented", http.StatusNotFound)
	assert.Equal(t, base+1, testutil.CollectAndCount(metrics.APIRequestDuration))

	// A success on the same path lands in a separate child, so error
	// responses are never counted as 200s.
	serve("/instrumented", http.StatusOK)
	assert.Equal(t, base+2, testutil.CollectAndCount(metrics.APIRequestDuration))
}

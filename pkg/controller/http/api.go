package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/usecase"
	"github.com/secmon-lab/qaboard/pkg/utils/errutil"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.From(r.Context()).Warn("failed to write response", "error", err)
	}
}

func decodeJSON(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errors.Join(usecase.ErrInvalidInput, err), "malformed JSON body")
	}
	return nil
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func kpiSeriesHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, err := uc.KPI.GetSeries(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusOK, series)
	}
}

func kpiTargetsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targets, err := uc.KPI.GetTargets(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusOK, targets)
	}
}

func metricDefinitionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, uc.KPI.MetricDefinitions())
	}
}

func risksHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := uc.Risk.ListRisks(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusOK, risks)
	}
}

// feedbackHandler returns every stored evaluation in submission order
func feedbackHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := uc.Feedback.ListFeedback(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusOK, list)
	}
}

func predefinedRisksHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := uc.Risk.ListPredefined(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusOK, catalog)
	}
}

func submitRiskHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var risk model.Risk
		if err := decodeJSON(r, w, &risk); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		// created_at is assigned by the server
		risk.CreatedAt = time.Time{}

		created, err := uc.Risk.SubmitRisk(r.Context(), &risk)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusCreated, created)
	}
}

func submitFeedbackHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Status string           `json:"status"`
		ID     model.FeedbackID `json:"id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var feedback model.Feedback
		if err := decodeJSON(r, w, &feedback); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		created, err := uc.Feedback.SubmitFeedback(r.Context(), &feedback)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		writeJSON(w, r, http.StatusCreated, response{Status: "saved", ID: created.ID})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/draftea/saga-tracker/tracker-service/application"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SagaHandlers contains the saga query HTTP handlers
type SagaHandlers struct {
	getSaga       *application.GetSaga
	getSagaSteps  *application.GetSagaSteps
	searchSagas   *application.SearchSagas
	getStatistics *application.GetSagaStatistics
	logger        *slog.Logger
}

// NewSagaHandlers creates new saga handlers
func NewSagaHandlers(
	getSaga *application.GetSaga,
	getSagaSteps *application.GetSagaSteps,
	searchSagas *application.SearchSagas,
	getStatistics *application.GetSagaStatistics,
	logger *slog.Logger,
) *SagaHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SagaHandlers{
		getSaga:       getSaga,
		getSagaSteps:  getSagaSteps,
		searchSagas:   searchSagas,
		getStatistics: getStatistics,
		logger:        logger,
	}
}

// GetSaga handles saga retrieval requests
func (h *SagaHandlers) GetSaga(w http.ResponseWriter, r *http.Request) {
	query := &application.GetSagaQuery{SagaID: chi.URLParam(r, "sagaId")}

	response, err := h.getSaga.Execute(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// GetSagaSteps handles step history requests
func (h *SagaHandlers) GetSagaSteps(w http.ResponseWriter, r *http.Request) {
	query := &application.GetSagaStepsQuery{SagaID: chi.URLParam(r, "sagaId")}

	response, err := h.getSagaSteps.Execute(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// SearchSagas handles filtered, paginated searches
func (h *SagaHandlers) SearchSagas(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := &application.SearchSagasQuery{
		OrderID:  params.Get("orderId"),
		SagaType: params.Get("sagaType"),
		Status:   params.Get("status"),
	}

	var err error
	if query.FromDate, err = parseTimeParam(params.Get("fromDate")); err != nil {
		h.writeError(w, r, badRequest("fromDate", err))
		return
	}
	if query.ToDate, err = parseTimeParam(params.Get("toDate")); err != nil {
		h.writeError(w, r, badRequest("toDate", err))
		return
	}
	if query.Page, err = parseIntParam(params.Get("page"), 0); err != nil {
		h.writeError(w, r, badRequest("page", err))
		return
	}
	if query.Size, err = parseIntParam(params.Get("size"), domain.DefaultPageSize); err != nil {
		h.writeError(w, r, badRequest("size", err))
		return
	}

	response, err := h.searchSagas.Execute(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// GetStatistics handles statistics requests
func (h *SagaHandlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := &application.GetSagaStatisticsQuery{SagaType: params.Get("sagaType")}

	var err error
	if query.FromDate, err = parseTimeParam(params.Get("fromDate")); err != nil {
		h.writeError(w, r, badRequest("fromDate", err))
		return
	}
	if query.ToDate, err = parseTimeParam(params.Get("toDate")); err != nil {
		h.writeError(w, r, badRequest("toDate", err))
		return
	}

	response, err := h.getStatistics.Execute(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// RegisterRoutes registers saga routes
func (h *SagaHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/health", Health)

	r.Route("/api/v1/sagas", func(r chi.Router) {
		r.Get("/", h.SearchSagas)
		r.Get("/statistics", h.GetStatistics)
		r.Route("/{sagaId}", func(r chi.Router) {
			r.Get("/", h.GetSaga)
			r.Get("/steps", h.GetSagaSteps)
		})
	})
}

func (h *SagaHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSagaNotFound):
		writeJSON(w, http.StatusNotFound, newErrorResponse("NOT_FOUND", err.Error()))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, newErrorResponse("BAD_REQUEST", err.Error()))
	default:
		h.logger.ErrorContext(r.Context(), "saga query failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError,
			newErrorResponse("INTERNAL_ERROR", "An unexpected error occurred"))
	}
}

func newErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": " + e.err.Error()
}

func (e *paramError) Unwrap() []error {
	return []error{domain.ErrValidation, e.err}
}

func badRequest(name string, err error) error {
	return &paramError{name: name, err: err}
}

// parseTimeParam accepts RFC 3339 timestamps and plain dates
func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("expected an ISO-8601 date or date-time")
}

func parseIntParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

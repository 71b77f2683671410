package browse

import (
	"net/http"
	"strconv"
	"time"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"
	"journalapi/internal/record"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc *Service
	log *zap.Logger
}

func NewHTTPHandler(svc *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log}
}

type clickRequest struct {
	Date          *entity.Date `json:"date" validate:"required"`
	ClientX       float64      `json:"client_x"`
	ClientY       float64      `json:"client_y"`
	ContainerLeft float64      `json:"container_left"`
	ContainerTop  float64      `json:"container_top"`
}

func keyFrom(w http.ResponseWriter, r *http.Request) (record.Key, bool) {
	d, err := entity.ParseDomain(r.PathValue("domain"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "UNKNOWN_DOMAIN", "Unknown domain", nil)
		return record.Key{}, false
	}
	return record.NewKey(httpx.SessionIDFrom(r), d), true
}

// monthFrom reads ?year=&month=, defaulting each to the current month.
func (h *HTTPHandler) monthFrom(r *http.Request) (MonthRef, []httpx.ErrorDetail) {
	today := h.svc.Today()
	m := MonthRef{Year: today.Year, Month: today.Month}
	var details []httpx.ErrorDetail

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			details = append(details, httpx.ErrorDetail{Field: "year", Message: "year must be between 1 and 9999"})
		} else {
			m.Year = y
		}
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			details = append(details, httpx.ErrorDetail{Field: "month", Message: "month must be between 1 and 12"})
		} else {
			m.Month = time.Month(n)
		}
	}
	return m, details
}

// Calendar handles GET /v1/{domain}/calendar
// @Summary Month grid of saved reviews
// @Tags browse
// @Produce json
// @Param year query int false "Year, defaults to the current one"
// @Param month query int false "Month 1-12, defaults to the current one"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/{domain}/calendar [get]
func (h *HTTPHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFrom(w, r)
	if !ok {
		return
	}
	m, details := h.monthFrom(r)
	if details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid month", details)
		return
	}
	cal, err := h.svc.Calendar(r.Context(), key, m)
	if err != nil {
		h.log.Error("build calendar", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, cal, nil)
}

// Click handles POST /v1/{domain}/calendar/click
// @Summary Resolve a click on a calendar day
// @Description No reviews does nothing, one navigates, several open an overlay.
// @Tags browse
// @Accept json
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/{domain}/calendar/click [post]
func (h *HTTPHandler) Click(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFrom(w, r)
	if !ok {
		return
	}
	var req clickRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil || req.Date.IsZero() {
		if details == nil {
			details = []httpx.ErrorDetail{{Field: "date", Message: "date is required"}}
		}
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	out, err := h.svc.ClickDay(r.Context(), key, *req.Date,
		Point{X: req.ClientX, Y: req.ClientY},
		Point{X: req.ContainerLeft, Y: req.ContainerTop})
	if err != nil {
		h.log.Error("calendar click", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, out, nil)
}

// Stats handles GET /v1/stats
// @Summary Counts, monthly buckets and film/book ratio
// @Tags browse
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context(), httpx.SessionIDFrom(r))
	if err != nil {
		h.log.Error("build stats", zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, st, nil)
}

package selection

import (
	"errors"
	"net/http"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"
)

// Handoff receives a completed selection as the composer's navigation payload.
type Handoff interface {
	Begin(sessionID string, sel entity.Selection)
}

type HTTPHandler struct {
	flows   *Manager
	handoff Handoff
}

func NewHTTPHandler(flows *Manager, handoff Handoff) *HTTPHandler {
	return &HTTPHandler{flows: flows, handoff: handoff}
}

type queryRequest struct {
	Query string `json:"query"`
}

type pickRequest struct {
	ExternalID string `json:"external_id" validate:"notblank"`
}

type dateRequest struct {
	Date *entity.Date `json:"date"`
}

type proceedResponse struct {
	Selection entity.Selection `json:"selection"`
	Next      string           `json:"next"`
}

func (h *HTTPHandler) flow(w http.ResponseWriter, r *http.Request) (*Flow, bool) {
	d, err := entity.ParseDomain(r.PathValue("domain"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "UNKNOWN_DOMAIN", "Unknown domain", nil)
		return nil, false
	}
	return h.flows.Flow(httpx.SessionIDFrom(r), d), true
}

func writeTransition(w http.ResponseWriter, r *http.Request, snap Snapshot, err error) {
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, snap, nil)
	case errors.Is(err, ErrUnknownItem):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "UNKNOWN_ITEM", err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition):
		httpx.JSONError(w, r, http.StatusConflict, "INVALID_TRANSITION", err.Error(), nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Open handles POST /v1/{domain}/selection
// @Summary Open the selection dialog
// @Tags selection
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/{domain}/selection [post]
func (h *HTTPHandler) Open(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, f.Open(), nil)
}

// Get handles GET /v1/{domain}/selection
// @Summary Current selection dialog state
// @Tags selection
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/{domain}/selection [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, f.Snapshot(), nil)
}

// SetQuery handles PUT /v1/{domain}/selection/query
// @Summary Update the search text (debounced)
// @Tags selection
// @Accept json
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/{domain}/selection/query [put]
func (h *HTTPHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	var req queryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	snap, err := f.SetQuery(req.Query)
	writeTransition(w, r, snap, err)
}

// Pick handles POST /v1/{domain}/selection/pick
// @Summary Choose one search result
// @Tags selection
// @Accept json
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/{domain}/selection/pick [post]
func (h *HTTPHandler) Pick(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	var req pickRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return
	}
	snap, err := f.Pick(req.ExternalID)
	writeTransition(w, r, snap, err)
}

// PickDate handles POST /v1/{domain}/selection/date
// @Summary Choose the consumption date; null leaves the dialog unchanged
// @Tags selection
// @Accept json
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/{domain}/selection/date [post]
func (h *HTTPHandler) PickDate(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	var req dateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid date, expected YYYY-MM-DD", nil)
		return
	}
	snap, err := f.PickDate(req.Date)
	writeTransition(w, r, snap, err)
}

// Back handles POST /v1/{domain}/selection/back
// @Summary Step back one stage
// @Tags selection
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/{domain}/selection/back [post]
func (h *HTTPHandler) Back(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	snap, err := f.Back()
	writeTransition(w, r, snap, err)
}

// Close handles DELETE /v1/{domain}/selection
// @Summary Close the dialog, discarding everything
// @Tags selection
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/{domain}/selection [delete]
func (h *HTTPHandler) Close(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, f.Close(), nil)
}

// Proceed handles POST /v1/{domain}/selection/proceed
// @Summary Hand the confirmed selection to the composer
// @Tags selection
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/{domain}/selection/proceed [post]
func (h *HTTPHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flow(w, r)
	if !ok {
		return
	}
	sel, err := f.Proceed()
	if err != nil {
		writeTransition(w, r, f.Snapshot(), err)
		return
	}
	h.handoff.Begin(httpx.SessionIDFrom(r), sel)
	httpx.JSONSuccess(w, r, proceedResponse{
		Selection: sel,
		Next:      "/v1/" + string(sel.Domain) + "/compose",
	}, nil)
}

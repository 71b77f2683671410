package composer

import (
	"errors"
	"net/http"
	"strconv"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	svc *Service
	log *zap.Logger
}

func NewHTTPHandler(svc *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log}
}

type refineRequest struct {
	Body string `json:"body"`
}

type submitRequest struct {
	Title string `json:"title" validate:"notblank"`
	Body  string `json:"body" validate:"notblank"`
}

type textResponse struct {
	Text string `json:"text"`
}

type submitResponse struct {
	Record  entity.Record `json:"record"`
	Message string        `json:"message"`
	Next    string        `json:"next"`
}

func domainFrom(w http.ResponseWriter, r *http.Request) (entity.Domain, bool) {
	d, err := entity.ParseDomain(r.PathValue("domain"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "UNKNOWN_DOMAIN", "Unknown domain", nil)
		return "", false
	}
	return d, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, d entity.Domain, err error) {
	switch {
	case errors.Is(err, ErrInvalidAccess):
		httpx.JSONRedirect(w, r, "/", "INVALID_ACCESS", msgInvalidAccess)
	case errors.Is(err, ErrIncomplete):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msgIncomplete, nil)
	case errors.Is(err, ErrEmptyBody):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "EMPTY_BODY", msgEmptyBody, nil)
	case errors.Is(err, ErrNothingStaged):
		httpx.JSONError(w, r, http.StatusConflict, "NOTHING_STAGED", "No rewrite is waiting for confirmation", nil)
	case errors.Is(err, ErrUnavailable):
		httpx.JSONError(w, r, http.StatusBadGateway, "GENERATION_FAILED", msgRefineFailed, nil)
	default:
		h.log.Error("composer", zap.String("domain", string(d)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Get handles GET /v1/{domain}/compose
// @Summary Current draft for the composer
// @Tags compose
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 303 {object} httpx.ErrorResponse
// @Router /v1/{domain}/compose [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	draft, err := h.svc.Current(httpx.SessionIDFrom(r), d)
	if err != nil {
		h.writeError(w, r, d, err)
		return
	}
	httpx.JSONSuccess(w, r, draft, nil)
}

// Discard handles DELETE /v1/{domain}/compose
// @Summary Leave the composer, dropping the draft
// @Description With dirty=true the client has unsaved text and must also pass confirm=true.
// @Tags compose
// @Param dirty query bool false "Unsaved text present"
// @Param confirm query bool false "User confirmed leaving"
// @Success 204
// @Failure 428 {object} httpx.ErrorResponse
// @Router /v1/{domain}/compose [delete]
func (h *HTTPHandler) Discard(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	dirty, _ := strconv.ParseBool(q.Get("dirty"))
	confirmed, _ := strconv.ParseBool(q.Get("confirm"))
	if dirty && !confirmed {
		httpx.JSONError(w, r, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", msgDiscardDirty, nil)
		return
	}
	h.svc.Discard(httpx.SessionIDFrom(r), d)
	httpx.JSONSuccessNoContent(w)
}

// Description handles POST /v1/{domain}/compose/description
// @Summary Generate a plot or book summary for the subject
// @Tags compose
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/{domain}/compose/description [post]
func (h *HTTPHandler) Description(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	text, err := h.svc.FetchDescription(r.Context(), httpx.SessionIDFrom(r), d)
	if errors.Is(err, ErrNotConfigured) {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_CONFIGURED", descriptionNotConfigured(d), nil)
		return
	}
	if err != nil {
		h.writeError(w, r, d, err)
		return
	}
	httpx.JSONSuccess(w, r, textResponse{Text: text}, nil)
}

// Refine handles POST /v1/{domain}/compose/refine
// @Summary Stage a polished rewrite of the body
// @Tags compose
// @Accept json
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/{domain}/compose/refine [post]
func (h *HTTPHandler) Refine(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	var req refineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	text, err := h.svc.Refine(r.Context(), httpx.SessionIDFrom(r), d, req.Body)
	if errors.Is(err, ErrNotConfigured) {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_CONFIGURED", msgRefineNotConfigured, nil)
		return
	}
	if err != nil {
		h.writeError(w, r, d, err)
		return
	}
	httpx.JSONSuccess(w, r, textResponse{Text: text}, nil)
}

// ApplyRefinement handles POST /v1/{domain}/compose/refine/apply
// @Summary Accept the staged rewrite as the new body
// @Tags compose
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/{domain}/compose/refine/apply [post]
func (h *HTTPHandler) ApplyRefinement(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	text, err := h.svc.ApplyRefinement(httpx.SessionIDFrom(r), d)
	if err != nil {
		h.writeError(w, r, d, err)
		return
	}
	httpx.JSONSuccess(w, r, textResponse{Text: text}, nil)
}

// CancelRefinement handles DELETE /v1/{domain}/compose/refine
// @Summary Drop the staged rewrite
// @Tags compose
// @Success 204
// @Router /v1/{domain}/compose/refine [delete]
func (h *HTTPHandler) CancelRefinement(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.CancelRefinement(httpx.SessionIDFrom(r), d); err != nil {
		h.writeError(w, r, d, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Submit handles POST /v1/{domain}/reviews
// @Summary Save the review
// @Tags reviews
// @Accept json
// @Produce json
// @Success 201 {object} httpx.SuccessResponse
// @Failure 303 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/{domain}/reviews [post]
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	d, ok := domainFrom(w, r)
	if !ok {
		return
	}
	sid := httpx.SessionIDFrom(r)
	if _, err := h.svc.Current(sid, d); err != nil {
		h.writeError(w, r, d, err)
		return
	}

	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msgIncomplete, details)
		return
	}

	rec, err := h.svc.Submit(r.Context(), sid, d, req.Title, req.Body)
	if err != nil {
		h.writeError(w, r, d, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, submitResponse{Record: rec, Message: savedMessage(d), Next: "/"})
}

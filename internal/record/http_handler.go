package record

import (
	"errors"
	"net/http"
	"strconv"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"

	"go.uber.org/zap"
)

// NotFoundMessage is shown in place of a missing review.
const NotFoundMessage = "감상문을 찾을 수 없습니다."

type HTTPHandler struct {
	svc *Service
	log *zap.Logger
}

func NewHTTPHandler(svc *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, log: log}
}

func keyFrom(w http.ResponseWriter, r *http.Request) (Key, bool) {
	d, err := entity.ParseDomain(r.PathValue("domain"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "UNKNOWN_DOMAIN", "Unknown domain", nil)
		return Key{}, false
	}
	return NewKey(httpx.SessionIDFrom(r), d), true
}

func idFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "id must be an integer", nil)
		return 0, false
	}
	return id, true
}

// List handles GET /v1/{domain}/reviews
// @Summary List reviews newest first
// @Tags reviews
// @Produce json
// @Param domain path string true "film or book"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/{domain}/reviews [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFrom(w, r)
	if !ok {
		return
	}
	recs, err := h.svc.List(r.Context(), key)
	if err != nil {
		h.log.Error("list reviews", zap.String("domain", string(key.Domain)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, recs, map[string]interface{}{"total": len(recs)})
}

// Get handles GET /v1/{domain}/reviews/{id}
// @Summary Get one review
// @Tags reviews
// @Produce json
// @Param id path int true "Review id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/{domain}/reviews/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFrom(w, r)
	if !ok {
		return
	}
	id, ok := idFrom(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Get(r.Context(), key, id)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformed):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", NotFoundMessage, nil)
	case err != nil:
		h.log.Error("get review", zap.Int64("id", id), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	default:
		httpx.JSONSuccess(w, r, rec, nil)
	}
}

// Delete handles DELETE /v1/{domain}/reviews/{id}?confirm=true
// @Summary Delete a review permanently
// @Description Deletion is irreversible and must be confirmed explicitly.
// @Tags reviews
// @Param id path int true "Review id"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 428 {object} httpx.ErrorResponse
// @Router /v1/{domain}/reviews/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFrom(w, r)
	if !ok {
		return
	}
	id, ok := idFrom(w, r)
	if !ok {
		return
	}
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		httpx.JSONError(w, r, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", "정말 삭제하시겠습니까?", nil)
		return
	}

	err := h.svc.Delete(r.Context(), key, id)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", NotFoundMessage, nil)
	case errors.Is(err, ErrMalformed):
		httpx.JSONError(w, r, http.StatusConflict, "MALFORMED_STORE", "Stored reviews are unreadable", nil)
	case err != nil:
		h.log.Error("delete review", zap.Int64("id", id), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	default:
		httpx.JSONSuccessNoContent(w)
	}
}

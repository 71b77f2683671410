package catalog

import (
	"net/http"

	"journalapi/internal/entity"
	"journalapi/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Search handles GET /v1/{domain}/search
// @Summary Search the external catalog
// @Description Undebounced one-shot search. A blank query returns an empty list.
// @Tags catalog
// @Produce json
// @Param domain path string true "film or book"
// @Param q query string false "Search query"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/{domain}/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	domain, err := entity.ParseDomain(r.PathValue("domain"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusNotFound, "UNKNOWN_DOMAIN", "Unknown domain", nil)
		return
	}

	items := h.svc.Search(r.Context(), domain, r.URL.Query().Get("q"))
	httpx.JSONSuccess(w, r, items, map[string]interface{}{"total": len(items)})
}

package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-report/internal/shared/server/respond"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler wires HTTP handlers to the history service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.list)
	rg.GET("/history/:id", h.get)
	rg.DELETE("/history", h.clear)
}

func (h *Handler) list(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list history", nil)
		return
	}
	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toResponse(e, false))
	}
	respond.OK(c, gin.H{"items": resp, "limit": limit, "offset": offset})
}

func (h *Handler) get(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)
	entry, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "history entry not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch history entry", nil)
		}
		return
	}
	respond.OK(c, toResponse(entry, true))
}

func (h *Handler) clear(c *gin.Context) {
	n, err := h.Svc.Clear(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear history", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": n})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

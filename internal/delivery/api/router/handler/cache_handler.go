package handler

import (
	"pricing/internal/delivery/api/response"
	"pricing/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CacheHandler exposes query cache maintenance.
type CacheHandler struct {
	cacheUC usecase.CacheUsecase
}

// NewCacheHandler is the constructor for CacheHandler
func NewCacheHandler(cacheUC usecase.CacheUsecase) *CacheHandler {
	return &CacheHandler{cacheUC: cacheUC}
}

// RefetchAll handles POST /cache/refetch, the console's focus or reconnect signal.
func (h *CacheHandler) RefetchAll(c echo.Context) error {
	refetched := h.cacheUC.RefetchAll(c.Request().Context())

	return response.OK(c, map[string]int{"refetched": refetched})
}

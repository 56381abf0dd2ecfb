package handler

import (
	"pricing/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the gateway is up. It does not contact the backend.
func HealthCheck(c echo.Context) error {
	return response.OK(c, map[string]string{"status": "ok"})
}

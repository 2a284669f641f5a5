package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds with a simple status payload.  Load balancers probe
// this route; it carries no dependencies on the database or Redis so a
// degraded cache never takes the service out of rotation.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

package api

import (
	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/traps"
)

// personaError writes an error response shaped by the persona's error
// style. Trap endpoints never surface raw framework errors or stack traces;
// everything an attacker sees is persona-consistent.
func (s *Server) personaError(c *echo.Context, status int, errorType, message string) error {
	body, contentType := traps.ErrorBody(s.persona, status, errorType, message)
	return c.Blob(status, contentType, body)
}

package traps

import (
	"context"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/models"
)

// Context keys under which trap handlers record what they served, read back
// by the HTTP core's capture middleware when it finalizes the event.
const (
	ctxKeyTrapType        = "sundew.trap_type"
	ctxKeyMatchedEndpoint = "sundew.matched_endpoint"
)

// Mark records which trap surface handled the request and the endpoint
// pattern it matched.
func Mark(c *echo.Context, trapType models.TrapType, endpoint string) {
	c.Set(ctxKeyTrapType, string(trapType))
	c.Set(ctxKeyMatchedEndpoint, endpoint)
}

// TrapTypeFromContext returns the trap recorded by Mark, or
// TrapTypeUnmatched when no trap handler claimed the request.
func TrapTypeFromContext(c *echo.Context) models.TrapType {
	if v, ok := c.Get(ctxKeyTrapType).(string); ok && v != "" {
		return models.TrapType(v)
	}
	return models.TrapTypeUnmatched
}

// MatchedEndpointFromContext returns the endpoint pattern recorded by Mark.
func MatchedEndpointFromContext(c *echo.Context) string {
	v, _ := c.Get(ctxKeyMatchedEndpoint).(string)
	return v
}

// sleepLatency blocks for the persona's artificial response latency, or
// until the request is cancelled — a disconnecting client must not keep the
// handler parked on a fake delay.
func sleepLatency(ctx context.Context, ms int) error {
	if ms <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/salon-platform-analytics/shared/utils"
)

// healthCheck is one dependency probed by /health. A failing optional
// dependency is reported but keeps the service healthy.
type healthCheck struct {
	name     string
	check    func(context.Context) error
	required bool
}

// handleHealth runs every check and reports per-dependency status
func handleHealth(checks []healthCheck, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := make(map[string]string, len(checks))
		var failed string

		for _, hc := range checks {
			if err := hc.check(c.Request.Context()); err != nil {
				logger.WithError(err).WithField("dependency", hc.name).Warn("Analytics health check failed")
				if hc.required {
					status[hc.name] = "unavailable"
					if failed == "" {
						failed = hc.name
					}
				} else {
					status[hc.name] = "degraded"
				}
				continue
			}
			status[hc.name] = "ok"
		}

		if failed != "" {
			utils.ServiceUnavailableResponse(c, fmt.Sprintf("Dependency unavailable: %s", failed))
			return
		}
		utils.OKResponse(c, "Analytics service is healthy", status)
	}
}

package v1

import (
	"net/http"

	"github.com/bakerboy448/autodns/api/v1/update"
	"github.com/bakerboy448/autodns/internal/httpx"
	"github.com/bakerboy448/autodns/internal/updater"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter sets up the HTTP routes
func SetupRouter(r *gin.Engine, u *updater.Updater) {
	handler := update.NewHandler(u)

	// Original update endpoint, token in the guid query parameter
	r.GET("/update-dns", handler.UpdateByQuery)
	r.POST("/update-dns", handler.UpdateByQuery)

	r.GET("/health/alive", healthHandler)
	r.GET("/health/ready", healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", pingHandler)

		// Path-segment variant of the update endpoint
		v1.GET("/update/:token", handler.UpdateByPath)
		v1.POST("/update/:token", handler.UpdateByPath)
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// healthHandler serves liveness and readiness probes
func healthHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

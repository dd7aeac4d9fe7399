package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hospital-ai/config"
	"hospital-ai/hospital"
)

// NewRouter builds the engine with the middleware chain, the health check
// and the hospital endpoints.
func NewRouter(cfg *config.Config, h *hospital.Handler) *gin.Engine {
	hospital.ConfigureBinding()

	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(),
		gin.Recovery(),
		LimitBodySize(cfg.MaxBodySize),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": cfg.Backend, "model": cfg.Model})
	})
	h.RegisterRoutes(r)
	return r
}

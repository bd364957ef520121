// Package httpapi binds a resource store to HTTP under /api/courses.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ugur10/course-store/internal/metrics"
	"github.com/ugur10/course-store/internal/resource"
	"go.uber.org/zap"
)

// CoursesPath is the prefix of every course route.
const CoursesPath = "/api/courses"

// Options configures the router. Zero values disable the optional parts.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// RateLimitRPM limits requests per client per minute; zero disables it.
	RateLimitRPM   int
	RateLimitBurst int
}

// NewRouter builds the gin engine serving repo.
func NewRouter(repo resource.Repository, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(opts.Logger))
	if opts.Metrics != nil {
		router.Use(Instrument(opts.Metrics))
	}
	if opts.RateLimitRPM > 0 {
		router.Use(RateLimit(opts.RateLimitRPM, opts.RateLimitBurst))
	}

	router.GET("/health", healthHandler)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	h := NewCourseHandler(repo)
	courses := router.Group(CoursesPath)
	courses.GET("", h.List)
	courses.POST("", h.Create)
	courses.POST("/query", h.Query)
	courses.GET("/:id", h.Get)
	courses.PUT("/:id", h.Update)
	courses.PATCH("/:id", h.Patch)
	courses.DELETE("/:id", h.Delete)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

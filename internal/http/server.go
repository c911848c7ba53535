// Package http provides the HTTP server for the reporting API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	attendanceHttp "github.com/allisson/attendance/internal/attendance/http"
)

// Server represents the HTTP server for the reporting API.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server with base middleware and the health
// and readiness endpoints registered.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		db:     db,
		logger: logger,
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	return s
}

// EnableCORS installs the CORS middleware when enabled and at least one
// origin is configured. Must be called before RegisterReportRoutes.
func (s *Server) EnableCORS(enabled bool, allowOrigins string) {
	if middleware := createCORSMiddleware(enabled, allowOrigins, s.logger); middleware != nil {
		s.router.Use(middleware)
	}
}

// RegisterReportRoutes mounts the reporting endpoints under /v1/reports,
// guarded by the given middlewares (authentication, rate limiting).
func (s *Server) RegisterReportRoutes(handler *attendanceHttp.ReportHandler, middlewares ...gin.HandlerFunc) {
	reports := s.router.Group("/v1/reports", middlewares...)
	{
		reports.GET("/:course/registrations", handler.RegistrationsHandler)
		reports.GET("/:course/registrations/count", handler.RegistrationsCountHandler)
		reports.GET("/:course/lessons/:lesson", handler.LessonHandler)
		reports.GET("/:course/lessons/:lesson/count", handler.LessonCountHandler)
		reports.GET("/:course/exams/:date", handler.ExamHandler)
		reports.GET("/:course/exams/:date/count", handler.ExamCountHandler)
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its database.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

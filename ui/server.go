package ui

import (
	"context"
	"net/http"
	"time"

	"careerpath/internal"
	"careerpath/internal/pipeline"
	"careerpath/internal/profiling"
	"careerpath/internal/questionnaire"

	"github.com/gin-gonic/gin"
)

// Server is the public JSON API
type Server struct {
	router   *gin.Engine
	service  *pipeline.Service
	sessions *questionnaire.Manager
	profiler *profiling.DataProfiler
	logger   *internal.Logger
	http     *http.Server
}

// NewServer wires the routes; mode is a gin mode such as gin.ReleaseMode
func NewServer(service *pipeline.Service, sessions *questionnaire.Manager, logger *internal.Logger, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	s := &Server{
		router:   gin.New(),
		service:  service,
		sessions: sessions,
		profiler: profiling.NewDataProfiler(5),
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/model", s.handleModel)
	api.POST("/predict", s.handlePredict)

	sessions := api.Group("/sessions")
	sessions.POST("", s.handleStartSession)
	sessions.GET("/:id", s.handleGetSession)
	sessions.PUT("/:id/answers/:feature", s.handleAnswer)
	sessions.POST("/:id/reset", s.handleResetSession)
	sessions.POST("/:id/predict", s.handleSessionPredict)
	sessions.GET("/:id/report", s.handleSessionReport)
	sessions.DELETE("/:id", s.handleEndSession)

	api.GET("/predictions", s.handleListPredictions)
	api.GET("/predictions/:id", s.handleGetPrediction)

	api.GET("/dataset/preview", s.handleDatasetPreview)
	api.GET("/dataset/profile", s.handleDatasetProfile)
}

// Handler exposes the router, used by tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("[Server] Listening on http://%s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

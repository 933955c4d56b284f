package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Pages
	s.echo.GET("/", s.handleAdminPage)
	s.echo.GET("/display", s.handleDisplayPage)
	s.echo.Static("/static", "web/static")

	// Settings API
	s.echo.GET("/api/settings", s.handleGetSettings)
	s.echo.POST("/api/passport", s.handleUpdatePassport)
	s.echo.POST("/api/timer", s.handleTimerAction)

	// Logo upload
	s.echo.POST("/api/logo", s.handleUploadLogo)
	s.echo.DELETE("/api/logo", s.handleDeleteLogo)
	s.echo.GET("/uploads/:filename", s.handleServeUpload)

	// Display WebSocket
	s.echo.GET("/ws", s.handleWebSocket)
}

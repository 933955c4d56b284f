package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/munchkineatter/DrawDrum/internal/app"
	"github.com/munchkineatter/DrawDrum/internal/broadcast"
	"github.com/munchkineatter/DrawDrum/internal/config"
	apperrors "github.com/munchkineatter/DrawDrum/internal/errors"
	"github.com/munchkineatter/DrawDrum/internal/uploads"
)

// storePinger is the minimal interface for database health checks.
type storePinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo            *echo.Echo
	config          *config.Config
	app             *app.Service
	hub             *broadcast.Hub
	logos           *uploads.Store
	store           storePinger
	limits          *ConnectionLimits
	adminTemplate   *template.Template
	displayTemplate *template.Template
	startTime       time.Time
}

func NewServer(cfg *config.Config, appSvc *app.Service, hub *broadcast.Hub, logos *uploads.Store, store storePinger) (*Server, error) {
	// Parse templates once at startup
	adminTmpl, err := template.ParseFiles("web/templates/admin.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin template: %w", err)
	}
	displayTmpl, err := template.ParseFiles("web/templates/display.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse display template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:            e,
		config:          cfg,
		app:             appSvc,
		hub:             hub,
		logos:           logos,
		store:           store,
		limits:          NewConnectionLimits(cfg.MaxConnectionsPerIP, cfg.WSConnectionsPerSecond, cfg.WSConnectionBurst),
		adminTemplate:   adminTmpl,
		displayTemplate: displayTmpl,
		startTime:       time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func renderTemplate(c echo.Context, tmpl *template.Template, data any) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return tmpl.Execute(c.Response().Writer, data)
}

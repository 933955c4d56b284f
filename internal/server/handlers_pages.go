package server

import "github.com/labstack/echo/v4"

func (s *Server) handleAdminPage(c echo.Context) error {
	data := map[string]any{
		"WSHost": c.Request().Host,
	}
	return renderTemplate(c, s.adminTemplate, data)
}

func (s *Server) handleDisplayPage(c echo.Context) error {
	data := map[string]any{
		"WSHost": c.Request().Host,
	}
	return renderTemplate(c, s.displayTemplate, data)
}

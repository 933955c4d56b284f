package server

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/munchkineatter/DrawDrum/internal/domain"
	apperrors "github.com/munchkineatter/DrawDrum/internal/errors"
)

const (
	maxTextLen = 10000
	maxSize    = 512
	maxColumns = 10
)

type passportRequest struct {
	Text       string             `json:"text"`
	Prize      string             `json:"prize"`
	Formatting *domain.Formatting `json:"formatting"`
}

type timerRequest struct {
	Action    string `json:"action"`
	Duration  int    `json:"duration"`
	TimerSize int    `json:"timerSize"`
}

func validatePassport(req passportRequest) error {
	if len(req.Text) > maxTextLen {
		return fmt.Errorf("text exceeds %d characters", maxTextLen)
	}
	if len(req.Prize) > maxTextLen {
		return fmt.Errorf("prize exceeds %d characters", maxTextLen)
	}
	if req.Formatting != nil {
		return validateFormatting(*req.Formatting)
	}
	return nil
}

func validateFormatting(f domain.Formatting) error {
	if f.DisplayTextSize < 1 || f.DisplayTextSize > maxSize {
		return fmt.Errorf("displayTextSize must be between 1 and %d", maxSize)
	}
	if f.TimerSize < 1 || f.TimerSize > maxSize {
		return fmt.Errorf("timerSize must be between 1 and %d", maxSize)
	}
	if f.PrizeSize < 1 || f.PrizeSize > maxSize {
		return fmt.Errorf("prizeSize must be between 1 and %d", maxSize)
	}
	if f.Columns < 1 || f.Columns > maxColumns {
		return fmt.Errorf("columns must be between 1 and %d", maxColumns)
	}
	return nil
}

func (s *Server) handleGetSettings(c echo.Context) error {
	settings, err := s.app.GetSettings(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load settings", err)
	}
	return c.JSON(200, settings)
}

func (s *Server) handleUpdatePassport(c echo.Context) error {
	var req passportRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := validatePassport(req); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	settings, err := s.app.UpdatePassport(c.Request().Context(), req.Text, req.Prize, req.Formatting)
	if err != nil {
		return apperrors.InternalError("failed to update passport", err)
	}

	return c.JSON(200, map[string]any{"success": true, "settings": settings})
}

func (s *Server) handleTimerAction(c echo.Context) error {
	var req timerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Action) == "" {
		return apperrors.ValidationError("action cannot be empty")
	}
	if req.Duration < 0 {
		return apperrors.ValidationError("duration cannot be negative")
	}

	s.app.TimerAction(req.Action, req.Duration, req.TimerSize)

	return c.JSON(200, map[string]any{"success": true})
}

package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/munchkineatter/DrawDrum/internal/domain"
	apperrors "github.com/munchkineatter/DrawDrum/internal/errors"
)

func (s *Server) handleUploadLogo(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.ValidationError("missing file field")
	}
	if file.Size > s.config.MaxUploadBytes {
		return apperrors.TooLargeError("uploaded file too large").
			WithField("size", file.Size).
			WithField("max", s.config.MaxUploadBytes)
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.InternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	contentType := file.Header.Get(echo.HeaderContentType)
	logoPath, err := s.app.SetLogo(c.Request().Context(), contentType, file.Filename, src)
	if errors.Is(err, domain.ErrUnsupportedImage) {
		return apperrors.ValidationError("invalid file type, allowed: PNG, JPEG, GIF, WebP").
			WithField("content_type", contentType)
	}
	if err != nil {
		return apperrors.InternalError("failed to store logo", err)
	}

	return c.JSON(200, map[string]any{"success": true, "logo_path": logoPath})
}

func (s *Server) handleDeleteLogo(c echo.Context) error {
	if err := s.app.ClearLogo(c.Request().Context()); err != nil {
		return apperrors.InternalError("failed to delete logo", err)
	}
	return c.JSON(200, map[string]any{"success": true})
}

func (s *Server) handleServeUpload(c echo.Context) error {
	f, err := s.logos.Open(c.Param("filename"))
	if err != nil {
		return apperrors.NotFoundError("file not found")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return apperrors.NotFoundError("file not found")
	}
	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), f)
	return nil
}

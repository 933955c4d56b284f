package app

import (
	"context"
	"io"
	"strings"

	"github.com/munchkineatter/DrawDrum/internal/domain"
	"github.com/munchkineatter/DrawDrum/internal/metrics"
	"github.com/munchkineatter/DrawDrum/internal/uploads"
)

// Service implements the admin operations. Every successful mutation
// broadcasts exactly one event; reads broadcast nothing.
type Service struct {
	settings domain.SettingsStore
	logos    *uploads.Store
	pub      domain.Publisher
}

func NewService(settings domain.SettingsStore, logos *uploads.Store, pub domain.Publisher) *Service {
	return &Service{
		settings: settings,
		logos:    logos,
		pub:      pub,
	}
}

// GetSettings returns the current settings record.
func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	return s.settings.Get(ctx)
}

// Snapshot builds the init event a freshly connected display receives.
func (s *Service) Snapshot(ctx context.Context) (domain.InitEvent, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.InitEvent{}, err
	}
	return domain.NewInitEvent(settings), nil
}

// UpdatePassport persists new passport/prize text (and formatting, when
// given), then broadcasts the update. Used by both the HTTP and WS paths.
func (s *Service) UpdatePassport(ctx context.Context, text, prize string, formatting *domain.Formatting) (domain.Settings, error) {
	settings, err := s.settings.UpdatePassport(ctx, text, prize)
	if err != nil {
		return domain.Settings{}, err
	}
	if formatting != nil {
		settings, err = s.settings.UpdateFormatting(ctx, *formatting)
		if err != nil {
			return domain.Settings{}, err
		}
	}

	s.pub.Broadcast(domain.NewPassportUpdateEvent(settings))
	return settings, nil
}

// TimerAction relays a timer command to all displays. Timer state is never
// persisted, so a late joiner simply misses it.
func (s *Service) TimerAction(action string, duration, timerSize int) {
	s.pub.Broadcast(domain.NewTimerActionEvent(action, duration, timerSize))
}

// SetLogo stores the uploaded image, replaces the previous file if any,
// persists the new path, and broadcasts it.
func (s *Service) SetLogo(ctx context.Context, contentType, originalName string, r io.Reader) (string, error) {
	previous, err := s.settings.Get(ctx)
	if err != nil {
		metrics.LogoUploadsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	name, err := s.logos.Save(contentType, originalName, r)
	if err != nil {
		if err == domain.ErrUnsupportedImage {
			metrics.LogoUploadsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LogoUploadsTotal.WithLabelValues("error").Inc()
		}
		return "", err
	}

	logoPath := "/uploads/" + name
	if _, err := s.settings.UpdateLogoPath(ctx, logoPath); err != nil {
		metrics.LogoUploadsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	// The old file is unreferenced now; losing it on error is harmless.
	if old := uploadFilename(previous.LogoPath); old != "" {
		_ = s.logos.Remove(old)
	}

	metrics.LogoUploadsTotal.WithLabelValues("success").Inc()
	s.pub.Broadcast(domain.NewLogoUpdateEvent(logoPath))
	return logoPath, nil
}

// ClearLogo deletes the current logo file (if any), clears the stored path,
// and broadcasts the removal.
func (s *Service) ClearLogo(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	if name := uploadFilename(settings.LogoPath); name != "" {
		if err := s.logos.Remove(name); err != nil {
			return err
		}
	}

	if _, err := s.settings.UpdateLogoPath(ctx, ""); err != nil {
		return err
	}

	s.pub.Broadcast(domain.NewLogoUpdateEvent(""))
	return nil
}

// uploadFilename maps a stored "/uploads/<name>" path back to the filename.
func uploadFilename(logoPath string) string {
	return strings.TrimPrefix(logoPath, "/uploads/")
}

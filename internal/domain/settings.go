package domain

import (
	"context"
	"time"
)

// Formatting controls how the display renders text. The JSON keys match
// what the display clients expect.
type Formatting struct {
	Color           string `json:"color"`
	Style           string `json:"style"`
	DisplayTextSize int    `json:"displayTextSize"`
	TimerSize       int    `json:"timerSize"`
	Columns         int    `json:"columns"`
	PrizeSize       int    `json:"prizeSize"`
}

// Settings is the single mutable settings record. There is exactly one row;
// concurrent admin edits are last-write-wins.
type Settings struct {
	PassportText    string    `json:"passport_text"`
	PrizeText       string    `json:"prize_text"`
	LogoPath        string    `json:"logo_path"`
	TextColor       string    `json:"text_color"`
	TextStyle       string    `json:"text_style"`
	DisplayTextSize int       `json:"display_text_size"`
	TimerSize       int       `json:"timer_size"`
	Columns         int       `json:"columns"`
	PrizeSize       int       `json:"prize_size"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultSettings returns the values a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		TextColor:       "#FFFFFF",
		TextStyle:       "normal",
		DisplayTextSize: 96,
		TimerSize:       96,
		Columns:         1,
		PrizeSize:       32,
	}
}

// Formatting extracts the formatting fields of the record.
func (s Settings) Formatting() Formatting {
	return Formatting{
		Color:           s.TextColor,
		Style:           s.TextStyle,
		DisplayTextSize: s.DisplayTextSize,
		TimerSize:       s.TimerSize,
		Columns:         s.Columns,
		PrizeSize:       s.PrizeSize,
	}
}

// SettingsStore persists the settings record. Every mutation refreshes
// UpdatedAt and returns the record as stored.
type SettingsStore interface {
	Get(ctx context.Context) (Settings, error)
	UpdatePassport(ctx context.Context, text, prize string) (Settings, error)
	UpdateFormatting(ctx context.Context, f Formatting) (Settings, error)
	UpdateLogoPath(ctx context.Context, path string) (Settings, error)
}

// Publisher fans an event out to all connected display clients.
type Publisher interface {
	Broadcast(event Event)
}

package domain

// Event types sent to display clients. Every broadcast message is a JSON
// object discriminated by its "type" field.
const (
	EventInit           = "init"
	EventPassportUpdate = "passport_update"
	EventTimerAction    = "timer_action"
	EventLogoUpdate     = "logo_update"
)

// Event is implemented by every broadcastable message.
type Event interface {
	EventType() string
}

// InitEvent is the full state snapshot sent to a display right after it
// connects, so late joiners render the current state immediately.
type InitEvent struct {
	Type         string     `json:"type"`
	PassportText string     `json:"passport_text"`
	PrizeText    string     `json:"prize_text"`
	LogoPath     string     `json:"logo_path"`
	Formatting   Formatting `json:"formatting"`
}

// PassportUpdateEvent announces new passport/prize text and formatting.
type PassportUpdateEvent struct {
	Type         string     `json:"type"`
	PassportText string     `json:"passport_text"`
	PrizeText    string     `json:"prize_text"`
	Formatting   Formatting `json:"formatting"`
}

// TimerActionEvent relays a timer command (start/pause/reset) to displays.
// Timer actions are fire-and-forget: they are never persisted.
type TimerActionEvent struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	Duration  int    `json:"duration"`
	TimerSize int    `json:"timerSize"`
}

// LogoUpdateEvent announces a new (or cleared) logo path.
type LogoUpdateEvent struct {
	Type     string `json:"type"`
	LogoPath string `json:"logo_path"`
}

func (e InitEvent) EventType() string           { return e.Type }
func (e PassportUpdateEvent) EventType() string { return e.Type }
func (e TimerActionEvent) EventType() string    { return e.Type }
func (e LogoUpdateEvent) EventType() string     { return e.Type }

// NewInitEvent builds the snapshot event for the given settings.
func NewInitEvent(s Settings) InitEvent {
	return InitEvent{
		Type:         EventInit,
		PassportText: s.PassportText,
		PrizeText:    s.PrizeText,
		LogoPath:     s.LogoPath,
		Formatting:   s.Formatting(),
	}
}

// NewPassportUpdateEvent builds the update event for the given settings.
func NewPassportUpdateEvent(s Settings) PassportUpdateEvent {
	return PassportUpdateEvent{
		Type:         EventPassportUpdate,
		PassportText: s.PassportText,
		PrizeText:    s.PrizeText,
		Formatting:   s.Formatting(),
	}
}

// NewTimerActionEvent builds a timer relay event.
func NewTimerActionEvent(action string, duration, timerSize int) TimerActionEvent {
	return TimerActionEvent{
		Type:      EventTimerAction,
		Action:    action,
		Duration:  duration,
		TimerSize: timerSize,
	}
}

// NewLogoUpdateEvent builds a logo change event. An empty path means the
// logo was removed.
func NewLogoUpdateEvent(path string) LogoUpdateEvent {
	return LogoUpdateEvent{Type: EventLogoUpdate, LogoPath: path}
}

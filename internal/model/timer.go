package model

// Timer modes. The literal names are also the values persisted in the
// local store and mirrored to the sync server.
const (
	ModeFocus      = "focus"
	ModeShortBreak = "shortBreak"
	ModeLongBreak  = "longBreak"
)

// Session record types.
const (
	SessionTypeFocus = "focus"
	SessionTypeBreak = "break"
)

const (
	DefaultFocusMinutes            = 25
	DefaultShortBreakMinutes       = 5
	DefaultLongBreakMinutes        = 15
	DefaultSessionsBeforeLongBreak = 4

	// MaxTimerMinutes bounds manual time adjustment.
	MaxTimerMinutes = 180
)

// Session is an immutable history entry written when a countdown ends,
// either naturally or early. Duration is whole minutes; early closes
// round the elapsed time up. CompletedAt is epoch milliseconds.
type Session struct {
	ID          string `json:"id"`
	Duration    int    `json:"duration"`
	CompletedAt int64  `json:"completedAt"`
	Type        string `json:"type"`
	TaskID      string `json:"taskId,omitempty"`
}

// TimerConfig holds the per-user countdown durations in minutes.
type TimerConfig struct {
	FocusMinutes            int `json:"focusDuration"`
	ShortBreakMinutes       int `json:"shortBreakDuration"`
	LongBreakMinutes        int `json:"longBreakDuration"`
	SessionsBeforeLongBreak int `json:"sessionsBeforeLongBreak"`
}

func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		FocusMinutes:            DefaultFocusMinutes,
		ShortBreakMinutes:       DefaultShortBreakMinutes,
		LongBreakMinutes:        DefaultLongBreakMinutes,
		SessionsBeforeLongBreak: DefaultSessionsBeforeLongBreak,
	}
}

// MinutesForMode returns the configured duration for a mode.
func (c TimerConfig) MinutesForMode(mode string) int {
	switch mode {
	case ModeShortBreak:
		return c.ShortBreakMinutes
	case ModeLongBreak:
		return c.LongBreakMinutes
	default:
		return c.FocusMinutes
	}
}

func ValidMode(mode string) bool {
	return mode == ModeFocus || mode == ModeShortBreak || mode == ModeLongBreak
}

// RuntimeState is the resumable snapshot of an in-progress or paused
// timer. StartUnixMilli is meaningful only while running.
type RuntimeState struct {
	Mode                   string `json:"mode"`
	TimeLeftSeconds        int    `json:"timeLeftSeconds"`
	Running                bool   `json:"isRunning"`
	SessionsCompletedToday int    `json:"sessionsCompletedToday"`
	StartUnixMilli         int64  `json:"startTimestamp,omitempty"`
}

// Package engine owns the countdown state machine: one timer across
// the focus/short-break/long-break modes, elapsed-time accounting and
// session-completion transitions. All invalid transitions are silent
// no-ops; persistence failures are logged and never surfaced.
package engine

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"focustimer/internal/kvstore"
	"focustimer/internal/model"
)

const (
	keyTimeLeft      = "timer_time_left"
	keyRunning       = "timer_is_running"
	keyMode          = "timer_mode"
	keySessionsToday = "timer_sessions_today"
	keyStartTime     = "timer_start_time"

	keyFocusModeEnabled = "focus_mode_enabled"
	keyFocusAutoStart   = "focus_auto_activate"
)

// DigitPlace selects which digit of the MM:SS display a manual
// adjustment applies to.
type DigitPlace int

const (
	TensOfMinutes DigitPlace = iota
	UnitsOfMinutes
	TensOfSeconds
	UnitsOfSeconds
)

func (p DigitPlace) seconds() int {
	switch p {
	case TensOfMinutes:
		return 10 * 60
	case UnitsOfMinutes:
		return 60
	case TensOfSeconds:
		return 10
	default:
		return 1
	}
}

// AdjustState records whether the displayed time was set by the user,
// by a settings reload, or not touched at all. A user adjustment
// suppresses the settings-reload reset until the next mode switch.
type AdjustState int

const (
	AdjustUnset AdjustState = iota
	AdjustUser
	AdjustSystem
)

// SessionSink receives completed session records. The engine fills
// every field except the id.
type SessionSink interface {
	SaveSession(ctx context.Context, s model.Session) (model.Session, error)
}

type Engine struct {
	kv   kvstore.Store
	sink SessionSink
	log  *slog.Logger
	now  func() time.Time

	cfg           model.TimerConfig
	mode          string
	timeLeft      int
	running       bool
	startedAt     time.Time
	sessionsToday int
	adjust        AdjustState
	activeTaskID  string

	focusModeEnabled bool
	focusAutoStart   bool
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns a paused focus-mode engine with the configured focus
// duration on the clock.
func New(kv kvstore.Store, sink SessionSink, cfg model.TimerConfig, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		kv:             kv,
		sink:           sink,
		log:            log,
		now:            time.Now,
		cfg:            cfg,
		mode:           model.ModeFocus,
		timeLeft:       cfg.FocusMinutes * 60,
		focusAutoStart: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Mode() string { return e.mode }

func (e *Engine) TimeLeft() int { return e.timeLeft }

func (e *Engine) Running() bool { return e.running }

func (e *Engine) SessionsToday() int { return e.sessionsToday }

func (e *Engine) Config() model.TimerConfig { return e.cfg }

// ActiveTaskID reports the task the next focus session is credited to.
func (e *Engine) ActiveTaskID() string { return e.activeTaskID }

func (e *Engine) SetActiveTask(id string) { e.activeTaskID = id }

// FocusModeActive reports whether do-not-disturb should currently be
// engaged: a running focus session with the feature enabled.
func (e *Engine) FocusModeActive() bool {
	return e.running && e.mode == model.ModeFocus && e.focusModeEnabled && e.focusAutoStart
}

// Snapshot returns the resumable runtime state.
func (e *Engine) Snapshot() model.RuntimeState {
	st := model.RuntimeState{
		Mode:                   e.mode,
		TimeLeftSeconds:        e.timeLeft,
		Running:                e.running,
		SessionsCompletedToday: e.sessionsToday,
	}
	if e.running {
		st.StartUnixMilli = e.startedAt.UnixMilli()
	}
	return st
}

// Restore loads the persisted runtime state. If the timer was running
// when the process died, the real time elapsed since the recorded
// start is subtracted; a timer that ran out while suspended is left at
// zero with the running flag cleared and no session is emitted.
func (e *Engine) Restore(ctx context.Context) {
	values, err := e.kv.MultiGet(ctx, []string{
		keyTimeLeft,
		keyRunning,
		keyMode,
		keySessionsToday,
		keyStartTime,
		keyFocusModeEnabled,
		keyFocusAutoStart,
	})
	if err != nil {
		e.log.Warn("restore timer state", "error", err)
		return
	}

	if mode, ok := values[keyMode]; ok && model.ValidMode(mode) {
		e.mode = mode
	}
	if raw, ok := values[keySessionsToday]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			e.sessionsToday = parsed
		}
	}
	e.focusModeEnabled = values[keyFocusModeEnabled] == "true"
	e.focusAutoStart = values[keyFocusAutoStart] != "false"

	timeLeft, haveTime := parseNonNegative(values[keyTimeLeft])
	if !haveTime {
		return
	}

	wasRunning := values[keyRunning] == "true"
	startMilli, haveStart := parseNonNegativeInt64(values[keyStartTime])
	if wasRunning && haveStart {
		elapsed := int(e.now().UnixMilli()-startMilli) / 1000
		remaining := timeLeft - elapsed
		if remaining > 0 {
			e.timeLeft = remaining
			e.running = true
			e.startedAt = e.now()
			return
		}
		// Ran out while suspended. Clear the running flag, write the
		// expired state back so later loads see it too, and leave the
		// rest for the next foreground action; no retroactive session
		// record.
		e.timeLeft = 0
		e.running = false
		e.persist(ctx)
		return
	}

	e.timeLeft = timeLeft
}

// Start begins the countdown. Rejected while running or with nothing
// left on the clock.
func (e *Engine) Start(ctx context.Context) bool {
	if e.running || e.timeLeft <= 0 {
		return false
	}
	e.running = true
	e.startedAt = e.now()
	e.adjust = AdjustUnset
	e.persist(ctx)
	return true
}

// Pause stops the countdown without resetting it.
func (e *Engine) Pause(ctx context.Context) bool {
	if !e.running {
		return false
	}
	e.running = false
	e.startedAt = time.Time{}
	e.persist(ctx)
	return true
}

// Tick advances the countdown by one second. It reports whether the
// timer reached zero and completed.
func (e *Engine) Tick(ctx context.Context) bool {
	if !e.running || e.timeLeft <= 0 {
		return false
	}
	e.timeLeft--
	if e.timeLeft > 0 {
		return false
	}
	e.complete(ctx)
	return true
}

// Adjust applies delta steps at the given digit place to the paused
// countdown. Results outside (0, 180m] are rejected without change.
func (e *Engine) Adjust(ctx context.Context, delta int, place DigitPlace) bool {
	if e.running {
		return false
	}
	next := e.timeLeft + delta*place.seconds()
	if next <= 0 || next > model.MaxTimerMinutes*60 {
		return false
	}
	e.timeLeft = next
	e.adjust = AdjustUser
	e.persist(ctx)
	return true
}

// CompleteEarly closes a running session now, crediting the elapsed
// time rounded up to whole minutes. Rejected while paused or before
// any time has elapsed.
func (e *Engine) CompleteEarly(ctx context.Context) bool {
	if !e.running {
		return false
	}
	total := e.cfg.MinutesForMode(e.mode) * 60
	elapsed := total - e.timeLeft
	if elapsed <= 0 {
		return false
	}

	e.running = false
	e.startedAt = time.Time{}
	e.emitSession(ctx, (elapsed+59)/60)
	e.advanceMode()
	e.persist(ctx)
	return true
}

// complete handles the countdown reaching zero naturally. Full nominal
// credit is given regardless of tick drift.
func (e *Engine) complete(ctx context.Context) {
	e.running = false
	e.startedAt = time.Time{}
	e.emitSession(ctx, e.cfg.MinutesForMode(e.mode))
	e.advanceMode()
	e.persist(ctx)
}

// advanceMode applies the rollover rule: every Nth completed focus
// session earns a long break, otherwise a short one; any break leads
// back to focus.
func (e *Engine) advanceMode() {
	if e.mode == model.ModeFocus {
		e.sessionsToday++
		if e.sessionsToday%e.cfg.SessionsBeforeLongBreak == 0 {
			e.setMode(model.ModeLongBreak)
		} else {
			e.setMode(model.ModeShortBreak)
		}
		return
	}
	e.setMode(model.ModeFocus)
}

// SwitchMode jumps to a mode directly, cancelling any running
// countdown. No session is recorded.
func (e *Engine) SwitchMode(ctx context.Context, mode string) bool {
	if !model.ValidMode(mode) {
		return false
	}
	e.running = false
	e.startedAt = time.Time{}
	e.setMode(mode)
	e.persist(ctx)
	return true
}

func (e *Engine) setMode(mode string) {
	e.mode = mode
	e.timeLeft = e.cfg.MinutesForMode(mode) * 60
	e.adjust = AdjustUnset
}

// ApplyConfig installs new durations. They take effect on the next
// mode switch; a paused timer is refreshed immediately unless the user
// adjusted it by hand.
func (e *Engine) ApplyConfig(cfg model.TimerConfig) {
	e.cfg = cfg
	if !e.running && e.adjust != AdjustUser {
		e.timeLeft = cfg.MinutesForMode(e.mode) * 60
		e.adjust = AdjustSystem
	}
}

// SetFocusMode stores the do-not-disturb feature flags.
func (e *Engine) SetFocusMode(ctx context.Context, enabled, autoStart bool) {
	e.focusModeEnabled = enabled
	e.focusAutoStart = autoStart
	if err := e.kv.MultiSet(ctx, map[string]string{
		keyFocusModeEnabled: strconv.FormatBool(enabled),
		keyFocusAutoStart:   strconv.FormatBool(autoStart),
	}); err != nil {
		e.log.Warn("save focus mode flags", "error", err)
	}
}

// Run drives the one-second tick loop until the countdown completes,
// the engine is paused elsewhere, or the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.running {
				return
			}
			if e.Tick(ctx) {
				return
			}
		}
	}
}

func (e *Engine) emitSession(ctx context.Context, minutes int) {
	sessionType := model.SessionTypeBreak
	var taskID string
	if e.mode == model.ModeFocus {
		sessionType = model.SessionTypeFocus
		taskID = e.activeTaskID
	}

	session := model.Session{
		Duration:    minutes,
		CompletedAt: e.now().UnixMilli(),
		Type:        sessionType,
		TaskID:      taskID,
	}
	if _, err := e.sink.SaveSession(ctx, session); err != nil {
		e.log.Warn("save completed session", "error", err)
	}
}

// persist rewrites the runtime-state keys. Failures are logged; the
// in-memory state stays authoritative.
func (e *Engine) persist(ctx context.Context) {
	pairs := map[string]string{
		keyTimeLeft:      strconv.Itoa(e.timeLeft),
		keyRunning:       strconv.FormatBool(e.running),
		keyMode:          e.mode,
		keySessionsToday: strconv.Itoa(e.sessionsToday),
	}
	if e.running {
		pairs[keyStartTime] = strconv.FormatInt(e.startedAt.UnixMilli(), 10)
	} else if err := e.kv.Remove(ctx, keyStartTime); err != nil {
		e.log.Warn("clear start timestamp", "error", err)
	}

	if err := e.kv.MultiSet(ctx, pairs); err != nil {
		e.log.Warn("persist timer state", "error", err)
	}
}

func parseNonNegative(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}

func parseNonNegativeInt64(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}

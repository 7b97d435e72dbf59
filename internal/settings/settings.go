// Package settings reads and writes the typed configuration kept in
// the local key-value store: timer durations and app preferences.
// Malformed or missing stored values fall back to defaults rather than
// surfacing an error.
package settings

import (
	"context"
	"strconv"

	"focustimer/internal/kvstore"
	"focustimer/internal/model"
)

const (
	keyFocusMinutes      = "settings_focus_duration"
	keyShortBreakMinutes = "settings_short_break_duration"
	keyLongBreakMinutes  = "settings_long_break_duration"
	keySessionsBeforeLB  = "settings_sessions_before_long_break"

	keyTheme     = "pref_theme"
	keySound     = "pref_sound"
	keyVibration = "pref_vibration"
)

type Store struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// TimerConfig loads the countdown durations with one batched read.
func (s *Store) TimerConfig(ctx context.Context) (model.TimerConfig, error) {
	values, err := s.kv.MultiGet(ctx, []string{
		keyFocusMinutes,
		keyShortBreakMinutes,
		keyLongBreakMinutes,
		keySessionsBeforeLB,
	})
	if err != nil {
		return model.DefaultTimerConfig(), err
	}

	cfg := model.DefaultTimerConfig()
	cfg.FocusMinutes = positiveInt(values[keyFocusMinutes], cfg.FocusMinutes)
	cfg.ShortBreakMinutes = positiveInt(values[keyShortBreakMinutes], cfg.ShortBreakMinutes)
	cfg.LongBreakMinutes = positiveInt(values[keyLongBreakMinutes], cfg.LongBreakMinutes)
	cfg.SessionsBeforeLongBreak = positiveInt(values[keySessionsBeforeLB], cfg.SessionsBeforeLongBreak)
	if cfg.SessionsBeforeLongBreak < 2 {
		cfg.SessionsBeforeLongBreak = model.DefaultSessionsBeforeLongBreak
	}
	return cfg, nil
}

func (s *Store) SaveTimerConfig(ctx context.Context, cfg model.TimerConfig) error {
	return s.kv.MultiSet(ctx, map[string]string{
		keyFocusMinutes:      strconv.Itoa(cfg.FocusMinutes),
		keyShortBreakMinutes: strconv.Itoa(cfg.ShortBreakMinutes),
		keyLongBreakMinutes:  strconv.Itoa(cfg.LongBreakMinutes),
		keySessionsBeforeLB:  strconv.Itoa(cfg.SessionsBeforeLongBreak),
	})
}

// ResetTimerConfig restores the defaults.
func (s *Store) ResetTimerConfig(ctx context.Context) error {
	return s.SaveTimerConfig(ctx, model.DefaultTimerConfig())
}

// AppPrefs loads theme, sound and vibration with one batched read.
func (s *Store) AppPrefs(ctx context.Context) (model.AppPrefs, error) {
	values, err := s.kv.MultiGet(ctx, []string{keyTheme, keySound, keyVibration})
	if err != nil {
		return model.DefaultAppPrefs(), err
	}

	prefs := model.DefaultAppPrefs()
	if theme, ok := values[keyTheme]; ok && model.ValidTheme(theme) {
		prefs.Theme = theme
	}
	if raw, ok := values[keySound]; ok {
		prefs.SoundEnabled = raw == "true"
	}
	if raw, ok := values[keyVibration]; ok {
		prefs.VibrationEnabled = raw == "true"
	}
	return prefs, nil
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.kv.Set(ctx, keyTheme, theme)
}

func (s *Store) SaveSoundEnabled(ctx context.Context, enabled bool) error {
	return s.kv.Set(ctx, keySound, strconv.FormatBool(enabled))
}

func (s *Store) SaveVibrationEnabled(ctx context.Context, enabled bool) error {
	return s.kv.Set(ctx, keyVibration, strconv.FormatBool(enabled))
}

func positiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

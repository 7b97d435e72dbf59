package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustimer/internal/kvstore"
	"focustimer/internal/model"
)

func TestTimerConfigDefaultsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	store := New(kvstore.NewMemory())

	cfg, err := store.TimerConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTimerConfig(), cfg)
}

func TestTimerConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(kvstore.NewMemory())

	want := model.TimerConfig{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 20, SessionsBeforeLongBreak: 3}
	require.NoError(t, store.SaveTimerConfig(ctx, want))

	got, err := store.TimerConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTimerConfigMalformedValuesFallBack(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.MultiSet(ctx, map[string]string{
		"settings_focus_duration":             "not a number",
		"settings_short_break_duration":       "-5",
		"settings_long_break_duration":        "0",
		"settings_sessions_before_long_break": "1",
	}))

	cfg, err := New(kv).TimerConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFocusMinutes, cfg.FocusMinutes)
	assert.Equal(t, model.DefaultShortBreakMinutes, cfg.ShortBreakMinutes)
	assert.Equal(t, model.DefaultLongBreakMinutes, cfg.LongBreakMinutes)
	assert.Equal(t, model.DefaultSessionsBeforeLongBreak, cfg.SessionsBeforeLongBreak, "a cadence below 2 cannot express a rollover")
}

func TestResetTimerConfig(t *testing.T) {
	ctx := context.Background()
	store := New(kvstore.NewMemory())

	require.NoError(t, store.SaveTimerConfig(ctx, model.TimerConfig{FocusMinutes: 90, ShortBreakMinutes: 15, LongBreakMinutes: 30, SessionsBeforeLongBreak: 6}))
	require.NoError(t, store.ResetTimerConfig(ctx))

	cfg, err := store.TimerConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTimerConfig(), cfg)
}

func TestAppPrefsDefaultsAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(kvstore.NewMemory())

	prefs, err := store.AppPrefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppPrefs(), prefs)

	require.NoError(t, store.SaveTheme(ctx, model.ThemeDark))
	require.NoError(t, store.SaveSoundEnabled(ctx, false))
	require.NoError(t, store.SaveVibrationEnabled(ctx, false))

	prefs, err = store.AppPrefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, prefs.Theme)
	assert.False(t, prefs.SoundEnabled)
	assert.False(t, prefs.VibrationEnabled)
}

func TestAppPrefsIgnoresUnknownTheme(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, "pref_theme", "sepia"))

	prefs, err := New(kv).AppPrefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppPrefs().Theme, prefs.Theme)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the timer durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			cfg, err := a.settings.TimerConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("focus: %d min\nshort break: %d min\nlong break: %d min\nlong break every: %d sessions\n",
				cfg.FocusMinutes, cfg.ShortBreakMinutes, cfg.LongBreakMinutes, cfg.SessionsBeforeLongBreak)
			return nil
		},
	}

	var (
		focus      int
		shortBreak int
		longBreak  int
		cadence    int
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change durations; they apply at the next mode switch",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			cfg, err := a.settings.TimerConfig(ctx)
			if err != nil {
				return err
			}
			if focus > 0 {
				cfg.FocusMinutes = focus
			}
			if shortBreak > 0 {
				cfg.ShortBreakMinutes = shortBreak
			}
			if longBreak > 0 {
				cfg.LongBreakMinutes = longBreak
			}
			if cadence >= 2 {
				cfg.SessionsBeforeLongBreak = cadence
			}
			if err := a.settings.SaveTimerConfig(ctx, cfg); err != nil {
				return err
			}
			fmt.Println("saved")
			return nil
		},
	}
	set.Flags().IntVar(&focus, "focus", 0, "focus minutes")
	set.Flags().IntVar(&shortBreak, "short-break", 0, "short break minutes")
	set.Flags().IntVar(&longBreak, "long-break", 0, "long break minutes")
	set.Flags().IntVar(&cadence, "cadence", 0, "focus sessions before a long break (min 2)")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.settings.ResetTimerConfig(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("reset to defaults")
			return nil
		},
	}

	cmd.AddCommand(set, reset)
	return cmd
}

func newPrefsCmd() *cobra.Command {
	var (
		theme     string
		sound     string
		vibration string
	)

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change app preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			changed := false
			if theme != "" {
				if err := a.settings.SaveTheme(ctx, theme); err != nil {
					return err
				}
				changed = true
			}
			if sound != "" {
				if err := a.settings.SaveSoundEnabled(ctx, sound == "on"); err != nil {
					return err
				}
				changed = true
			}
			if vibration != "" {
				if err := a.settings.SaveVibrationEnabled(ctx, vibration == "on"); err != nil {
					return err
				}
				changed = true
			}

			prefs, err := a.settings.AppPrefs(ctx)
			if err != nil {
				return err
			}
			if changed {
				fmt.Println("saved")
			}
			fmt.Printf("theme: %s\nsound: %v\nvibration: %v\n",
				prefs.Theme, prefs.SoundEnabled, prefs.VibrationEnabled)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or auto")
	cmd.Flags().StringVar(&sound, "sound", "", "on or off")
	cmd.Flags().StringVar(&vibration, "vibration", "", "on or off")
	return cmd
}

func newDNDCmd() *cobra.Command {
	var (
		enable bool
		auto   bool
	)

	cmd := &cobra.Command{
		Use:   "dnd",
		Short: "Configure do-not-disturb during focus sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			eng, err := a.loadEngine(ctx)
			if err != nil {
				return err
			}
			eng.SetFocusMode(ctx, enable, auto)
			fmt.Printf("focus mode enabled: %v, auto-activate: %v\n", enable, auto)
			return nil
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "enable focus mode")
	cmd.Flags().BoolVar(&auto, "auto", true, "activate automatically when a focus session starts")
	return cmd
}

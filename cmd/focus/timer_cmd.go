package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"focustimer/internal/engine"
	"focustimer/internal/model"
)

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Control the countdown",
	}
	cmd.AddCommand(
		newTimerStartCmd(),
		newTimerRunCmd(),
		newTimerPauseCmd(),
		newTimerStatusCmd(),
		newTimerAdjustCmd(),
		newTimerSwitchCmd(),
		newTimerCompleteCmd(),
	)
	return cmd
}

func newTimerStartCmd() *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the countdown in the background",
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
			eng.SetActiveTask(taskID)

			if !eng.Start(ctx) {
				fmt.Println("timer is already running or has no time left")
				return nil
			}
			printStatus(eng)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "task id to credit the session to")
	return cmd
}

func newTimerRunCmd() *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the countdown in the foreground until it completes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eng, err := a.loadEngine(ctx)
			if err != nil {
				return err
			}
			eng.SetActiveTask(taskID)

			if !eng.Running() && !eng.Start(ctx) {
				fmt.Println("nothing to run: no time left on the clock")
				return nil
			}

			fmt.Printf("%s | %s\n", modeLabel(eng.Mode()), formatClock(eng.TimeLeft()))
			if eng.FocusModeActive() {
				fmt.Println("focus mode on: notifications should stay away")
			}

			eng.Run(ctx)

			if ctx.Err() != nil {
				// Interrupted: leave it running, the wall clock keeps
				// counting and the next invocation resumes it.
				fmt.Println("\ndetached; timer keeps running")
				return nil
			}
			fmt.Printf("done. next up: %s | %s\n", modeLabel(eng.Mode()), formatClock(eng.TimeLeft()))
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "task id to credit the session to")
	return cmd
}

func newTimerPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the countdown",
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
			if !eng.Pause(ctx) {
				fmt.Println("timer is not running")
				return nil
			}
			printStatus(eng)
			return nil
		},
	}
}

func newTimerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current timer state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			eng, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(eng)
			return nil
		},
	}
}

func newTimerAdjustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <delta> <place>",
		Short: "Nudge the paused countdown at a digit place (m10, m1, s10, s1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("delta must be an integer: %q", args[0])
			}
			place, ok := parseDigitPlace(args[1])
			if !ok {
				return fmt.Errorf("place must be one of m10, m1, s10, s1")
			}

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
			if !eng.Adjust(ctx, delta, place) {
				fmt.Println("adjustment rejected (running timer, or out of bounds)")
				return nil
			}
			printStatus(eng)
			return nil
		},
	}
}

func newTimerSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <focus|shortBreak|longBreak>",
		Short: "Jump to a mode, resetting the clock to its configured duration",
		Args:  cobra.ExactArgs(1),
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
			if !eng.SwitchMode(ctx, args[0]) {
				return fmt.Errorf("unknown mode %q", args[0])
			}
			printStatus(eng)
			return nil
		},
	}
}

func newTimerCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Close the running session early, crediting elapsed time",
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
			if !eng.CompleteEarly(ctx) {
				fmt.Println("nothing to complete: timer is not running or no time elapsed")
				return nil
			}
			fmt.Printf("session recorded. next up: %s | %s\n", modeLabel(eng.Mode()), formatClock(eng.TimeLeft()))
			return nil
		},
	}
}

func parseDigitPlace(raw string) (engine.DigitPlace, bool) {
	switch raw {
	case "m10":
		return engine.TensOfMinutes, true
	case "m1":
		return engine.UnitsOfMinutes, true
	case "s10":
		return engine.TensOfSeconds, true
	case "s1":
		return engine.UnitsOfSeconds, true
	}
	return 0, false
}

func printStatus(eng *engine.Engine) {
	state := "paused"
	if eng.Running() {
		state = "running"
	}
	fmt.Printf("%s | %s (%s), %d focus sessions today\n",
		modeLabel(eng.Mode()), formatClock(eng.TimeLeft()), state, eng.SessionsToday())
}

func modeLabel(mode string) string {
	switch mode {
	case model.ModeShortBreak:
		return "Short Break"
	case model.ModeLongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

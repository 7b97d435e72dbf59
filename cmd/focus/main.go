package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"focustimer/internal/config"
	"focustimer/internal/engine"
	"focustimer/internal/gateway"
	"focustimer/internal/kvstore"
	"focustimer/internal/remote"
	"focustimer/internal/settings"
)

const (
	keyAuthToken = "auth_token"
	keyAuthUser  = "auth_user_id"
	keyAuthEmail = "auth_email"
)

// app wires the client components for one command invocation. The
// current-user-id and token providers read the local store, so every
// component sees a login or logout immediately.
type app struct {
	cfg      config.Client
	kv       kvstore.Store
	settings *settings.Store
	remote   *remote.Client
	gw       *gateway.Gateway
	log      *slog.Logger
}

func newApp() (*app, error) {
	cfg := config.LoadClient()

	kv, err := kvstore.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	a := &app{
		cfg:      cfg,
		kv:       kv,
		settings: settings.New(kv),
		log:      log,
	}
	a.remote = remote.NewClient(cfg.ServerURL, a.token)
	a.gw = gateway.New(kv, a.remote, a.userID, log)
	return a, nil
}

func (a *app) close() {
	_ = a.kv.Close()
}

func (a *app) token() string {
	value, _, err := a.kv.Get(context.Background(), keyAuthToken)
	if err != nil {
		return ""
	}
	return value
}

func (a *app) userID() string {
	value, _, err := a.kv.Get(context.Background(), keyAuthUser)
	if err != nil {
		return ""
	}
	return value
}

// loadEngine builds the timer with the stored configuration and
// restores any persisted runtime state, applying the resume rule.
func (a *app) loadEngine(ctx context.Context) (*engine.Engine, error) {
	cfg, err := a.settings.TimerConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load timer config: %w", err)
	}
	eng := engine.New(a.kv, a.gw, cfg, a.log)
	eng.Restore(ctx)
	return eng, nil
}

func main() {
	root := &cobra.Command{
		Use:          "focus",
		Short:        "Pomodoro-style focus timer with tasks, stats and sync",
		SilenceUsage: true,
	}

	root.AddCommand(
		newTimerCmd(),
		newTaskCmd(),
		newStatsCmd(),
		newHistoryCmd(),
		newSettingsCmd(),
		newPrefsCmd(),
		newDNDCmd(),
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newSyncCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

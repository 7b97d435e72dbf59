package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Create an account on the sync server and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			result, err := a.remote.Register(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := storeAuth(ctx, a, result.Token, result.User.ID, result.User.Email); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", result.User.Email)
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in to the sync server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			result, err := a.remote.Login(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := storeAuth(ctx, a, result.Token, result.User.ID, result.User.Email); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", result.User.Email)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; local data stays on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.kv.MultiRemove(cmd.Context(), []string{keyAuthToken, keyAuthUser, keyAuthEmail}); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync server actions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Seed the server with your settings and a welcome task",
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
			if err := a.gw.InitializeRemote(ctx, cfg); err != nil {
				return err
			}
			fmt.Println("remote collections initialized")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "push-settings",
		Short: "Push the local timer durations to the server",
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
			if err := a.gw.PushConfig(ctx, cfg); err != nil {
				return err
			}
			fmt.Println("settings pushed")
			return nil
		},
	})

	return cmd
}

func storeAuth(ctx context.Context, a *app, token, userID, email string) error {
	return a.kv.MultiSet(ctx, map[string]string{
		keyAuthToken: token,
		keyAuthUser:  userID,
		keyAuthEmail: email,
	})
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"focustimer/internal/stats"
)

func newStatsCmd() *cobra.Command {
	var (
		period string
		page   int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := stats.Period(period)
			if !stats.ValidPeriod(selected) {
				return fmt.Errorf("period must be day, week, month or all")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sessions := a.gw.Sessions(cmd.Context())
			now := time.Now()

			rollup := stats.Summarize(sessions, selected, now)
			fmt.Printf("today: %d sessions, %d min\n", rollup.TodaySessions, rollup.TodayMinutes)
			fmt.Printf("%s: %d sessions, %d min (avg %d min/day)\n",
				period, rollup.PeriodSessions, rollup.PeriodMinutes, rollup.AveragePerDay)
			fmt.Printf("all time: %d sessions, %d min\n\n", rollup.TotalSessions, rollup.TotalMinutes)

			buckets := stats.Buckets(sessions, selected, now)
			visible := stats.Page(buckets, page)

			maxMinutes := 1
			for _, bucket := range visible {
				if bucket.Minutes > maxMinutes {
					maxMinutes = bucket.Minutes
				}
			}
			for _, bucket := range visible {
				bar := strings.Repeat("#", bucket.Minutes*30/maxMinutes)
				fmt.Printf("%4s |%-30s %d min\n", bucket.Label, bar, bucket.Minutes)
			}
			fmt.Printf("\npage %d/%d\n", page+1, stats.TotalPages(buckets))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", string(stats.PeriodWeek), "day, week, month or all")
	cmd.Flags().IntVar(&page, "page", 0, "chart page")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sessions := a.gw.Sessions(cmd.Context())
			if len(sessions) == 0 {
				fmt.Println("no sessions recorded")
				return nil
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}
			for _, session := range sessions {
				completed := time.UnixMilli(session.CompletedAt).Format("2006-01-02 15:04")
				fmt.Printf("%s  %-5s  %3d min", completed, session.Type, session.Duration)
				if session.TaskID != "" {
					fmt.Printf("  task=%s", session.TaskID)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the entire local session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.gw.ClearSessions(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("history cleared")
			return nil
		},
	})
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}

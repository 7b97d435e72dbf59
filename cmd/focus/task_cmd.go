package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focustimer/internal/model"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskListCmd(),
		newTaskDoneCmd(),
		newTaskRemoveCmd(),
	)
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var (
		priority    string
		description string
		estimate    int
		startDate   string
		endDate     string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			extra := model.TaskPatch{}
			if description != "" {
				extra.Description = &description
			}
			if estimate > 0 {
				extra.EstimatedDuration = &estimate
			}
			if startDate != "" {
				millis, err := parseDate(startDate)
				if err != nil {
					return err
				}
				extra.StartDate = &millis
			}
			if endDate != "" {
				millis, err := parseDate(endDate)
				if err != nil {
					return err
				}
				extra.EndDate = &millis
			}

			task := a.gw.AddTask(cmd.Context(), args[0], priority, extra)
			fmt.Printf("added %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", model.PriorityMedium, "low, medium or high")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "description")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated duration in minutes")
	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			tasks := a.gw.Tasks(cmd.Context())
			if len(tasks) == 0 {
				fmt.Println("no tasks")
				return nil
			}
			for _, task := range tasks {
				if task.Completed && !all {
					continue
				}
				marker := " "
				if task.Completed {
					marker = "x"
				}
				fmt.Printf("[%s] %-8s %s  %s", marker, task.Priority, task.ID, task.Title)
				if task.PomodorosCompleted > 0 {
					fmt.Printf("  (%d pomodoros)", task.PomodorosCompleted)
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			for _, task := range a.gw.Tasks(ctx) {
				if task.ID == args[0] {
					completed := !task.Completed
					patch := model.TaskPatch{Completed: &completed}
					if err := a.gw.UpdateTask(ctx, task.ID, patch); err != nil {
						return err
					}
					if completed {
						fmt.Printf("completed %s\n", task.Title)
					} else {
						fmt.Printf("reopened %s\n", task.Title)
					}
					return nil
				}
			}
			return fmt.Errorf("no task with id %q", args[0])
		},
	}
}

func newTaskRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.gw.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}

func parseDate(raw string) (int64, error) {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return parsed.UnixMilli(), nil
}

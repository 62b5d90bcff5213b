package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/bootstrap"
	"github.com/djantao/agentAI/internal/scheduler"
)

func newRemindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, _ := loadSessionLog(cfg)

			settings := scheduler.Settings{
				DailyEnabled:        cfg.Reminder.DailyEnabled,
				DailyTime:           cfg.Reminder.DailyTime,
				DailyMinimumMinutes: cfg.Reminder.DailyMinimumMinutes,
				ReviewEnabled:       cfg.Reminder.ReviewEnabled,
				ReviewAfterDays:     cfg.Reminder.ReviewAfterDays,
				CheckInterval:       time.Duration(cfg.Reminder.CheckIntervalSeconds) * time.Second,
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				scheduler.New(settings, log, consoleNotifier{}, nil).Run(ctx)
				return nil
			})
		},
	}
}

// consoleNotifier prints reminders to the terminal; there is no desktop
// notification channel in a CLI session.
type consoleNotifier struct{}

func (consoleNotifier) Notify(title, body string) {
	header := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n%s\n", header("【"+title+"】"), body)
}

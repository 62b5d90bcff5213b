package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/cli"
	"github.com/djantao/agentAI/internal/mastery"
)

func newReviewCommand() *cobra.Command {
	var done bool
	reviewCmd := &cobra.Command{
		Use:   "review [course] [module]",
		Short: "Show modules due for review, or mark one reviewed with --done",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			remote, err := newRemoteStore(cfg)
			if err != nil {
				return err
			}
			reconciler := newMasteryReconciler(cfg, remote)
			model := mastery.NewModel(reconciler.Load(cmd.Context()))
			now := time.Now()

			if done {
				if len(args) != 2 {
					return fmt.Errorf("用法：review --done <课程> <模块>")
				}
				mm, err := cli.CompleteReview(cmd.Context(), model, reconciler, args[0], args[1], now)
				if err != nil {
					return err
				}
				fmt.Printf("已完成「%s」的复习（第 %d 次），建议 %s 再次复习\n",
					mm.Name, mm.ReviewCount, mm.NextReviewDate.Format("2006-01-02"))
				return nil
			}

			cli.RenderReviewQueue(os.Stdout, model.ReviewQueue(now), now)
			return nil
		},
	}
	reviewCmd.Flags().BoolVar(&done, "done", false, "mark the module reviewed and reschedule it")
	return reviewCmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mastery and study time statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			remote, err := newRemoteStore(cfg)
			if err != nil {
				return err
			}
			model := mastery.NewModel(newMasteryReconciler(cfg, remote).Load(cmd.Context()))
			log, _ := loadSessionLog(cfg)

			now := time.Now()
			cli.RenderStatistics(os.Stdout,
				model.CalculateStatistics(now),
				log.AggregateWindow(7, now),
				log.OverallCredibility())
			return nil
		},
	}
}

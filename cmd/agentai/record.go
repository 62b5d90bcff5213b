package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/djantao/agentAI/internal/progress"
)

// statusValue validates the --status flag against the known session states.
type statusValue progress.Status

var (
	_           pflag.Value = (*statusValue)(nil)
	allStatuses             = []progress.Status{
		progress.StatusFocused,
		progress.StatusReview,
		progress.StatusPractice,
		progress.StatusProblemSolving,
	}
)

func (s *statusValue) String() string { return string(*s) }

func (s *statusValue) Set(value string) error {
	for _, status := range allStatuses {
		if string(status) == value {
			*s = statusValue(status)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q, expected one of: %v", value, allStatuses)
}

func (s *statusValue) Type() string { return "status" }

func newRecordCommand() *cobra.Command {
	var (
		subject   string
		module    string
		duration  int
		summary   string
		challenge string
	)
	status := statusValue(progress.StatusFocused)

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record a study session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, repository := loadSessionLog(cfg)

			session, err := log.Record(progress.SessionInput{
				Subject:         subject,
				Module:          module,
				DurationMinutes: duration,
				Status:          progress.Status(status),
				Summary:         summary,
				Challenge:       challenge,
			}, time.Now())
			if err != nil {
				return err
			}

			if err := repository.Save(log.Sessions()); err != nil {
				return fmt.Errorf("repository.Save > %w", err)
			}

			fmt.Printf("已记录 %s / %s 的 %d 分钟学习，可信度：%s\n",
				session.Subject, session.Module, session.DurationMinutes, session.Credibility)
			return nil
		},
	}

	recordCmd.Flags().StringVar(&subject, "subject", "", "subject studied")
	recordCmd.Flags().StringVar(&module, "module", "", "module studied")
	recordCmd.Flags().IntVar(&duration, "minutes", 0, "duration in minutes")
	recordCmd.Flags().Var(&status, "status", "session status (focused, review, practice, problem-solving)")
	recordCmd.Flags().StringVar(&summary, "summary", "", "what was learned")
	recordCmd.Flags().StringVar(&challenge, "challenge", "", "what was difficult")
	_ = recordCmd.MarkFlagRequired("subject")
	_ = recordCmd.MarkFlagRequired("module")
	return recordCmd
}

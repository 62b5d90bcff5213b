package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/cli"
)

func newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [subject]",
		Short: "Generate a review plan for a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			advisor, err := newAdvisor()
			if err != nil {
				return err
			}

			plan, err := advisor.ReviewPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(plan)
			return nil
		},
	}
}

func newExercisesCommand() *cobra.Command {
	var (
		topic      string
		difficulty string
		count      int
	)
	exercisesCmd := &cobra.Command{
		Use:   "exercises [subject]",
		Short: "Generate practice problems for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			advisor, err := newAdvisor()
			if err != nil {
				return err
			}

			exercises, err := advisor.Exercises(cmd.Context(), args[0], topic, difficulty, count)
			if err != nil {
				return err
			}
			fmt.Println(exercises)
			return nil
		},
	}
	exercisesCmd.Flags().StringVar(&topic, "topic", "", "topic to generate problems for")
	exercisesCmd.Flags().StringVar(&difficulty, "difficulty", "中等", "problem difficulty")
	exercisesCmd.Flags().IntVar(&count, "count", 5, "number of problems")
	_ = exercisesCmd.MarkFlagRequired("topic")
	return exercisesCmd
}

func newAdvisor() (*cli.Advisor, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	remote, err := newRemoteStore(cfg)
	if err != nil {
		return nil, err
	}
	return cli.NewAdvisor(cli.NewPromptSource(remote, nil), newInferenceClient(cfg)), nil
}

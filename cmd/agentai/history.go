package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/cli"
)

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history [date]",
		Short: "List past conversations, or show the one for a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			remote, err := newRemoteStore(cfg)
			if err != nil {
				return err
			}
			history := cli.NewConversationHistory(cli.NewConversationStore(remote, nil), remote)

			if len(args) == 1 {
				messages, err := history.Messages(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cli.RenderConversation(os.Stdout, args[0], messages)
				return nil
			}

			dates, err := history.Dates(cmd.Context())
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				fmt.Println("还没有历史对话记录")
				return nil
			}
			fmt.Println("历史对话：")
			for _, date := range dates {
				fmt.Println(date)
			}
			return nil
		},
	}
}

func newMemoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "Analyze study history and suggest points to reinforce",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			remote, err := newRemoteStore(cfg)
			if err != nil {
				return err
			}

			advisor := cli.NewMemoryAdvisor(
				cli.NewConversationHistory(cli.NewConversationStore(remote, nil), remote),
				cli.NewPromptSource(remote, nil),
				newInferenceClient(cfg),
				nil,
			)
			points, err := advisor.GeneratePoints(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(points)
			return nil
		},
	}
}

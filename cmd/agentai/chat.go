package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/cli"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the learning assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			remote, err := newRemoteStore(cfg)
			if err != nil {
				return err
			}

			chat := cli.NewChat(
				cli.NewConversationStore(remote, nil),
				newInferenceClient(cfg),
			)
			return chat.RunInteractive(cmd.Context(), os.Stdin, os.Stdout)
		},
	}
}

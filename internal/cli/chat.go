// Package cli implements the interactive learning flows on top of the
// mastery model, the remote store, and the generation client.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/djantao/agentAI/internal/inference"
	"github.com/djantao/agentAI/internal/reconcile"
)

// ConversationStore persists one message log per day under the remote
// conversations directory.
type ConversationStore struct {
	remote reconcile.RemoteStore
	logger *slog.Logger
}

func NewConversationStore(remote reconcile.RemoteStore, logger *slog.Logger) *ConversationStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationStore{remote: remote, logger: logger}
}

func conversationPath(day time.Time) string {
	return fmt.Sprintf("conversations/%s.json", day.Format("2006-01-02"))
}

// Load returns the day's messages. Absence and malformed content both yield
// an empty conversation.
func (s *ConversationStore) Load(ctx context.Context, day time.Time) []inference.Message {
	content, found, err := s.remote.GetContent(ctx, conversationPath(day))
	if err != nil {
		s.logger.Warn("failed to load conversation, starting empty", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var messages []inference.Message
	if err := json.Unmarshal([]byte(content), &messages); err != nil {
		s.logger.Warn("malformed conversation treated as empty", "error", err)
		return nil
	}
	return messages
}

// Save writes the day's messages back, best-effort.
func (s *ConversationStore) Save(ctx context.Context, day time.Time, messages []inference.Message) {
	contents, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		s.logger.Warn("failed to serialize conversation", "error", err)
		return
	}
	if err := s.remote.PutContent(ctx, conversationPath(day), string(contents), "Update conversation"); err != nil {
		s.logger.Warn("failed to save conversation", "error", err)
	}
}

// Chat drives one conversational exchange at a time, keeping the rolling
// window of recent turns as generation context.
type Chat struct {
	store     *ConversationStore
	inference inference.Client
	clock     func() time.Time
}

func NewChat(store *ConversationStore, inferenceClient inference.Client) *Chat {
	return &Chat{
		store:     store,
		inference: inferenceClient,
		clock:     time.Now,
	}
}

// Send appends the user's message to today's conversation, generates a
// reply, and persists the updated log. The conversation is capped to the
// most recent turns before the new message is added.
func (c *Chat) Send(ctx context.Context, input string) (string, error) {
	now := c.clock()
	messages := c.store.Load(ctx, now)
	messages = inference.Truncate(messages, inference.MaxConversationTurns)
	messages = append(messages, inference.Message{Role: inference.RoleUser, Content: input})

	reply, err := c.inference.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("inference.Generate > %w", err)
	}

	messages = append(messages, inference.Message{Role: inference.RoleAssistant, Content: reply})
	c.store.Save(ctx, now, messages)
	return reply, nil
}

// RunInteractive reads lines until EOF or an exit word, printing each reply.
func (c *Chat) RunInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	prompt := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(out, "开始对话吧（输入 exit 退出）")
	for {
		fmt.Fprint(out, prompt("你: "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "退出" {
			return nil
		}

		reply, err := c.Send(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "生成回复失败: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "助手: %s\n", reply)
	}
}

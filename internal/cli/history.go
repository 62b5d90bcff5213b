package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/djantao/agentAI/internal/inference"
)

// ConversationLister lists stored conversation file names.
type ConversationLister interface {
	ListNames(ctx context.Context, dir string) ([]string, error)
}

// ConversationHistory reads back past daily conversations.
type ConversationHistory struct {
	store  *ConversationStore
	lister ConversationLister
}

func NewConversationHistory(store *ConversationStore, lister ConversationLister) *ConversationHistory {
	return &ConversationHistory{store: store, lister: lister}
}

// Dates returns the stored conversation dates, newest first. Entries that
// are not date-named are skipped.
func (h *ConversationHistory) Dates(ctx context.Context) ([]string, error) {
	names, err := h.lister.ListNames(ctx, "conversations")
	if err != nil {
		return nil, fmt.Errorf("lister.ListNames > %w", err)
	}

	dates := make([]string, 0, len(names))
	for _, name := range names {
		date := strings.TrimSuffix(name, ".json")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// Messages returns the stored conversation for one date.
func (h *ConversationHistory) Messages(ctx context.Context, date string) ([]inference.Message, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("无法识别日期 %q，请使用 2006-01-02 格式", date)
	}
	return h.store.Load(ctx, day), nil
}

// Transcript renders every stored conversation as one role-labelled text
// block per date, oldest first.
func (h *ConversationHistory) Transcript(ctx context.Context) (string, error) {
	dates, err := h.Dates(ctx)
	if err != nil {
		return "", err
	}
	sort.Strings(dates)

	var builder strings.Builder
	for _, date := range dates {
		messages, err := h.Messages(ctx, date)
		if err != nil || len(messages) == 0 {
			continue
		}
		fmt.Fprintf(&builder, "\n=== %s ===\n%s\n", date, formatTranscript(messages))
	}
	return builder.String(), nil
}

func formatTranscript(messages []inference.Message) string {
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		role := "助手"
		if message.Role == inference.RoleUser {
			role = "用户"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, message.Content))
	}
	return strings.Join(lines, "\n")
}

// RenderConversation prints one stored conversation.
func RenderConversation(out io.Writer, date string, messages []inference.Message) {
	fmt.Fprintf(out, "=== %s ===\n", date)
	if len(messages) == 0 {
		fmt.Fprintln(out, "（当天没有对话记录）")
		return
	}
	fmt.Fprintln(out, formatTranscript(messages))
}

// MemoryAdvisor analyzes the whole conversation history against the
// forgetting-curve guidance and produces the points worth reinforcing.
type MemoryAdvisor struct {
	history   *ConversationHistory
	prompts   *PromptSource
	inference inference.Client
	logger    *slog.Logger
}

func NewMemoryAdvisor(history *ConversationHistory, prompts *PromptSource, inferenceClient inference.Client, logger *slog.Logger) *MemoryAdvisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryAdvisor{
		history:   history,
		prompts:   prompts,
		inference: inferenceClient,
		logger:    logger,
	}
}

// GeneratePoints builds the review-advice prompt over the full history and
// asks the generation service for the knowledge points to reinforce.
func (a *MemoryAdvisor) GeneratePoints(ctx context.Context) (string, error) {
	transcript, err := a.history.Transcript(ctx)
	if err != nil {
		return "", fmt.Errorf("history.Transcript > %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("没有学习历史记录，无法分析需要加强记忆的知识点")
	}

	forgettingCurve, err := a.prompts.Get(ctx, "forgetting_curve")
	if err != nil {
		return "", fmt.Errorf("prompts.Get > %w", err)
	}

	prompt := fmt.Sprintf(
		"作为一个学习顾问，基于以下学习历史记录和遗忘曲线原理，分析并生成需要加强记忆的知识点：\n\n"+
			"学习历史记录：\n%s\n\n遗忘曲线原理：\n%s\n\n"+
			"请列出最需要复习的知识点，说明原因，并给出建议的复习时间。",
		transcript, forgettingCurve)

	points, err := a.inference.Generate(ctx, []inference.Message{
		{Role: inference.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("inference.Generate > %w", err)
	}
	return points, nil
}

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/djantao/agentAI/internal/assets"
	"github.com/djantao/agentAI/internal/reconcile"
)

// PromptSource resolves prompt templates, preferring the user's customized
// copies in the remote store over the embedded defaults.
type PromptSource struct {
	remote reconcile.RemoteStore
	logger *slog.Logger
}

func NewPromptSource(remote reconcile.RemoteStore, logger *slog.Logger) *PromptSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptSource{remote: remote, logger: logger}
}

// Get returns the prompt template for a name like "feynman".
func (s *PromptSource) Get(ctx context.Context, name string) (string, error) {
	if s.remote != nil {
		content, found, err := s.remote.GetContent(ctx, fmt.Sprintf("prompts/%s.md", name))
		if err != nil {
			s.logger.Warn("failed to fetch remote prompt, using embedded default", "name", name, "error", err)
		} else if found && content != "" {
			return content, nil
		}
	}
	return assets.DefaultPrompt(name)
}

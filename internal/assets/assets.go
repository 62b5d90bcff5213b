// Package assets embeds the built-in prompt templates used when the remote
// prompts directory has no customized copy.
package assets

import (
	"embed"
	"fmt"
)

//go:embed prompts/*.md
var prompts embed.FS

// PromptNames are the templates shipped with the binary.
var PromptNames = []string{"feynman", "learning_efficiency", "forgetting_curve"}

// DefaultPrompt returns the embedded template for a prompt name.
func DefaultPrompt(name string) (string, error) {
	contents, err := prompts.ReadFile(fmt.Sprintf("prompts/%s.md", name))
	if err != nil {
		return "", fmt.Errorf("prompts.ReadFile > %w", err)
	}
	return string(contents), nil
}

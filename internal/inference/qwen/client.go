// Package qwen calls the DashScope text-generation service through a
// configured proxy endpoint.
package qwen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"resty.dev/v3"

	"github.com/djantao/agentAI/internal/inference"
)

// NotConfiguredText is returned by Generate when no proxy endpoint is
// configured. It is a fixed notice, not an error: callers can tell
// "not configured" apart from a network failure.
const NotConfiguredText = "未配置代理服务器，无法调用生成服务。请在配置中设置 ai.proxy_url，请求内容已输出到日志。"

type Client struct {
	httpClient *resty.Client
	proxyURL   string
	apiKey     string
	model      string
}

func NewClient(proxyURL, apiKey, model string) *Client {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		proxyURL:   proxyURL,
		apiKey:     apiKey,
		model:      model,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

// GenerateRequest is the proxy wire format.
type GenerateRequest struct {
	Messages []inference.Message `json:"messages"`
	APIKey   string              `json:"apiKey"`
	Model    string              `json:"model"`
}

// GenerateResponse mirrors the DashScope text-generation response shape.
type GenerateResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	RequestID string `json:"request_id"`
}

// Generate implements the inference.Client interface. One round trip, no
// retry; any non-success status or transport error is returned as an error
// and the caller renders its own fallback text.
func (client *Client) Generate(ctx context.Context, messages []inference.Message) (string, error) {
	if client.proxyURL == "" {
		slog.Default().Info("generation proxy not configured, request skipped",
			"model", client.model,
			"prompt", FormatPrompt(messages),
		)
		return NotConfiguredText, nil
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(GenerateRequest{
			Messages: messages,
			APIKey:   client.apiKey,
			Model:    client.model,
		}).
		SetResult(&GenerateResponse{}).
		Post(client.proxyURL)
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*GenerateResponse)
	if responseBody == nil || responseBody.Output.Text == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("qwen response content",
		"messageCount", len(messages),
		"response", responseBody,
	)
	return responseBody.Output.Text, nil
}

// FormatPrompt renders role-tagged messages in the single-prompt format the
// DashScope text endpoint expects.
func FormatPrompt(messages []inference.Message) string {
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

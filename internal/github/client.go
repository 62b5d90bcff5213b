// Package github wraps the GitHub contents API as a path-addressed blob store.
// Reads return absent on not-found; updates carry the blob sha from a prior
// read to satisfy the API's optimistic-concurrency requirement.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	httpClient *resty.Client
	owner      string
	repo       string
}

func NewClient(token, owner, repo string) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.github.com")
	client.SetHeader("Authorization", "token "+token)
	client.SetHeader("Accept", "application/vnd.github.v3+json")

	return &Client{
		httpClient: client,
		owner:      owner,
		repo:       repo,
	}
}

// File is a decoded blob together with its change token.
type File struct {
	Content string
	SHA     string
}

// Entry is a single listing item of a directory path.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

func (client *Client) contentsPath(path string) string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", client.owner, client.repo, path)
}

// GetFile fetches and decodes a blob. A missing path returns (nil, nil).
func (client *Client) GetFile(ctx context.Context, path string) (*File, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetResult(&contentResponse{}).
		Get(client.contentsPath(path))
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*contentResponse)
	decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(responseBody.Content))
	if err != nil {
		return nil, fmt.Errorf("base64.DecodeString > %w", err)
	}
	return &File{
		Content: string(decoded),
		SHA:     responseBody.SHA,
	}, nil
}

// PutFile writes a blob, creating it when absent and overwriting it when
// present (last write wins). The change token of the existing blob, if any,
// is attached to the update.
func (client *Client) PutFile(ctx context.Context, path, content, message string) error {
	existing, err := client.GetFile(ctx, path)
	if err != nil {
		return fmt.Errorf("client.GetFile > %w", err)
	}

	body := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
	}
	if existing != nil {
		body.SHA = existing.SHA
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Put(client.contentsPath(path))
	if err != nil {
		return fmt.Errorf("httpClient.Put > %w", err)
	}
	if response.IsError() {
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return nil
}

// ListDirectory lists the entries under a directory path. A missing
// directory returns an empty listing.
func (client *Client) ListDirectory(ctx context.Context, path string) ([]Entry, error) {
	var entries []Entry
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetResult(&entries).
		Get(client.contentsPath(path))
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return entries, nil
}

// EnsureDirectory coaxes the store into creating a missing directory by
// touching a placeholder entry inside it. The contents API has no mkdir; this
// is a workaround, not a guarantee.
func (client *Client) EnsureDirectory(ctx context.Context, dir string) error {
	placeholder := strings.TrimSuffix(dir, "/") + "/.gitkeep"
	if err := client.PutFile(ctx, placeholder, "", fmt.Sprintf("Create directory: %s", dir)); err != nil {
		return fmt.Errorf("client.PutFile(%s) > %w", placeholder, err)
	}
	return nil
}

// The API returns base64 with embedded newlines.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}

// Package notion reads study session rows from a Notion database so they can
// be merged into the local session log.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const apiVersion = "2022-06-28"

// Client queries one Notion database through the official REST API, or a
// proxy that forwards to it.
type Client struct {
	httpClient *resty.Client
	databaseID string
}

func NewClient(apiKey, databaseID string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL("https://api.notion.com/v1").
			SetHeader("Authorization", "Bearer "+apiKey).
			SetHeader("Notion-Version", apiVersion),
		databaseID: databaseID,
	}
}

// NewProxyClient routes database queries through the proxy's /notion prefix,
// so the API key stays on the proxy.
func NewProxyClient(proxyURL, databaseID string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimSuffix(proxyURL, "/") + "/notion"),
		databaseID: databaseID,
	}
}

// Row is one study session as stored in the database.
type Row struct {
	ID              string
	Date            time.Time
	Subject         string
	Module          string
	DurationMinutes int
	Status          string
	Credibility     string
	Summary         string
	Challenge       string
}

type queryRequest struct {
	Filter      *queryFilter `json:"filter,omitempty"`
	StartCursor string       `json:"start_cursor,omitempty"`
	PageSize    int          `json:"page_size,omitempty"`
}

type queryFilter struct {
	And []propertyFilter `json:"and"`
}

type propertyFilter struct {
	Property string      `json:"property"`
	Date     *dateFilter `json:"date,omitempty"`
}

type dateFilter struct {
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Title    []richText `json:"title"`
	RichText []richText `json:"rich_text"`
	Number   float64    `json:"number"`
	Select   *selection `json:"select"`
	Date     *dateValue `json:"date"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type selection struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

// QuerySessions fetches rows whose date falls in [since, until], following
// pagination until the last page.
func (client *Client) QuerySessions(ctx context.Context, since, until time.Time) ([]Row, error) {
	request := queryRequest{
		Filter: &queryFilter{
			And: []propertyFilter{
				{Property: "Date", Date: &dateFilter{OnOrAfter: since.Format("2006-01-02")}},
				{Property: "Date", Date: &dateFilter{OnOrBefore: until.Format("2006-01-02")}},
			},
		},
		PageSize: 100,
	}

	var rows []Row
	for {
		var response queryResponse
		res, err := client.httpClient.R().
			SetContext(ctx).
			SetBody(request).
			SetResult(&response).
			Post(fmt.Sprintf("/databases/%s/query", client.databaseID))
		if err != nil {
			return nil, fmt.Errorf("httpClient.Post > %w", err)
		}
		if res.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
		}

		for _, p := range response.Results {
			rows = append(rows, pageToRow(p))
		}
		if !response.HasMore {
			return rows, nil
		}
		request.StartCursor = response.NextCursor
	}
}

func pageToRow(p page) Row {
	row := Row{ID: p.ID}
	for name, prop := range p.Properties {
		switch name {
		case "Subject":
			row.Subject = plainText(prop.Title)
			if row.Subject == "" {
				row.Subject = plainText(prop.RichText)
			}
		case "Module":
			row.Module = plainText(prop.RichText)
		case "Duration":
			row.DurationMinutes = int(prop.Number)
		case "Status":
			if prop.Select != nil {
				row.Status = prop.Select.Name
			}
		case "Credibility":
			if prop.Select != nil {
				row.Credibility = prop.Select.Name
			}
		case "Summary":
			row.Summary = plainText(prop.RichText)
		case "Challenge":
			row.Challenge = plainText(prop.RichText)
		case "Date":
			if prop.Date != nil {
				if parsed, err := time.Parse("2006-01-02", prop.Date.Start); err == nil {
					row.Date = parsed
				} else if parsed, err := time.Parse(time.RFC3339, prop.Date.Start); err == nil {
					row.Date = parsed
				}
			}
		}
	}
	return row
}

func plainText(texts []richText) string {
	parts := make([]string, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, text.PlainText)
	}
	return strings.Join(parts, "")
}

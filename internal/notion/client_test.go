package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_QuerySessions(t *testing.T) {
	firstPage := `{
		"results": [
			{
				"id": "row-1",
				"properties": {
					"Subject": {"title": [{"plain_text": "操作系统"}]},
					"Module": {"rich_text": [{"plain_text": "进程调度"}]},
					"Duration": {"number": 45},
					"Status": {"select": {"name": "focused"}},
					"Credibility": {"select": {"name": "high"}},
					"Summary": {"rich_text": [{"plain_text": "时间片"}, {"plain_text": "轮转"}]},
					"Date": {"date": {"start": "2026-08-30"}}
				}
			}
		],
		"has_more": true,
		"next_cursor": "cursor-2"
	}`
	secondPage := `{
		"results": [
			{
				"id": "row-2",
				"properties": {
					"Subject": {"title": [{"plain_text": "数学"}]},
					"Date": {"date": {"start": "2026-08-31T20:00:00.000+08:00"}}
				}
			}
		],
		"has_more": false
	}`

	var requests []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var parsed map[string]any
		require.NoError(t, json.Unmarshal(body, &parsed))
		requests = append(requests, parsed)

		w.Header().Set("Content-Type", "application/json")
		if len(requests) == 1 {
			_, _ = w.Write([]byte(firstPage))
			return
		}
		_, _ = w.Write([]byte(secondPage))
	}))
	defer server.Close()

	client := &Client{
		httpClient: resty.New().
			SetBaseURL(server.URL).
			SetHeader("Notion-Version", apiVersion),
		databaseID: "db-1",
	}

	since := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	rows, err := client.QuerySessions(context.Background(), since, until)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		ID:              "row-1",
		Date:            time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Subject:         "操作系统",
		Module:          "进程调度",
		DurationMinutes: 45,
		Status:          "focused",
		Credibility:     "high",
		Summary:         "时间片轮转",
	}, rows[0])
	assert.Equal(t, "row-2", rows[1].ID)
	assert.Equal(t, "数学", rows[1].Subject)

	// The second request resumes from the cursor the first page returned.
	require.Len(t, requests, 2)
	assert.Equal(t, "cursor-2", requests[1]["start_cursor"])
	filter := requests[0]["filter"].(map[string]any)["and"].([]any)
	assert.Len(t, filter, 2)
}

func TestClient_QuerySessions_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "API token is invalid."}`))
	}))
	defer server.Close()

	client := &Client{
		httpClient: resty.New().SetBaseURL(server.URL),
		databaseID: "db-1",
	}

	_, err := client.QuerySessions(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code: 401")
}

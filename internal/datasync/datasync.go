// Package datasync merges externally synced study sessions into the local
// log and exports local state for backup.
package datasync

import (
	"strings"
	"time"

	"github.com/djantao/agentAI/internal/notion"
	"github.com/djantao/agentAI/internal/progress"
)

// MergeResult tracks counts for one merge operation.
type MergeResult struct {
	Added   int
	Skipped int
}

// MergeSessions appends synced rows the local log has not seen yet,
// de-duplicated by the row identifier. Rows keep their synced credibility
// when present, otherwise it is recomputed from the local heuristic.
func MergeSessions(log *progress.SessionLog, rows []notion.Row) MergeResult {
	var result MergeResult
	for _, row := range rows {
		session := rowToSession(row)
		if log.Append(session) {
			result.Added++
		} else {
			result.Skipped++
		}
	}
	return result
}

func rowToSession(row notion.Row) progress.StudySession {
	status := progress.Status(strings.ToLower(row.Status))
	credibility := progress.Credibility(strings.ToLower(row.Credibility))
	if credibility == "" {
		credibility = progress.CredibilityForScore(
			progress.ScoreSession(row.DurationMinutes, row.Summary, status))
	}

	return progress.StudySession{
		ID:              row.Date.UnixMilli(),
		Subject:         row.Subject,
		Module:          row.Module,
		DurationMinutes: row.DurationMinutes,
		Status:          status,
		Summary:         row.Summary,
		Challenge:       row.Challenge,
		Timestamp:       row.Date,
		Credibility:     credibility,
		NotionID:        row.ID,
	}
}

// SyncWindow returns the date range a periodic pull should cover.
func SyncWindow(now time.Time, days int) (time.Time, time.Time) {
	if days <= 0 {
		days = 7
	}
	return now.AddDate(0, 0, -days), now
}

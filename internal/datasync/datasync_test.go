package datasync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djantao/agentAI/internal/notion"
	"github.com/djantao/agentAI/internal/progress"
)

func TestMergeSessions(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	log := progress.NewSessionLog([]progress.StudySession{
		{ID: 1, Subject: "数学", Module: "微积分", NotionID: "row-1"},
	})

	result := MergeSessions(log, []notion.Row{
		{ID: "row-1", Date: day, Subject: "数学", Module: "微积分"},
		{
			ID:              "row-2",
			Date:            day.AddDate(0, 0, 1),
			Subject:         "操作系统",
			Module:          "进程调度",
			DurationMinutes: 45,
			Status:          "Focused",
			Credibility:     "High",
			Summary:         "时间片轮转",
		},
		{
			ID:              "row-3",
			Date:            day.AddDate(0, 0, 1),
			Subject:         "操作系统",
			Module:          "内存管理",
			DurationMinutes: 10,
		},
	})

	assert.Equal(t, MergeResult{Added: 2, Skipped: 1}, result)

	sessions := log.Sessions()
	require.Len(t, sessions, 3)

	merged := sessions[1]
	assert.Equal(t, "row-2", merged.NotionID)
	assert.Equal(t, progress.StatusFocused, merged.Status)
	assert.Equal(t, progress.CredibilityHigh, merged.Credibility)

	// A row without a synced credibility gets the local heuristic.
	recomputed := sessions[2]
	assert.Equal(t, progress.CredibilityLow, recomputed.Credibility)
}

func TestSyncWindow(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	since, until := SyncWindow(now, 30)
	assert.Equal(t, now.AddDate(0, 0, -30), since)
	assert.Equal(t, now, until)

	since, _ = SyncWindow(now, 0)
	assert.Equal(t, now.AddDate(0, 0, -7), since)
}

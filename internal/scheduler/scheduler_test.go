package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djantao/agentAI/internal/progress"
)

type recordingNotifier struct {
	titles []string
	bodies []string
}

func (n *recordingNotifier) Notify(title, body string) {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
}

type stubSource struct {
	minutes int
	latest  map[progress.Topic]time.Time
}

func (s stubSource) MinutesOn(time.Time) int                       { return s.minutes }
func (s stubSource) LatestByTopic() map[progress.Topic]time.Time { return s.latest }

func TestScheduler_DailyReminder(t *testing.T) {
	at := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		settings Settings
		minutes  int
		now      time.Time
		expected []string
	}{
		{
			name:     "fires below the study floor at the configured minute",
			settings: Settings{DailyEnabled: true, DailyTime: "20:00", DailyMinimumMinutes: 30},
			minutes:  10,
			now:      at,
			expected: []string{"学习提醒"},
		},
		{
			name:     "quiet when the floor is met",
			settings: Settings{DailyEnabled: true, DailyTime: "20:00", DailyMinimumMinutes: 30},
			minutes:  45,
			now:      at,
		},
		{
			name:     "quiet at another minute",
			settings: Settings{DailyEnabled: true, DailyTime: "20:00", DailyMinimumMinutes: 30},
			minutes:  0,
			now:      at.Add(5 * time.Minute),
		},
		{
			name:     "quiet when disabled",
			settings: Settings{DailyTime: "20:00", DailyMinimumMinutes: 30},
			minutes:  0,
			now:      at,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			s := New(tc.settings, stubSource{minutes: tc.minutes}, notifier, nil)

			s.tick(tc.now)

			assert.Equal(t, tc.expected, notifier.titles)
		})
	}
}

func TestScheduler_DailyReminder_FiresOncePerDay(t *testing.T) {
	at := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}
	s := New(Settings{DailyEnabled: true, DailyTime: "20:00", DailyMinimumMinutes: 30}, stubSource{minutes: 5}, notifier, nil)

	s.tick(at)
	s.tick(at.Add(30 * time.Second))
	s.tick(at.AddDate(0, 0, 1))

	assert.Len(t, notifier.titles, 2)
}

func TestScheduler_ReviewReminder(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	source := stubSource{
		latest: map[progress.Topic]time.Time{
			{Subject: "数学", Module: "微积分"}:  now.AddDate(0, 0, -5),
			{Subject: "操作系统", Module: "调度"}: now.AddDate(0, 0, -1),
			{Subject: "英语", Module: "听力"}:   now.AddDate(0, 0, -3),
		},
	}

	notifier := &recordingNotifier{}
	s := New(Settings{ReviewEnabled: true, ReviewAfterDays: 3}, source, notifier, nil)

	due := s.DueTopics(now)
	require.Len(t, due, 2)
	assert.Equal(t, progress.Topic{Subject: "数学", Module: "微积分"}, due[0])
	assert.Equal(t, progress.Topic{Subject: "英语", Module: "听力"}, due[1])

	s.tick(now)
	require.Len(t, notifier.titles, 1)
	assert.Equal(t, "复习提醒", notifier.titles[0])
	assert.Contains(t, notifier.bodies[0], "数学 / 微积分")

	// Second tick on the same day stays quiet.
	s.tick(now.Add(time.Minute))
	assert.Len(t, notifier.titles, 1)
}

func TestScheduler_ReviewReminder_NothingDue(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}
	s := New(Settings{ReviewEnabled: true, ReviewAfterDays: 3}, stubSource{
		latest: map[progress.Topic]time.Time{
			{Subject: "数学", Module: "微积分"}: now.AddDate(0, 0, -1),
		},
	}, notifier, nil)

	s.tick(now)

	assert.Empty(t, notifier.titles)
}

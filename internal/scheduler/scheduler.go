// Package scheduler drives the periodic reminder checks. It implements two
// independent policies: a daily study-floor reminder and an elapsed-days
// review reminder over the flat session log. Both are coarser than the
// mastery-driven per-module review queue and intentionally kept separate
// from it.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/djantao/agentAI/internal/progress"
)

// Notifier delivers a fire-and-forget reminder to the user.
type Notifier interface {
	Notify(title, body string)
}

// SessionSource is the view of the session log the scheduler reads.
type SessionSource interface {
	MinutesOn(day time.Time) int
	LatestByTopic() map[progress.Topic]time.Time
}

// Settings configure the two reminder policies.
type Settings struct {
	DailyEnabled        bool
	DailyTime           string // "HH:MM", minute granularity
	DailyMinimumMinutes int
	ReviewEnabled       bool
	ReviewAfterDays     int
	CheckInterval       time.Duration
}

// DefaultSettings mirror the reminder defaults a new user starts with.
func DefaultSettings() Settings {
	return Settings{
		DailyEnabled:        true,
		DailyTime:           "20:00",
		DailyMinimumMinutes: 30,
		ReviewEnabled:       true,
		ReviewAfterDays:     3,
		CheckInterval:       time.Minute,
	}
}

// Scheduler evaluates reminder conditions on a fixed period. Each policy
// fires at most once per day.
type Scheduler struct {
	settings Settings
	source   SessionSource
	notifier Notifier
	logger   *slog.Logger
	clock    func() time.Time

	lastDailyFired  string
	lastReviewFired string
}

func New(settings Settings, source SessionSource, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.CheckInterval <= 0 {
		settings.CheckInterval = time.Minute
	}
	return &Scheduler{
		settings: settings,
		source:   source,
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
	}
}

// Run blocks until the context is done, evaluating both policies every tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.settings.CheckInterval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started",
		"daily", s.settings.DailyEnabled,
		"review", s.settings.ReviewEnabled,
		"interval", s.settings.CheckInterval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(s.clock())
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	s.checkDaily(now)
	s.checkReview(now)
}

func (s *Scheduler) checkDaily(now time.Time) {
	if !s.settings.DailyEnabled {
		return
	}

	day := now.Format("2006-01-02")
	if s.lastDailyFired == day {
		return
	}
	if now.Format("15:04") != s.settings.DailyTime {
		return
	}

	minutes := s.source.MinutesOn(now)
	if minutes >= s.settings.DailyMinimumMinutes {
		s.lastDailyFired = day
		return
	}

	s.lastDailyFired = day
	s.notifier.Notify("学习提醒",
		fmt.Sprintf("今天已学习 %d 分钟，距离目标还差 %d 分钟，继续加油！",
			minutes, s.settings.DailyMinimumMinutes-minutes))
}

func (s *Scheduler) checkReview(now time.Time) {
	if !s.settings.ReviewEnabled {
		return
	}

	day := now.Format("2006-01-02")
	if s.lastReviewFired == day {
		return
	}

	due := s.DueTopics(now)
	if len(due) == 0 {
		return
	}

	s.lastReviewFired = day
	names := make([]string, 0, len(due))
	for _, topic := range due {
		names = append(names, topic.String())
	}
	s.notifier.Notify("复习提醒",
		fmt.Sprintf("以下内容已超过 %d 天未复习：%s",
			s.settings.ReviewAfterDays, strings.Join(names, "、")))
}

// DueTopics lists subject/module pairs whose last study is at least
// ReviewAfterDays ago, sorted for deterministic output.
func (s *Scheduler) DueTopics(now time.Time) []progress.Topic {
	threshold := s.settings.ReviewAfterDays
	if threshold <= 0 {
		threshold = 3
	}

	var due []progress.Topic
	for topic, last := range s.source.LatestByTopic() {
		elapsed := int(now.Sub(last).Hours() / 24)
		if elapsed >= threshold {
			due = append(due, topic)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Subject != due[j].Subject {
			return due[i].Subject < due[j].Subject
		}
		return due[i].Module < due[j].Module
	})
	return due
}

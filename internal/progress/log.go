package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Topic identifies a subject/module pair in the flat session log.
type Topic struct {
	Subject string
	Module  string
}

func (t Topic) String() string {
	if t.Module == "" {
		return t.Subject
	}
	return fmt.Sprintf("%s / %s", t.Subject, t.Module)
}

// Aggregate summarizes the sessions inside a time window.
type Aggregate struct {
	TotalMinutes int
	SessionCount int
}

// SessionLog is the in-memory append-only session store. Safe for use from
// the CLI flow and the reminder scheduler at the same time.
type SessionLog struct {
	mu       sync.Mutex
	sessions []StudySession
	lastID   int64
	validate *validator.Validate
}

func NewSessionLog(sessions []StudySession) *SessionLog {
	l := &SessionLog{
		sessions: append([]StudySession(nil), sessions...),
		validate: validator.New(),
	}
	for _, s := range l.sessions {
		if s.ID > l.lastID {
			l.lastID = s.ID
		}
	}
	return l
}

// Record validates the input, scores its credibility and appends a session.
// A missing subject or module is a user-facing validation error; no I/O has
// happened by then.
func (l *SessionLog) Record(input SessionInput, now time.Time) (StudySession, error) {
	if err := l.validate.Struct(input); err != nil {
		return StudySession{}, fmt.Errorf("学习记录缺少必填字段（科目、模块）: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id

	session := StudySession{
		ID:              id,
		Subject:         input.Subject,
		Module:          input.Module,
		DurationMinutes: input.DurationMinutes,
		Status:          input.Status,
		Summary:         input.Summary,
		Challenge:       input.Challenge,
		Timestamp:       now,
		Credibility:     CredibilityForScore(ScoreSession(input.DurationMinutes, input.Summary, input.Status)),
	}
	l.sessions = append(l.sessions, session)
	return session, nil
}

// Append adds an already-built session, used when merging synced rows.
// Returns false when the session's NotionID is already present.
func (l *SessionLog) Append(session StudySession) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if session.NotionID != "" {
		for _, existing := range l.sessions {
			if existing.NotionID == session.NotionID {
				return false
			}
		}
	}
	if session.ID <= l.lastID {
		session.ID = l.lastID + 1
	}
	l.lastID = session.ID
	l.sessions = append(l.sessions, session)
	return true
}

// Sessions returns a copy of the log in append order.
func (l *SessionLog) Sessions() []StudySession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]StudySession(nil), l.sessions...)
}

// AggregateWindow sums durations for sessions within the last windowDays.
// windowDays <= 0 means the whole log.
func (l *SessionLog) AggregateWindow(windowDays int, now time.Time) Aggregate {
	l.mu.Lock()
	defer l.mu.Unlock()

	var cutoff time.Time
	if windowDays > 0 {
		cutoff = now.AddDate(0, 0, -windowDays)
	}

	var agg Aggregate
	for _, s := range l.sessions {
		if windowDays > 0 && s.Timestamp.Before(cutoff) {
			continue
		}
		agg.TotalMinutes += s.DurationMinutes
		agg.SessionCount++
	}
	return agg
}

// OverallCredibility averages the most recent 10 sessions. An empty log
// defaults to high so a new user is not discouraged.
func (l *SessionLog) OverallCredibility() Credibility {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.sessions) == 0 {
		return CredibilityHigh
	}

	recent := l.sessions
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	total := 0
	for _, s := range recent {
		total += credibilityPoints(s.Credibility)
	}
	average := float64(total) / float64(len(recent))

	switch {
	case average >= 2.5:
		return CredibilityHigh
	case average >= 1.5:
		return CredibilityMedium
	default:
		return CredibilityLow
	}
}

// MinutesOn sums today's durations for the reminder floor check.
func (l *SessionLog) MinutesOn(day time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	year, month, date := day.Date()
	minutes := 0
	for _, s := range l.sessions {
		sy, sm, sd := s.Timestamp.Date()
		if sy == year && sm == month && sd == date {
			minutes += s.DurationMinutes
		}
	}
	return minutes
}

// LatestByTopic maps each subject/module pair to its most recent study time.
func (l *SessionLog) LatestByTopic() map[Topic]time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	latest := make(map[Topic]time.Time)
	for _, s := range l.sessions {
		key := Topic{Subject: s.Subject, Module: s.Module}
		if s.Timestamp.After(latest[key]) {
			latest[key] = s.Timestamp
		}
	}
	return latest
}

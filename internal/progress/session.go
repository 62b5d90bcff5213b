// Package progress keeps the append-only log of self-reported study sessions
// and the heuristic credibility score attached to each record.
package progress

import (
	"time"
	"unicode/utf8"
)

// Status classifies how a study session was spent.
type Status string

const (
	StatusFocused        Status = "focused"
	StatusReview         Status = "review"
	StatusPractice       Status = "practice"
	StatusProblemSolving Status = "problem-solving"
)

// Credibility is the confidence bucket attached to a session record.
type Credibility string

const (
	CredibilityLow    Credibility = "low"
	CredibilityMedium Credibility = "medium"
	CredibilityHigh   Credibility = "high"
)

// StudySession is immutable once recorded and never deleted by the system.
type StudySession struct {
	ID              int64       `json:"id"`
	Subject         string      `json:"subject"`
	Module          string      `json:"module"`
	DurationMinutes int         `json:"durationMinutes"`
	Status          Status      `json:"status"`
	Summary         string      `json:"summary"`
	Challenge       string      `json:"challenge"`
	Timestamp       time.Time   `json:"timestamp"`
	Credibility     Credibility `json:"credibility"`

	// NotionID is the synced-database row identifier, set only for sessions
	// imported from the external store. Used for de-duplication.
	NotionID string `json:"notionId,omitempty"`
}

// SessionInput is the user-supplied part of a session record.
type SessionInput struct {
	Subject         string `validate:"required"`
	Module          string `validate:"required"`
	DurationMinutes int    `validate:"min=0"`
	Status          Status
	Summary         string
	Challenge       string
}

// ScoreSession sums three independent signals to a 0-80 scale: duration
// thresholds, summary length thresholds, and a status bonus.
func ScoreSession(durationMinutes int, summary string, status Status) int {
	score := 0

	switch {
	case durationMinutes >= 30:
		score += 30
	case durationMinutes >= 15:
		score += 20
	case durationMinutes >= 5:
		score += 10
	}

	length := utf8.RuneCountInString(summary)
	switch {
	case length >= 200:
		score += 30
	case length >= 100:
		score += 20
	case length >= 50:
		score += 10
	case length > 0:
		score += 5
	}

	switch status {
	case StatusFocused, StatusPractice:
		score += 20
	case StatusReview, StatusProblemSolving:
		score += 15
	}

	return score
}

// CredibilityForScore maps a 0-80 score to a bucket.
func CredibilityForScore(score int) Credibility {
	switch {
	case score >= 70:
		return CredibilityHigh
	case score >= 50:
		return CredibilityMedium
	default:
		return CredibilityLow
	}
}

func credibilityPoints(c Credibility) int {
	switch c {
	case CredibilityHigh:
		return 3
	case CredibilityMedium:
		return 2
	default:
		return 1
	}
}

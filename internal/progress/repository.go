package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines operations for managing persisted study sessions.
type Repository interface {
	FindAll(ctx context.Context) ([]StudySession, error)
	FindSince(ctx context.Context, since time.Time) ([]StudySession, error)
	Create(ctx context.Context, session *StudySession) error
}

type sessionRow struct {
	ID              int64     `db:"id"`
	Subject         string    `db:"subject"`
	Module          string    `db:"module"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	Summary         string    `db:"summary"`
	Challenge       string    `db:"challenge"`
	Timestamp       time.Time `db:"timestamp"`
	Credibility     string    `db:"credibility"`
	NotionID        string    `db:"notion_id"`
}

func (r sessionRow) toSession() StudySession {
	return StudySession{
		ID:              r.ID,
		Subject:         r.Subject,
		Module:          r.Module,
		DurationMinutes: r.DurationMinutes,
		Status:          Status(r.Status),
		Summary:         r.Summary,
		Challenge:       r.Challenge,
		Timestamp:       r.Timestamp,
		Credibility:     Credibility(r.Credibility),
		NotionID:        r.NotionID,
	}
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns all study sessions in record order.
func (r *DBRepository) FindAll(ctx context.Context) ([]StudySession, error) {
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM study_sessions ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(study_sessions) > %w", err)
	}
	return rowsToSessions(rows), nil
}

// FindSince returns study sessions recorded at or after the given time.
func (r *DBRepository) FindSince(ctx context.Context, since time.Time) ([]StudySession, error) {
	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM study_sessions WHERE timestamp >= ? ORDER BY id", since); err != nil {
		return nil, fmt.Errorf("db.SelectContext(study_sessions since) > %w", err)
	}
	return rowsToSessions(rows), nil
}

// Create inserts a new study session. The caller-assigned id is kept.
func (r *DBRepository) Create(ctx context.Context, session *StudySession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO study_sessions (id, subject, module, duration_minutes, status, summary, challenge, timestamp, credibility, notion_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Subject, session.Module, session.DurationMinutes,
		string(session.Status), session.Summary, session.Challenge,
		session.Timestamp, string(session.Credibility), session.NotionID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert study_session) > %w", err)
	}
	return nil
}

func rowsToSessions(rows []sessionRow) []StudySession {
	sessions := make([]StudySession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toSession())
	}
	return sessions
}

package datasync

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/djantao/agentAI/internal/mastery"
	"github.com/djantao/agentAI/internal/progress"
)

type exportSession struct {
	ID              int64  `yaml:"id"`
	Subject         string `yaml:"subject"`
	Module          string `yaml:"module"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Status          string `yaml:"status"`
	Summary         string `yaml:"summary,omitempty"`
	Challenge       string `yaml:"challenge,omitempty"`
	Timestamp       string `yaml:"timestamp"`
	Credibility     string `yaml:"credibility"`
	NotionID        string `yaml:"notion_id,omitempty"`
}

type exportModule struct {
	Name            string  `yaml:"name"`
	MasteryLevel    float64 `yaml:"mastery_level"`
	LearningCount   int     `yaml:"learning_count"`
	ReviewCount     int     `yaml:"review_count"`
	LastLearnedDate string  `yaml:"last_learned_date"`
	NextReviewDate  string  `yaml:"next_review_date"`
}

type exportCourse struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Difficulty    string         `yaml:"difficulty"`
	LearningCount int            `yaml:"learning_count"`
	Modules       []exportModule `yaml:"modules,omitempty"`
}

// YAMLSessionSink writes study sessions and mastery state to YAML files.
type YAMLSessionSink struct {
	outputDir string
}

// NewYAMLSessionSink creates a new YAMLSessionSink.
func NewYAMLSessionSink(outputDir string) *YAMLSessionSink {
	return &YAMLSessionSink{outputDir: outputDir}
}

// WriteSessions writes the session log to study_sessions.yml.
func (s *YAMLSessionSink) WriteSessions(sessions []progress.StudySession) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportSession, len(sessions))
	for i, session := range sessions {
		out[i] = exportSession{
			ID:              session.ID,
			Subject:         session.Subject,
			Module:          session.Module,
			DurationMinutes: session.DurationMinutes,
			Status:          string(session.Status),
			Summary:         session.Summary,
			Challenge:       session.Challenge,
			Timestamp:       session.Timestamp.Format("2006-01-02 15:04"),
			Credibility:     string(session.Credibility),
			NotionID:        session.NotionID,
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "study_sessions.yml"), out); err != nil {
		return fmt.Errorf("write study_sessions.yml: %w", err)
	}
	return nil
}

// WriteMastery writes the mastery snapshot to course_mastery.yml.
func (s *YAMLSessionSink) WriteMastery(state mastery.State) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportCourse, len(state.Courses))
	for i, course := range state.Courses {
		exported := exportCourse{
			ID:            course.ID,
			Name:          course.Name,
			Difficulty:    string(course.Difficulty),
			LearningCount: course.LearningCount,
		}
		for _, module := range course.Modules {
			exported.Modules = append(exported.Modules, exportModule{
				Name:            module.Name,
				MasteryLevel:    module.MasteryLevel,
				LearningCount:   module.LearningCount,
				ReviewCount:     module.ReviewCount,
				LastLearnedDate: module.LastLearnedDate.Format("2006-01-02"),
				NextReviewDate:  module.NextReviewDate.Format("2006-01-02"),
			})
		}
		out[i] = exported
	}

	if err := writeYAML(filepath.Join(s.outputDir, "course_mastery.yml"), out); err != nil {
		return fmt.Errorf("write course_mastery.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

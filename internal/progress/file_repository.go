package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileRepository persists the session log as a JSON file under the local
// cache directory. Loads are fail-soft: a missing or malformed file is
// treated as an empty log.
type FileRepository struct {
	path string
}

func NewFileRepository(cacheDirectory string) *FileRepository {
	return &FileRepository{
		path: filepath.Join(cacheDirectory, "study_sessions.json"),
	}
}

func (r *FileRepository) Load() []StudySession {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Default().Warn("failed to read session log, starting empty", "path", r.path, "error", err)
		}
		return nil
	}

	var sessions []StudySession
	if err := json.Unmarshal(contents, &sessions); err != nil {
		slog.Default().Warn("malformed session log treated as empty", "path", r.path, "error", err)
		return nil
	}
	return sessions
}

func (r *FileRepository) Save(sessions []StudySession) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}

	contents, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}

	file, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}

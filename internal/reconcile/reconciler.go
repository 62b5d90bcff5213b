// Package reconcile merges locally cached state with the remote file store:
// local writes always land, remote writes are best-effort with one bounded
// bootstrap fallback.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sync"

	"github.com/avast/retry-go"

	"github.com/djantao/agentAI/internal/github"
)

// RemoteStore is the subset of the file store the reconciler needs.
type RemoteStore interface {
	GetContent(ctx context.Context, path string) (string, bool, error)
	PutContent(ctx context.Context, path, content, message string) error
	EnsureDirectory(ctx context.Context, dir string) error
}

// Reconciler persists one JSON document under a fixed remote path, mirrored
// in the local cache. Saves are ordered by a generation counter so a slow
// remote write can never clobber a newer one.
type Reconciler[T any] struct {
	remote  RemoteStore
	cache   *Cache
	path    string
	message string
	logger  *slog.Logger

	mu         sync.Mutex
	generation uint64
}

func NewReconciler[T any](remote RemoteStore, cache *Cache, remotePath, commitMessage string, logger *slog.Logger) *Reconciler[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler[T]{
		remote:  remote,
		cache:   cache,
		path:    remotePath,
		message: commitMessage,
		logger:  logger,
	}
}

// Save writes the local cache synchronously, then attempts the remote put.
// When the remote put fails, it touches the parent directory and retries
// once. Returns true only if a remote put succeeded; the local cache is
// current either way.
func (r *Reconciler[T]) Save(ctx context.Context, state T) bool {
	contents, generation, ok := r.commitLocal(state)
	if !ok {
		return false
	}
	return r.putRemote(ctx, contents, generation)
}

// SaveAsync writes the local cache before returning; only the remote put
// runs on its own goroutine, and its result only gets logged.
func (r *Reconciler[T]) SaveAsync(ctx context.Context, state T) {
	contents, generation, ok := r.commitLocal(state)
	if !ok {
		return
	}
	go func() {
		if !r.putRemote(ctx, contents, generation) {
			r.logger.Warn("background save did not reach the remote store", "path", r.path)
		}
	}()
}

// commitLocal serializes the state, claims the next generation and writes
// the local cache. This is the synchronous part of every save.
func (r *Reconciler[T]) commitLocal(state T) ([]byte, uint64, bool) {
	contents, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		r.logger.Error("failed to serialize state", "path", r.path, "error", err)
		return nil, 0, false
	}

	r.mu.Lock()
	r.generation++
	generation := r.generation
	r.mu.Unlock()

	if err := r.cache.Write(r.path, contents); err != nil {
		r.logger.Warn("failed to write local cache", "path", r.path, "error", err)
	}
	return contents, generation, true
}

func (r *Reconciler[T]) putRemote(ctx context.Context, contents []byte, generation uint64) bool {
	err := retry.Do(
		func() error {
			if r.stale(generation) {
				return nil
			}
			return r.remote.PutContent(ctx, r.path, string(contents), r.message)
		},
		retry.Attempts(2),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(_ uint, err error) {
			// The contents API cannot create a file under a missing parent
			// directory, so bootstrap it before the second attempt.
			r.logger.Warn("remote save failed, bootstrapping directory", "path", r.path, "error", err)
			if dirErr := r.remote.EnsureDirectory(ctx, path.Dir(r.path)); dirErr != nil {
				r.logger.Warn("directory bootstrap failed", "path", r.path, "error", dirErr)
			}
		}),
	)
	if err != nil {
		r.logger.Warn("remote save failed, state kept in local cache", "path", r.path, "error", err)
		return false
	}
	return true
}

func (r *Reconciler[T]) stale(generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return generation < r.generation
}

// Load prefers the remote copy, falls back to the local cache, and returns
// the zero value when neither exists. Malformed content is treated the same
// as absence.
func (r *Reconciler[T]) Load(ctx context.Context) T {
	var state T

	content, found, err := r.remote.GetContent(ctx, r.path)
	if err != nil {
		r.logger.Warn("remote load failed, falling back to local cache", "path", r.path, "error", err)
	} else if found {
		if jsonErr := json.Unmarshal([]byte(content), &state); jsonErr == nil {
			return state
		}
		r.logger.Warn("malformed remote content treated as absent", "path", r.path)
	}

	contents, found := r.cache.Read(r.path)
	if !found {
		return state
	}
	if jsonErr := json.Unmarshal(contents, &state); jsonErr != nil {
		r.logger.Warn("malformed local cache treated as absent", "path", r.path)
		var zero T
		return zero
	}
	return state
}

// GitHubStore adapts the contents-API client to RemoteStore.
type GitHubStore struct {
	client ContentsClient
}

// ContentsClient matches the file operations of the github package client.
type ContentsClient interface {
	GetFile(ctx context.Context, path string) (*github.File, error)
	PutFile(ctx context.Context, path, content, message string) error
	ListDirectory(ctx context.Context, path string) ([]github.Entry, error)
	EnsureDirectory(ctx context.Context, dir string) error
}

func NewGitHubStore(client ContentsClient) *GitHubStore {
	return &GitHubStore{client: client}
}

func (s *GitHubStore) GetContent(ctx context.Context, path string) (string, bool, error) {
	file, err := s.client.GetFile(ctx, path)
	if err != nil {
		return "", false, fmt.Errorf("client.GetFile > %w", err)
	}
	if file == nil {
		return "", false, nil
	}
	return file.Content, true, nil
}

func (s *GitHubStore) PutContent(ctx context.Context, path, content, message string) error {
	if err := s.client.PutFile(ctx, path, content, message); err != nil {
		return fmt.Errorf("client.PutFile > %w", err)
	}
	return nil
}

func (s *GitHubStore) EnsureDirectory(ctx context.Context, dir string) error {
	return s.client.EnsureDirectory(ctx, dir)
}

// ListNames returns the file names under a remote directory. A missing
// directory is an empty listing. Placeholder entries are skipped.
func (s *GitHubStore) ListNames(ctx context.Context, dir string) ([]string, error) {
	entries, err := s.client.ListDirectory(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("client.ListDirectory > %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "file" || entry.Name == ".gitkeep" {
			continue
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

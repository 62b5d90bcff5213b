package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djantao/agentAI/internal/github"
	"github.com/djantao/agentAI/internal/mastery"
)

type fakeRemoteStore struct {
	files       map[string]string
	failPuts    int
	putCalls    int
	ensuredDirs []string
	getErr      error
}

func newFakeRemoteStore() *fakeRemoteStore {
	return &fakeRemoteStore{files: map[string]string{}}
}

func (s *fakeRemoteStore) GetContent(_ context.Context, path string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	content, ok := s.files[path]
	return content, ok, nil
}

func (s *fakeRemoteStore) PutContent(_ context.Context, path, content, _ string) error {
	s.putCalls++
	if s.failPuts > 0 {
		s.failPuts--
		return errors.New("update failed")
	}
	s.files[path] = content
	return nil
}

func (s *fakeRemoteStore) EnsureDirectory(_ context.Context, dir string) error {
	s.ensuredDirs = append(s.ensuredDirs, dir)
	return nil
}

type document struct {
	Value string `json:"value"`
}

func TestReconciler_Save(t *testing.T) {
	tests := []struct {
		name            string
		failPuts        int
		expected        bool
		expectedPuts    int
		expectedEnsured []string
	}{
		{
			name:         "remote save succeeds",
			expected:     true,
			expectedPuts: 1,
		},
		{
			name:            "first put fails, directory bootstrap retry succeeds",
			failPuts:        1,
			expected:        true,
			expectedPuts:    2,
			expectedEnsured: []string{"courseList"},
		},
		{
			name:            "both puts fail",
			failPuts:        2,
			expected:        false,
			expectedPuts:    2,
			expectedEnsured: []string{"courseList"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remote := newFakeRemoteStore()
			remote.failPuts = tc.failPuts
			cache := NewCache(t.TempDir())
			reconciler := NewReconciler[document](remote, cache, "courseList/courseProgress.json", "Update progress", nil)

			ok := reconciler.Save(context.Background(), document{Value: "state"})

			assert.Equal(t, tc.expected, ok)
			assert.Equal(t, tc.expectedPuts, remote.putCalls)
			assert.Equal(t, tc.expectedEnsured, remote.ensuredDirs)

			// The local cache is written even when the remote store is down.
			_, found := cache.Read("courseList/courseProgress.json")
			assert.True(t, found)
		})
	}
}

func TestReconciler_Load(t *testing.T) {
	const path = "courseList/courseProgress.json"

	tests := []struct {
		name     string
		remote   func(*fakeRemoteStore)
		cached   string
		expected document
	}{
		{
			name: "remote preferred",
			remote: func(s *fakeRemoteStore) {
				s.files[path] = `{"value": "remote"}`
			},
			cached:   `{"value": "local"}`,
			expected: document{Value: "remote"},
		},
		{
			name:     "remote absent falls back to cache",
			remote:   func(s *fakeRemoteStore) {},
			cached:   `{"value": "local"}`,
			expected: document{Value: "local"},
		},
		{
			name: "remote error falls back to cache",
			remote: func(s *fakeRemoteStore) {
				s.getErr = errors.New("unreachable")
			},
			cached:   `{"value": "local"}`,
			expected: document{Value: "local"},
		},
		{
			name: "malformed remote treated as absent",
			remote: func(s *fakeRemoteStore) {
				s.files[path] = "not json"
			},
			cached:   `{"value": "local"}`,
			expected: document{Value: "local"},
		},
		{
			name:     "nothing anywhere returns the default",
			remote:   func(s *fakeRemoteStore) {},
			expected: document{},
		},
		{
			name:     "malformed cache returns the default",
			remote:   func(s *fakeRemoteStore) {},
			cached:   "not json",
			expected: document{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remote := newFakeRemoteStore()
			tc.remote(remote)
			cache := NewCache(t.TempDir())
			if tc.cached != "" {
				require.NoError(t, cache.Write(path, []byte(tc.cached)))
			}
			reconciler := NewReconciler[document](remote, cache, path, "Update progress", nil)

			assert.Equal(t, tc.expected, reconciler.Load(context.Background()))
		})
	}
}

func TestReconciler_RoundTripMasteryState(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	model := mastery.NewModel(mastery.State{})
	course := mastery.Course{ID: "c1", Name: "Go 入门", Difficulty: mastery.DifficultyBeginner}
	model.Teach(course, "基础概念", now)
	model.Teach(course, "基础概念", now.AddDate(0, 0, 1))
	model.Teach(course, "核心知识", now.AddDate(0, 0, 2))
	model.AppendHistory(mastery.HistoryEntry{
		Course:    "Go 入门",
		CourseID:  "c1",
		Module:    "基础概念",
		Timestamp: now,
		Content:   "费曼讲解",
	})

	remote := newFakeRemoteStore()
	reconciler := NewReconciler[mastery.State](remote, NewCache(t.TempDir()), "courseList/courseProgress.json", "Update progress", nil)

	saved := model.Snapshot()
	require.True(t, reconciler.Save(context.Background(), saved))

	loaded := reconciler.Load(context.Background())
	assert.Equal(t, saved, loaded)
}

// blockingRemoteStore parks every put until the gate closes.
type blockingRemoteStore struct {
	fakeRemoteStore
	gate chan struct{}
	done chan struct{}
}

func (s *blockingRemoteStore) PutContent(ctx context.Context, path, content, message string) error {
	<-s.gate
	defer close(s.done)
	return s.fakeRemoteStore.PutContent(ctx, path, content, message)
}

func TestReconciler_SaveAsync_cacheWrittenBeforeReturn(t *testing.T) {
	remote := &blockingRemoteStore{
		fakeRemoteStore: fakeRemoteStore{files: map[string]string{}},
		gate:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	cache := NewCache(t.TempDir())
	reconciler := NewReconciler[document](remote, cache, "courseList/courseProgress.json", "Update progress", nil)

	reconciler.SaveAsync(context.Background(), document{Value: "v1"})

	// The remote put is still parked, but the cache already holds the state.
	contents, found := cache.Read("courseList/courseProgress.json")
	require.True(t, found)
	assert.Contains(t, string(contents), "v1")
	assert.Empty(t, remote.files)

	close(remote.gate)
	select {
	case <-remote.done:
	case <-time.After(time.Second):
		t.Fatal("remote put never ran")
	}
	assert.Contains(t, remote.files["courseList/courseProgress.json"], "v1")
}

type fakeContentsClient struct {
	entries map[string][]github.Entry
	listErr error
}

func (f *fakeContentsClient) GetFile(context.Context, string) (*github.File, error) {
	return nil, nil
}

func (f *fakeContentsClient) PutFile(context.Context, string, string, string) error {
	return nil
}

func (f *fakeContentsClient) ListDirectory(_ context.Context, path string) ([]github.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries[path], nil
}

func (f *fakeContentsClient) EnsureDirectory(context.Context, string) error {
	return nil
}

func TestGitHubStore_ListNames(t *testing.T) {
	store := NewGitHubStore(&fakeContentsClient{entries: map[string][]github.Entry{
		"conversations": {
			{Name: "2026-09-01.json", Path: "conversations/2026-09-01.json", Type: "file"},
			{Name: ".gitkeep", Path: "conversations/.gitkeep", Type: "file"},
			{Name: "archive", Path: "conversations/archive", Type: "dir"},
			{Name: "2026-08-31.json", Path: "conversations/2026-08-31.json", Type: "file"},
		},
	}})

	names, err := store.ListNames(context.Background(), "conversations")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-01.json", "2026-08-31.json"}, names)

	names, err = store.ListNames(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, names)

	failing := NewGitHubStore(&fakeContentsClient{listErr: errors.New("boom")})
	_, err = failing.ListNames(context.Background(), "conversations")
	assert.Error(t, err)
}

func TestCache_ReadWrite(t *testing.T) {
	cache := NewCache(t.TempDir())

	_, found := cache.Read("conversations/2026-09-01.json")
	assert.False(t, found)

	require.NoError(t, cache.Write("conversations/2026-09-01.json", []byte(`[]`)))

	contents, found := cache.Read("conversations/2026-09-01.json")
	require.True(t, found)
	assert.Equal(t, []byte(`[]`), contents)
}

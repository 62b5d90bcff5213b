package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/djantao/agentAI/internal/inference"
	mock_inference "github.com/djantao/agentAI/internal/mocks/inference"
)

type fakeLister struct {
	names   map[string][]string
	listErr error
}

func (f *fakeLister) ListNames(_ context.Context, dir string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.names[dir], nil
}

func newTestHistory(remote *fakeRemote, lister *fakeLister) *ConversationHistory {
	return NewConversationHistory(NewConversationStore(remote, nil), lister)
}

func TestConversationHistory_Dates(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		listErr error

		want      []string
		wantError bool
	}{
		{
			name:  "newest first, non-date names skipped",
			names: []string{"2026-08-30.json", "notes.txt", "2026-09-01.json", "2026-08-31.json"},
			want:  []string{"2026-09-01", "2026-08-31", "2026-08-30"},
		},
		{
			name:  "empty directory",
			names: nil,
			want:  []string{},
		},
		{
			name:      "listing failure",
			listErr:   errors.New("boom"),
			wantError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			history := newTestHistory(newFakeRemote(), &fakeLister{
				names:   map[string][]string{"conversations": tc.names},
				listErr: tc.listErr,
			})

			got, err := history.Dates(context.Background())
			if tc.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConversationHistory_Messages(t *testing.T) {
	remote := newFakeRemote()
	remote.files["conversations/2026-08-31.json"] = `[{"role": "user", "content": "什么是递归？"}, {"role": "assistant", "content": "函数调用自身。"}]`
	history := newTestHistory(remote, &fakeLister{})

	messages, err := history.Messages(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "什么是递归？", messages[0].Content)

	_, err = history.Messages(context.Background(), "yesterday")
	assert.Error(t, err)
}

func TestConversationHistory_Transcript(t *testing.T) {
	remote := newFakeRemote()
	remote.files["conversations/2026-08-30.json"] = `[{"role": "user", "content": "讲讲栈"}, {"role": "assistant", "content": "后进先出。"}]`
	remote.files["conversations/2026-09-01.json"] = `[{"role": "user", "content": "讲讲队列"}]`
	history := newTestHistory(remote, &fakeLister{names: map[string][]string{
		"conversations": {"2026-09-01.json", "2026-08-30.json"},
	}})

	transcript, err := history.Transcript(context.Background())
	require.NoError(t, err)

	// Oldest date first, roles labelled.
	assert.Equal(t, "\n=== 2026-08-30 ===\n用户: 讲讲栈\n助手: 后进先出。\n\n=== 2026-09-01 ===\n用户: 讲讲队列\n", transcript)
}

func TestRenderConversation(t *testing.T) {
	var out bytes.Buffer
	RenderConversation(&out, "2026-09-01", []inference.Message{
		{Role: inference.RoleUser, Content: "你好"},
		{Role: inference.RoleAssistant, Content: "你好，想学什么？"},
	})
	assert.Equal(t, "=== 2026-09-01 ===\n用户: 你好\n助手: 你好，想学什么？\n", out.String())

	out.Reset()
	RenderConversation(&out, "2026-09-02", nil)
	assert.Contains(t, out.String(), "当天没有对话记录")
}

func TestMemoryAdvisor_GeneratePoints(t *testing.T) {
	remote := newFakeRemote()
	remote.files["conversations/2026-08-31.json"] = `[{"role": "user", "content": "什么是遗忘曲线？"}, {"role": "assistant", "content": "记忆随时间衰减。"}]`
	history := newTestHistory(remote, &fakeLister{names: map[string][]string{
		"conversations": {"2026-08-31.json"},
	}})

	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []inference.Message) (string, error) {
			require.Len(t, messages, 1)
			assert.Contains(t, messages[0].Content, "学习顾问")
			assert.Contains(t, messages[0].Content, "=== 2026-08-31 ===")
			assert.Contains(t, messages[0].Content, "遗忘曲线")
			return "建议复习遗忘曲线的间隔安排。", nil
		})

	advisor := NewMemoryAdvisor(history, NewPromptSource(remote, nil), client, nil)
	points, err := advisor.GeneratePoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "建议复习遗忘曲线的间隔安排。", points)
}

func TestMemoryAdvisor_GeneratePoints_emptyHistory(t *testing.T) {
	history := newTestHistory(newFakeRemote(), &fakeLister{})

	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)

	advisor := NewMemoryAdvisor(history, NewPromptSource(newFakeRemote(), nil), client, nil)
	_, err := advisor.GeneratePoints(context.Background())
	assert.ErrorContains(t, err, "没有学习历史记录")
}

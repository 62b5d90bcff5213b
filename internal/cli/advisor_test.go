package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/djantao/agentAI/internal/inference"
	mock_inference "github.com/djantao/agentAI/internal/mocks/inference"
)

func TestAdvisor_ReviewPlan(t *testing.T) {
	remote := newFakeRemote()
	remote.files["prompts/learning_efficiency.md"] = "主动回忆优于被动重读。"

	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []inference.Message) (string, error) {
			require.Len(t, messages, 1)
			assert.Contains(t, messages[0].Content, "为操作系统制定")
			assert.Contains(t, messages[0].Content, "主动回忆优于被动重读。")
			assert.Contains(t, messages[0].Content, "遗忘曲线")
			return "第一天复习进程调度。", nil
		})

	advisor := NewAdvisor(NewPromptSource(remote, nil), client)
	plan, err := advisor.ReviewPlan(context.Background(), "操作系统")
	require.NoError(t, err)
	assert.Equal(t, "第一天复习进程调度。", plan)
}

func TestAdvisor_Exercises(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		topic      string
		difficulty string
		count      int

		wantPromptContains string
		wantError          bool
	}{
		{
			name:               "explicit difficulty and count",
			subject:            "数学",
			topic:              "微积分",
			difficulty:         "困难",
			count:              3,
			wantPromptContains: "生成3道困难难度的习题",
		},
		{
			name:               "defaults applied",
			subject:            "数学",
			topic:              "微积分",
			wantPromptContains: "生成5道中等难度的习题",
		},
		{
			name:      "missing topic",
			subject:   "数学",
			wantError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			if !tc.wantError {
				client.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, messages []inference.Message) (string, error) {
						assert.Contains(t, messages[0].Content, tc.wantPromptContains)
						return "1. 求导数", nil
					})
			}

			advisor := NewAdvisor(NewPromptSource(newFakeRemote(), nil), client)
			exercises, err := advisor.Exercises(context.Background(), tc.subject, tc.topic, tc.difficulty, tc.count)
			if tc.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "1. 求导数", exercises)
		})
	}
}

func TestAdvisor_ReviewPlan_generateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)
	client.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", errors.New("boom"))

	advisor := NewAdvisor(NewPromptSource(newFakeRemote(), nil), client)
	_, err := advisor.ReviewPlan(context.Background(), "数学")
	assert.Error(t, err)
}

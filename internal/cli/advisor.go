package cli

import (
	"context"
	"fmt"

	"github.com/djantao/agentAI/internal/inference"
)

// Advisor generates study guidance from the prompt templates.
type Advisor struct {
	prompts   *PromptSource
	inference inference.Client
}

func NewAdvisor(prompts *PromptSource, inferenceClient inference.Client) *Advisor {
	return &Advisor{prompts: prompts, inference: inferenceClient}
}

// ReviewPlan builds a subject review plan from the efficiency and
// forgetting-curve guidance.
func (a *Advisor) ReviewPlan(ctx context.Context, subject string) (string, error) {
	efficiency, err := a.prompts.Get(ctx, "learning_efficiency")
	if err != nil {
		return "", fmt.Errorf("prompts.Get > %w", err)
	}
	forgettingCurve, err := a.prompts.Get(ctx, "forgetting_curve")
	if err != nil {
		return "", fmt.Errorf("prompts.Get > %w", err)
	}

	prompt := fmt.Sprintf(
		"作为一个学习顾问，根据以下信息为%s制定基于高效学习方法论和遗忘曲线的复习计划：\n\n"+
			"高效学习方法论：\n%s\n\n遗忘曲线复习原理：\n%s\n\n"+
			"请制定一个详细的复习计划，包括：\n"+
			"1. 基于遗忘曲线的个性化复习间隔\n"+
			"2. 高效学习方法的应用建议\n"+
			"3. 每日复习内容和时间安排\n"+
			"4. 复习效果评估方法\n"+
			"5. 知识点优先级排序",
		subject, efficiency, forgettingCurve)

	plan, err := a.inference.Generate(ctx, []inference.Message{
		{Role: inference.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("inference.Generate > %w", err)
	}
	return plan, nil
}

// Exercises generates practice problems with answers and explanations for
// one topic of a subject.
func (a *Advisor) Exercises(ctx context.Context, subject, topic, difficulty string, count int) (string, error) {
	if subject == "" || topic == "" {
		return "", fmt.Errorf("请输入科目和主题")
	}
	if difficulty == "" {
		difficulty = "中等"
	}
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(
		"作为一个%s老师，请为%s主题生成%d道%s难度的习题。\n\n"+
			"习题格式：\n1. 题目内容\n答案：\n解析：\n\n"+
			"请确保习题质量高，能够有效测试学生对知识点的理解。",
		subject, topic, count, difficulty)

	exercises, err := a.inference.Generate(ctx, []inference.Message{
		{Role: inference.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("inference.Generate > %w", err)
	}
	return exercises, nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/djantao/agentAI/internal/inference"
	"github.com/djantao/agentAI/internal/mastery"
	"github.com/djantao/agentAI/internal/reconcile"
)

const masteryStatePath = "courseList/courseProgress.json"

// MasteryStatePath is where the serialized mastery model lives in the
// remote store.
func MasteryStatePath() string { return masteryStatePath }

// TeachFlow generates course listings, resolves the user's selection, and
// runs teaching sessions that update the mastery model.
type TeachFlow struct {
	model      *mastery.Model
	inference  inference.Client
	prompts    *PromptSource
	reconciler *reconcile.Reconciler[mastery.State]
	clock      func() time.Time
}

func NewTeachFlow(
	model *mastery.Model,
	inferenceClient inference.Client,
	prompts *PromptSource,
	reconciler *reconcile.Reconciler[mastery.State],
) *TeachFlow {
	return &TeachFlow{
		model:      model,
		inference:  inferenceClient,
		prompts:    prompts,
		reconciler: reconciler,
		clock:      time.Now,
	}
}

// GenerateCourses asks the generation service for course recommendations on
// a topic and parses the listing.
func (f *TeachFlow) GenerateCourses(ctx context.Context, topic string) ([]mastery.Course, error) {
	prompt := fmt.Sprintf(
		"请为想学习「%s」的学习者推荐 3 到 5 门课程，每门课程一行，严格使用以下格式：\n"+
			"<序号>. 课程名称：<名称>，简介：<一句话简介>，难度：<入门/中级/高级>",
		topic)

	text, err := f.inference.Generate(ctx, []inference.Message{
		{Role: inference.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("inference.Generate > %w", err)
	}

	courses := mastery.ParseCourseList(text)
	if len(courses) == 0 {
		return nil, fmt.Errorf("生成的课程列表无法解析：%s", text)
	}
	return courses, nil
}

// SelectCourse resolves free-text input against the last presented listing.
// Returns -1 when the input is not a selection.
func (f *TeachFlow) SelectCourse(input string, courses []mastery.Course) int {
	return mastery.ParseSelection(input, courses)
}

// Teach runs one teaching session: it generates a Feynman-style explanation
// for the course (or one module of it), updates the mastery model, appends
// the history entry, and persists the new state. The local cache is written
// before Teach returns; only the remote put runs in the background.
func (f *TeachFlow) Teach(ctx context.Context, course mastery.Course, module string) (string, error) {
	now := f.clock()

	feynman, err := f.prompts.Get(ctx, "feynman")
	if err != nil {
		return "", fmt.Errorf("prompts.Get > %w", err)
	}

	subject := course.Name
	if module != "" {
		subject = fmt.Sprintf("%s 课程的「%s」模块", course.Name, module)
	}
	prompt := fmt.Sprintf("%s\n\n学习内容：%s\n课程简介：%s", feynman, subject, course.Description)

	content, err := f.inference.Generate(ctx, []inference.Message{
		{Role: inference.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("inference.Generate > %w", err)
	}

	learned := f.model.Teach(course, module, now)

	level := 0.0
	if module != "" {
		for _, m := range learned.Modules {
			if m.Name == module {
				level = m.MasteryLevel
			}
		}
	}
	f.model.AppendHistory(mastery.HistoryEntry{
		Course:             course.Name,
		CourseID:           course.ID,
		Module:             module,
		Timestamp:          now,
		Content:            content,
		Method:             mastery.MethodFeynman,
		MasteryLevelAtTime: level,
	})

	f.reconciler.SaveAsync(context.WithoutCancel(ctx), f.model.Snapshot())
	return content, nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/djantao/agentAI/internal/mastery"
	"github.com/djantao/agentAI/internal/reconcile"
)

// CompleteReview marks one module of a learned course as reviewed and
// persists the updated mastery state. The course may be referenced by id or
// by name. Returns the module's state after the review.
func CompleteReview(
	ctx context.Context,
	model *mastery.Model,
	reconciler *reconcile.Reconciler[mastery.State],
	courseRef, module string,
	now time.Time,
) (*mastery.ModuleMastery, error) {
	var course *mastery.LearnedCourse
	for _, c := range model.Courses() {
		if c.ID == courseRef || c.Name == courseRef {
			course = c
			break
		}
	}
	if course == nil {
		return nil, fmt.Errorf("未找到课程 %q，请先学习该课程", courseRef)
	}

	if !model.MarkReviewed(course.ID, module, now) {
		return nil, fmt.Errorf("课程 %q 中没有名为 %q 的模块", course.Name, module)
	}
	reconciler.Save(ctx, model.Snapshot())

	for _, mm := range course.Modules {
		if mm.Name == module {
			return mm, nil
		}
	}
	return nil, fmt.Errorf("课程 %q 中没有名为 %q 的模块", course.Name, module)
}

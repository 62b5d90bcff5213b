package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/djantao/agentAI/internal/mastery"
	"github.com/djantao/agentAI/internal/progress"
)

// RenderReviewQueue displays due modules, urgent ones highlighted.
func RenderReviewQueue(out io.Writer, queue []mastery.DueModule, now time.Time) {
	if len(queue) == 0 {
		fmt.Fprintln(out, "没有需要复习的模块，保持住！")
		return
	}

	urgent := color.New(color.FgRed, color.Bold).SprintFunc()
	normal := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(out, "待复习模块")
	fmt.Fprintln(out, "==========")
	for i, due := range queue {
		overdueDays := int(now.Sub(due.Module.NextReviewDate).Hours() / 24)
		line := fmt.Sprintf("%d. %s / %s（掌握度 %.1f，逾期 %d 天）",
			i+1, due.CourseName, due.Module.Name, due.Module.MasteryLevel, overdueDays)
		if due.Urgent() {
			fmt.Fprintln(out, urgent(line))
		} else {
			fmt.Fprintln(out, normal(line))
		}
	}
}

// RenderStatistics displays per-course mastery statistics along with the
// session log summary.
func RenderStatistics(out io.Writer, result mastery.StatisticsResult, weekly progress.Aggregate, credibility progress.Credibility) {
	fmt.Fprintln(out, "学习统计")
	fmt.Fprintln(out, "========")
	fmt.Fprintln(out)

	if len(result.Courses) == 0 {
		fmt.Fprintln(out, "还没有学习任何课程。")
	} else {
		fmt.Fprintf(out, "%-20s  %8s  %8s  %8s  %8s\n", "课程", "学习次数", "模块数", "平均掌握", "待复习")
		for _, course := range result.Courses {
			fmt.Fprintf(out, "%-20s  %8d  %8d  %8.1f  %8d\n",
				course.CourseName, course.LearningCount, course.ModuleCount,
				course.AverageMastery, course.DueCount)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "共 %d 门课程、%d 个模块，其中 %d 个已完全掌握，%d 个待复习\n",
			result.Aggregate.CourseCount, result.Aggregate.ModuleCount,
			result.Aggregate.MasteredCount, result.Aggregate.DueCount)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "近 7 天学习 %d 分钟（%d 次记录），记录可信度：%s\n",
		weekly.TotalMinutes, weekly.SessionCount, credibilityLabel(credibility))
}

func credibilityLabel(c progress.Credibility) string {
	switch c {
	case progress.CredibilityHigh:
		return "高"
	case progress.CredibilityMedium:
		return "中"
	default:
		return "低"
	}
}

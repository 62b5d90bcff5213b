package mastery

import "time"

// CourseStatistics summarizes one learned course.
type CourseStatistics struct {
	CourseID       string
	CourseName     string
	LearningCount  int
	ModuleCount    int
	MasteredCount  int // modules at the mastery ceiling
	AverageMastery float64
	DueCount       int
}

// AggregateStatistics holds totals across all learned courses.
type AggregateStatistics struct {
	CourseCount   int
	ModuleCount   int
	MasteredCount int
	DueCount      int
	HistoryCount  int
}

// StatisticsResult holds both per-course and aggregate statistics.
type StatisticsResult struct {
	Courses   []CourseStatistics
	Aggregate AggregateStatistics
}

// CalculateStatistics builds a per-course and aggregate summary of the
// current state. Courses keep their first-taught order.
func (m *Model) CalculateStatistics(now time.Time) StatisticsResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := StatisticsResult{
		Aggregate: AggregateStatistics{
			CourseCount:  len(m.state.Courses),
			HistoryCount: len(m.state.History),
		},
	}

	for _, course := range m.state.Courses {
		stats := CourseStatistics{
			CourseID:      course.ID,
			CourseName:    course.Name,
			LearningCount: course.LearningCount,
			ModuleCount:   len(course.Modules),
		}

		total := 0.0
		for _, module := range course.Modules {
			total += module.MasteryLevel
			if module.MasteryLevel >= MaxLevel {
				stats.MasteredCount++
			}
			if !module.NextReviewDate.After(now) {
				stats.DueCount++
			}
		}
		if len(course.Modules) > 0 {
			stats.AverageMastery = total / float64(len(course.Modules))
		}

		result.Aggregate.ModuleCount += stats.ModuleCount
		result.Aggregate.MasteredCount += stats.MasteredCount
		result.Aggregate.DueCount += stats.DueCount
		result.Courses = append(result.Courses, stats)
	}
	return result
}

package mastery

import (
	"math"
	"sort"
	"time"
)

// urgentBelow separates urgent review candidates from the rest: a module
// with mastery below this level has not consolidated yet.
const urgentBelow = 3.0

var reviewIntervals = map[int]time.Duration{
	1: 1 * 24 * time.Hour,
	2: 3 * 24 * time.Hour,
	3: 7 * 24 * time.Hour,
	4: 14 * 24 * time.Hour,
	5: 30 * 24 * time.Hour,
}

// IntervalFor maps a mastery level to the safe interval before the next
// review. Non-integer levels round up to the shorter, more conservative
// bucket.
func IntervalFor(level float64) time.Duration {
	key := int(math.Ceil(level))
	if key < 1 {
		key = 1
	}
	if key > 5 {
		key = 5
	}
	return reviewIntervals[key]
}

// DueModule is one review-queue entry.
type DueModule struct {
	CourseID   string
	CourseName string
	Module     *ModuleMastery
}

// Urgent reports whether the module sorts into the high-priority tier.
func (d DueModule) Urgent() bool {
	return d.Module.MasteryLevel < urgentBelow
}

// ReviewQueue lists modules whose next review date has passed, urgent tier
// first, ascending mastery within a tier. The sort is stable so ties keep
// their enumeration order.
func (m *Model) ReviewQueue(now time.Time) []DueModule {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []DueModule
	for _, course := range m.state.Courses {
		for _, module := range course.Modules {
			if module.NextReviewDate.After(now) {
				continue
			}
			due = append(due, DueModule{
				CourseID:   course.ID,
				CourseName: course.Name,
				Module:     module,
			})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Urgent() != due[j].Urgent() {
			return due[i].Urgent()
		}
		return due[i].Module.MasteryLevel < due[j].Module.MasteryLevel
	})
	return due
}

// Package mastery tracks per-course and per-module mastery levels and derives
// review schedules from a forgetting-curve interval table.
package mastery

import (
	"math"
	"sync"
	"time"
)

const (
	// MinLevel is the mastery level assigned on the first teaching session.
	MinLevel = 1.0
	// MaxLevel is the mastery ceiling. Levels are clamped and never decay.
	MaxLevel = 5.0
	// LevelStep is added on every teaching session after the first.
	LevelStep = 0.5
)

// Difficulty labels a course's target audience.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Course is an available course parsed from a generated listing.
type Course struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Modules     []string   `json:"modules"`
}

var difficultyModules = map[Difficulty][]string{
	DifficultyBeginner:     {"基础概念", "核心知识", "入门实践"},
	DifficultyIntermediate: {"进阶理论", "综合应用", "案例分析"},
	DifficultyAdvanced:     {"高级专题", "架构设计", "性能优化", "实战项目"},
}

// EnsureModules fills in the difficulty-keyed default module list when the
// course has none.
func (c *Course) EnsureModules() {
	if len(c.Modules) > 0 {
		return
	}
	defaults, ok := difficultyModules[c.Difficulty]
	if !ok {
		defaults = difficultyModules[DifficultyBeginner]
	}
	c.Modules = append([]string(nil), defaults...)
}

// AddModule appends a custom module name, deduplicated by exact match.
// Returns false when the name is already present.
func (c *Course) AddModule(name string) bool {
	for _, existing := range c.Modules {
		if existing == name {
			return false
		}
	}
	c.Modules = append(c.Modules, name)
	return true
}

// ModuleMastery tracks one module's retention state within a learned course.
type ModuleMastery struct {
	Name            string    `json:"name"`
	LastLearnedDate time.Time `json:"lastLearnedDate"`
	LearningCount   int       `json:"learningCount"`
	ReviewCount     int       `json:"reviewCount"`
	MasteryLevel    float64   `json:"masteryLevel"`
	NextReviewDate  time.Time `json:"nextReviewDate"`
}

// LearnedCourse exists for every course taught at least once. Modules keeps
// first-taught order so review queues and serialized state are deterministic.
type LearnedCourse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Difficulty       Difficulty       `json:"difficulty"`
	FirstLearnedDate time.Time        `json:"firstLearnedDate"`
	LastLearnedDate  time.Time        `json:"lastLearnedDate"`
	LearningCount    int              `json:"learningCount"`
	Modules          []*ModuleMastery `json:"modules"`
}

func (c *LearnedCourse) moduleByName(name string) *ModuleMastery {
	for _, m := range c.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// State is the serializable snapshot of everything the learner has studied.
type State struct {
	Courses []*LearnedCourse `json:"courses"`
	History []HistoryEntry   `json:"history"`
}

// Model owns the mutable mastery state. All mutations go through its methods
// so the CLI flow and the reminder scheduler can share one instance.
type Model struct {
	mu    sync.Mutex
	state State
}

func NewModel(state State) *Model {
	return &Model{state: state}
}

// Teach records a teaching session. An empty module records general course
// content only and never creates a ModuleMastery entry.
func (m *Model) Teach(course Course, module string, now time.Time) *LearnedCourse {
	m.mu.Lock()
	defer m.mu.Unlock()

	learned := m.findCourse(course.ID)
	if learned == nil {
		learned = &LearnedCourse{
			ID:               course.ID,
			Name:             course.Name,
			Difficulty:       course.Difficulty,
			FirstLearnedDate: now,
			LastLearnedDate:  now,
			LearningCount:    1,
		}
		m.state.Courses = append(m.state.Courses, learned)
	} else {
		learned.LearningCount++
		learned.LastLearnedDate = now
	}

	if module == "" {
		return learned
	}

	mm := learned.moduleByName(module)
	if mm == nil {
		mm = &ModuleMastery{
			Name:            module,
			LastLearnedDate: now,
			LearningCount:   1,
			MasteryLevel:    MinLevel,
			NextReviewDate:  now.Add(IntervalFor(MinLevel)),
		}
		learned.Modules = append(learned.Modules, mm)
		return learned
	}

	mm.LearningCount++
	mm.LastLearnedDate = now
	if mm.MasteryLevel < MaxLevel {
		mm.MasteryLevel = math.Min(MaxLevel, mm.MasteryLevel+LevelStep)
	}
	mm.NextReviewDate = now.Add(IntervalFor(mm.MasteryLevel))
	return learned
}

// MarkReviewed bumps a module's review counter without changing its level.
func (m *Model) MarkReviewed(courseID, module string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	learned := m.findCourse(courseID)
	if learned == nil {
		return false
	}
	mm := learned.moduleByName(module)
	if mm == nil {
		return false
	}
	mm.ReviewCount++
	mm.LastLearnedDate = now
	mm.NextReviewDate = now.Add(IntervalFor(mm.MasteryLevel))
	return true
}

// Courses returns learned courses in first-taught order.
func (m *Model) Courses() []*LearnedCourse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*LearnedCourse(nil), m.state.Courses...)
}

// FindCourse looks up a learned course by id.
func (m *Model) FindCourse(id string) *LearnedCourse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCourse(id)
}

func (m *Model) findCourse(id string) *LearnedCourse {
	for _, c := range m.state.Courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Snapshot copies the current state for serialization.
func (m *Model) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := State{
		Courses: make([]*LearnedCourse, 0, len(m.state.Courses)),
		History: append([]HistoryEntry(nil), m.state.History...),
	}
	for _, c := range m.state.Courses {
		course := *c
		course.Modules = make([]*ModuleMastery, 0, len(c.Modules))
		for _, mm := range c.Modules {
			moduleCopy := *mm
			course.Modules = append(course.Modules, &moduleCopy)
		}
		snapshot.Courses = append(snapshot.Courses, &course)
	}
	return snapshot
}

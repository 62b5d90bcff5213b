package mastery

import "time"

// AllContent marks a history entry about the whole course rather than one
// module.
const AllContent = "all-content"

// MethodFeynman is the only teaching method currently generated.
const MethodFeynman = "feynman"

// HistoryEntry records one generated teaching session, append-only.
type HistoryEntry struct {
	Course             string    `json:"course"`
	CourseID           string    `json:"courseId"`
	Module             string    `json:"module"`
	Timestamp          time.Time `json:"timestamp"`
	Content            string    `json:"content"`
	Method             string    `json:"method"`
	MasteryLevelAtTime float64   `json:"masteryLevelAtTime"`
}

// AppendHistory records a generated teaching session. An empty module is
// stored as the whole-course marker.
func (m *Model) AppendHistory(entry HistoryEntry) {
	if entry.Module == "" {
		entry.Module = AllContent
	}
	if entry.Method == "" {
		entry.Method = MethodFeynman
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History = append(m.state.History, entry)
}

// History returns the teaching history in append order.
func (m *Model) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]HistoryEntry(nil), m.state.History...)
}

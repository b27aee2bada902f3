package domain

import "math"

// Quest is a read-only snapshot of a player's quest.
// Progress may exceed Target; the backend owns completion.
type Quest struct {
	QuestID     string `json:"quest_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
	Reward      Reward `json:"reward"`
}

// ProgressPercent returns progress as a percentage clamped to [0, 100]
func (q Quest) ProgressPercent() int {
	if q.Target <= 0 || q.Progress <= 0 {
		return 0
	}
	pct := int(math.Round(float64(q.Progress) / float64(q.Target) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Event is a limited-time themed event advertised by the backend
type Event struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Theme   string `json:"theme,omitempty"`
}

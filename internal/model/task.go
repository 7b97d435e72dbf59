package model

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a user-owned to-do item. Dates are epoch milliseconds; the
// optional fields are omitted from JSON when unset.
type Task struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Completed          bool   `json:"completed"`
	PomodorosCompleted int    `json:"pomodorosCompleted"`
	CreatedAt          int64  `json:"createdAt"`
	Priority           string `json:"priority"`
	Description        string `json:"description,omitempty"`
	StartDate          int64  `json:"startDate,omitempty"`
	EndDate            int64  `json:"endDate,omitempty"`
	EstimatedDuration  int    `json:"estimatedDuration,omitempty"`
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title              *string `json:"title,omitempty"`
	Completed          *bool   `json:"completed,omitempty"`
	PomodorosCompleted *int    `json:"pomodorosCompleted,omitempty"`
	Priority           *string `json:"priority,omitempty"`
	Description        *string `json:"description,omitempty"`
	StartDate          *int64  `json:"startDate,omitempty"`
	EndDate            *int64  `json:"endDate,omitempty"`
	EstimatedDuration  *int    `json:"estimatedDuration,omitempty"`
}

// Apply copies the set fields of the patch onto the task.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.PomodorosCompleted != nil {
		t.PomodorosCompleted = *p.PomodorosCompleted
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.EstimatedDuration != nil {
		t.EstimatedDuration = *p.EstimatedDuration
	}
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

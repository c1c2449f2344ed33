package estimates

import "time"

// PlannedSubtask is a step-1 subtask: a name with no estimate yet.
type PlannedSubtask struct {
	Subtask string `json:"subtask"`
}

// PlannedTask groups step-1 subtasks under a major task.
type PlannedTask struct {
	Task     string           `json:"task"`
	Subtasks []PlannedSubtask `json:"subtasks"`
}

// TaskPlan is the decomposition returned by the first LLM call.
type TaskPlan struct {
	Tasks []PlannedTask `json:"tasks"`
}

// Subtask is an estimated unit of work.
type Subtask struct {
	Subtask  string `json:"subtask"`
	Hours    int    `json:"hours"`
	Comments string `json:"comments"`
}

// Task groups estimated subtasks under a major task.
type Task struct {
	Task     string    `json:"task"`
	Subtasks []Subtask `json:"subtasks"`
}

// Summary aggregates an estimate plan.
type Summary struct {
	TotalHours  int `json:"total_hours"`
	NumTasks    int `json:"num_tasks"`
	NumSubtasks int `json:"num_subtasks"`
}

// Estimates is the payload returned to clients.
type Estimates struct {
	Tasks   []Task  `json:"tasks"`
	Summary Summary `json:"summary"`
}

// CostEstimate is one persisted subtask estimate.
type CostEstimate struct {
	ID        int64
	ProjectID int64
	Task      string
	// TaskPosition is the task's index in the estimate plan. It keeps
	// same-named tasks apart on read-back.
	TaskPosition     int
	Subtask          string
	DevelopmentHours int
	Comments         string
	CreatedAt        time.Time
}

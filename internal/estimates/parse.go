package estimates

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

type rawSubtask struct {
	Subtask  *string      `json:"subtask"`
	Hours    *json.Number `json:"hours"`
	Comments *string      `json:"comments"`
}

type rawTask struct {
	Task     *string       `json:"task"`
	Subtasks *[]rawSubtask `json:"subtasks"`
}

// ParseTaskPlan decodes the task decomposition response.
func ParseTaskPlan(raw string) (TaskPlan, error) {
	tasks, err := decodeTasks(raw)
	if err != nil {
		return TaskPlan{}, err
	}
	plan := TaskPlan{Tasks: make([]PlannedTask, 0, len(tasks))}
	for i, t := range tasks {
		name, subs, err := checkTask(i, t)
		if err != nil {
			return TaskPlan{}, err
		}
		planned := PlannedTask{Task: name, Subtasks: make([]PlannedSubtask, 0, len(subs))}
		for j, st := range subs {
			if st.Subtask == nil {
				return TaskPlan{}, fmt.Errorf("%w: tasks[%d].subtasks[%d] missing subtask", ErrSchemaMismatch, i, j)
			}
			planned.Subtasks = append(planned.Subtasks, PlannedSubtask{Subtask: *st.Subtask})
		}
		plan.Tasks = append(plan.Tasks, planned)
	}
	return plan, nil
}

// ParseEstimatePlan decodes the hour estimation response. Every subtask must
// carry a whole, non-negative hours value and a comments string.
func ParseEstimatePlan(raw string) ([]Task, error) {
	tasks, err := decodeTasks(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(tasks))
	for i, t := range tasks {
		name, subs, err := checkTask(i, t)
		if err != nil {
			return nil, err
		}
		task := Task{Task: name, Subtasks: make([]Subtask, 0, len(subs))}
		for j, st := range subs {
			if st.Subtask == nil {
				return nil, fmt.Errorf("%w: tasks[%d].subtasks[%d] missing subtask", ErrSchemaMismatch, i, j)
			}
			if st.Comments == nil {
				return nil, fmt.Errorf("%w: tasks[%d].subtasks[%d] missing comments", ErrSchemaMismatch, i, j)
			}
			hours, err := wholeHours(st.Hours)
			if err != nil {
				return nil, fmt.Errorf("%w: tasks[%d].subtasks[%d] %v", ErrSchemaMismatch, i, j, err)
			}
			task.Subtasks = append(task.Subtasks, Subtask{
				Subtask:  *st.Subtask,
				Hours:    hours,
				Comments: *st.Comments,
			})
		}
		out = append(out, task)
	}
	return out, nil
}

func decodeTasks(raw string) ([]rawTask, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	tasks := gjson.Get(payload, "tasks")
	if !tasks.Exists() {
		return nil, ErrMissingTasks
	}
	if !tasks.IsArray() {
		return nil, fmt.Errorf("%w: tasks is not an array", ErrSchemaMismatch)
	}
	var out []rawTask
	if err := json.Unmarshal([]byte(tasks.Raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return out, nil
}

func checkTask(i int, t rawTask) (string, []rawSubtask, error) {
	if t.Task == nil {
		return "", nil, fmt.Errorf("%w: tasks[%d] missing task", ErrSchemaMismatch, i)
	}
	if t.Subtasks == nil {
		return "", nil, fmt.Errorf("%w: tasks[%d] missing subtasks", ErrSchemaMismatch, i)
	}
	return *t.Task, *t.Subtasks, nil
}

func wholeHours(n *json.Number) (int, error) {
	if n == nil {
		return 0, errors.New("missing hours")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", n.String())
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("hours %s is not a whole non-negative number", n.String())
	}
	return int(f), nil
}

// extractJSONObject tolerates prose or code fences around the JSON object.
func extractJSONObject(raw string) (string, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return "", errors.New("empty llm response")
	}
	if json.Valid([]byte(payload)) {
		return payload, nil
	}

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no json object found")
	}

	candidate := payload[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errors.New("invalid json object")
	}
	return candidate, nil
}

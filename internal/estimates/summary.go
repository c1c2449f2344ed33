package estimates

// Summarize totals the hours and counts tasks and subtasks.
func Summarize(tasks []Task) Summary {
	s := Summary{NumTasks: len(tasks)}
	for _, t := range tasks {
		for _, st := range t.Subtasks {
			s.TotalHours += st.Hours
			s.NumSubtasks++
		}
	}
	return s
}

// FromRecords regroups persisted rows into the tasks shape. Rows arrive in
// insert order; a new task starts whenever the task position or name
// changes, so same-named tasks stay separate. Tasks without subtasks are
// never stored and do not come back.
func FromRecords(rows []CostEstimate) Estimates {
	tasks := []Task{}
	for i, r := range rows {
		if i == 0 || rows[i-1].TaskPosition != r.TaskPosition || rows[i-1].Task != r.Task {
			tasks = append(tasks, Task{Task: r.Task, Subtasks: []Subtask{}})
		}
		last := &tasks[len(tasks)-1]
		last.Subtasks = append(last.Subtasks, Subtask{
			Subtask:  r.Subtask,
			Hours:    r.DevelopmentHours,
			Comments: r.Comments,
		})
	}
	return Estimates{Tasks: tasks, Summary: Summarize(tasks)}
}

func toRecords(projectID int64, tasks []Task) []CostEstimate {
	var rows []CostEstimate
	for pos, t := range tasks {
		for _, st := range t.Subtasks {
			rows = append(rows, CostEstimate{
				ProjectID:        projectID,
				Task:             t.Task,
				TaskPosition:     pos,
				Subtask:          st.Subtask,
				DevelopmentHours: st.Hours,
				Comments:         st.Comments,
			})
		}
	}
	return rows
}

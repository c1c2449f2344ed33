package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cost-estimator/internal/estimates"
	"cost-estimator/internal/resources"
)

func sampleInput() Input {
	timeline := 12
	tasks := []estimates.Task{
		{Task: "Backend", Subtasks: []estimates.Subtask{
			{Subtask: "Auth API", Hours: 8, Comments: "JWT | sessions"},
			{Subtask: "Billing", Hours: 5, Comments: "Stripe\nwebhooks"},
		}},
		{Task: "QA", Subtasks: []estimates.Subtask{{Subtask: "E2E", Hours: 3, Comments: "<script>alert(1)</script>"}}},
	}
	return Input{
		ProjectID:   7,
		ProjectName: "Clinic Portal",
		ProjectSize: "medium",
		Industry:    "Healthcare",
		Budget:      "25000.00",
		Timeline:    &timeline,
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Estimates:   estimates.Estimates{Tasks: tasks, Summary: estimates.Summarize(tasks)},
		Resources:   resources.Allocate("medium"),
	}
}

func TestMarkdownIncludesTables(t *testing.T) {
	out := Markdown(sampleInput())

	assert.Contains(t, out, "# Project Estimate Results: Clinic Portal")
	assert.Contains(t, out, "| Backend | Auth API | 8 | JWT \\| sessions |")
	assert.Contains(t, out, "| Backend | Billing | 5 | Stripe webhooks |")
	assert.Contains(t, out, "| Total Hours | 16 |")
	assert.Contains(t, out, "| Total Tasks | 2 |")
	assert.Contains(t, out, "| Project Manager | Full | 15% | 1 |")
	assert.Contains(t, out, "| Timeline | 12 |")
	assert.Contains(t, out, "| Created | 2024-05-01T10:00:00Z |")
}

func TestMarkdownInvalidResources(t *testing.T) {
	in := sampleInput()
	in.Resources = resources.Allocate("gigantic")

	out := Markdown(in)
	assert.Contains(t, out, resources.ErrInvalidSize)
	assert.NotContains(t, out, "| Role |")
}

func TestHTMLRendersTables(t *testing.T) {
	out, err := HTML(sampleInput())
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Project Estimate Results: Clinic Portal</h1>")
	assert.Equal(t, 4, strings.Count(out, "<table>"))
	assert.Contains(t, out, "<th>Task</th>")
	assert.Contains(t, out, "Auth API")
	assert.NotContains(t, out, "<script>")
}

package estimates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTaskPromptEmbedsInputs(t *testing.T) {
	prompt := BuildTaskPrompt("Build a booking portal.", "Go, React, Postgres")

	assert.Contains(t, prompt, "Build a booking portal.")
	assert.Contains(t, prompt, "Go, React, Postgres")
	assert.Contains(t, prompt, `"subtask": "Specific subtask description"`)
	assert.NotContains(t, prompt, "{{")
	assert.Equal(t, prompt, BuildTaskPrompt("Build a booking portal.", "Go, React, Postgres"))
}

func TestBuildTaskPromptDoesNotExpandPlaceholdersInInput(t *testing.T) {
	prompt := BuildTaskPrompt("literal {{ADDITIONAL_INFO}} text", "info")
	assert.Contains(t, prompt, "literal {{ADDITIONAL_INFO}} text")
}

func TestBuildEstimatePromptEmbedsInputs(t *testing.T) {
	c := DefaultCatalog()
	plan := TaskPlan{Tasks: []PlannedTask{{Task: "Backend", Subtasks: []PlannedSubtask{{Subtask: "Auth API"}}}}}

	prompt, err := BuildEstimatePrompt(EstimatePromptInput{
		ProjectName:    "Shopfront",
		ProjectSize:    "small",
		Industry:       "E Commerce",
		AdditionalInfo: "Go and Vue",
		HoursRange:     c.HoursRange("small"),
		FocusAreas:     c.FocusAreas("E Commerce"),
		Plan:           plan,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Project Name: Shopfront")
	assert.Contains(t, prompt, "Project Size: small (estimated range: 40-120 Hours)")
	assert.Contains(t, prompt, "Key Focus Areas: payment processing, inventory, shopping cart, order management")
	assert.Contains(t, prompt, "Go and Vue")
	assert.Contains(t, prompt, `"task": "Backend"`)
	assert.Contains(t, prompt, `"subtask": "Auth API"`)
	assert.Contains(t, prompt, "E Commerce industry")
	assert.False(t, strings.Contains(prompt, "{{"), "unreplaced placeholder in prompt")
}

package estimates

import (
	_ "embed"
	"encoding/json"
	"strings"
)

var (
	//go:embed prompts/task_breakdown.txt
	taskBreakdownTemplate string
	//go:embed prompts/hour_estimate.txt
	hourEstimateTemplate string
)

// BuildTaskPrompt renders the task decomposition prompt.
func BuildTaskPrompt(documentContent, additionalInfo string) string {
	replacer := strings.NewReplacer(
		"{{DOCUMENT_CONTENT}}", documentContent,
		"{{ADDITIONAL_INFO}}", additionalInfo,
	)
	return replacer.Replace(taskBreakdownTemplate)
}

// EstimatePromptInput carries the project facts embedded in the estimate prompt.
type EstimatePromptInput struct {
	ProjectName    string
	ProjectSize    string
	Industry       string
	AdditionalInfo string
	HoursRange     string
	FocusAreas     []string
	Plan           TaskPlan
}

// BuildEstimatePrompt renders the hour estimation prompt around the step-1 plan.
func BuildEstimatePrompt(in EstimatePromptInput) (string, error) {
	planJSON, err := json.MarshalIndent(in.Plan, "", "  ")
	if err != nil {
		return "", err
	}
	replacer := strings.NewReplacer(
		"{{PROJECT_NAME}}", in.ProjectName,
		"{{PROJECT_SIZE}}", in.ProjectSize,
		"{{HOURS_RANGE}}", in.HoursRange,
		"{{INDUSTRY}}", in.Industry,
		"{{FOCUS_AREAS}}", strings.Join(in.FocusAreas, ", "),
		"{{ADDITIONAL_INFO}}", in.AdditionalInfo,
		"{{TASKS_JSON}}", string(planJSON),
	)
	return replacer.Replace(hourEstimateTemplate), nil
}

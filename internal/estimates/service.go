package estimates

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cost-estimator/internal/llm"
	"cost-estimator/internal/shared/metrics"
	"cost-estimator/internal/shared/telemetry"
)

// Input carries the persisted project facts the pipeline needs.
type Input struct {
	ProjectID       int64
	ProjectName     string
	ProjectSize     string
	Industry        string
	AdditionalInfo  string
	DocumentContent string
}

// Service runs the two-step estimation pipeline.
type Service struct {
	LLM     llm.Client
	Repo    Repo
	Catalog *Catalog
}

// Run decomposes the project into tasks, estimates hours per subtask,
// persists the estimates and returns them with a summary. Any failure is
// wrapped in ErrPipeline and nothing partial is returned.
func (s *Service) Run(ctx context.Context, in Input) (*Estimates, error) {
	if s.LLM == nil || s.Repo == nil {
		return nil, fmt.Errorf("%w: missing dependencies", ErrPipeline)
	}
	start := time.Now()
	metrics.IncEstimationStarted()

	out, stage, err := s.run(ctx, in)
	metrics.ObserveEstimationDuration(time.Since(start))
	if err != nil {
		metrics.IncEstimationFailed()
		telemetry.Error("estimates.failed", map[string]any{
			"project_id":  in.ProjectID,
			"stage":       stage,
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, fmt.Errorf("%w: %s: %w", ErrPipeline, stage, err)
	}

	metrics.IncEstimationSucceeded()
	telemetry.Info("estimates.complete", map[string]any{
		"project_id":   in.ProjectID,
		"total_hours":  out.Summary.TotalHours,
		"num_tasks":    out.Summary.NumTasks,
		"num_subtasks": out.Summary.NumSubtasks,
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return out, nil
}

func (s *Service) run(ctx context.Context, in Input) (*Estimates, string, error) {
	catalog := s.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	raw, err := s.LLM.Complete(ctx, BuildTaskPrompt(in.DocumentContent, in.AdditionalInfo))
	if err != nil {
		return nil, "decompose", err
	}
	plan, err := ParseTaskPlan(raw)
	if err != nil {
		return nil, "decompose", err
	}

	hoursRange := catalog.HoursRange(in.ProjectSize)
	prompt, err := BuildEstimatePrompt(EstimatePromptInput{
		ProjectName:    in.ProjectName,
		ProjectSize:    in.ProjectSize,
		Industry:       in.Industry,
		AdditionalInfo: in.AdditionalInfo,
		HoursRange:     hoursRange,
		FocusAreas:     catalog.FocusAreas(in.Industry),
		Plan:           plan,
	})
	if err != nil {
		return nil, "estimate", err
	}
	raw, err = s.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, "estimate", err
	}
	tasks, err := ParseEstimatePlan(raw)
	if err != nil {
		return nil, "estimate", err
	}

	if err := s.Repo.CreateBatch(ctx, toRecords(in.ProjectID, tasks)); err != nil {
		return nil, "persist", err
	}

	summary := Summarize(tasks)
	warnIfOutOfRange(in, hoursRange, summary.TotalHours)
	return &Estimates{Tasks: tasks, Summary: summary}, "", nil
}

// ForProject loads persisted estimates and regroups them.
func (s *Service) ForProject(ctx context.Context, projectID int64) (Estimates, error) {
	if s.Repo == nil {
		return Estimates{}, errors.New("missing dependencies")
	}
	rows, err := s.Repo.ListByProject(ctx, projectID)
	if err != nil {
		return Estimates{}, err
	}
	return FromRecords(rows), nil
}

var rangePattern = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)

// parseHoursRange reads "40-120 Hours" style labels. A trailing "+" leaves
// the range open-ended (hi 0).
func parseHoursRange(label string) (lo, hi int, ok bool) {
	m := rangePattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, false
	}
	lo, _ = strconv.Atoi(m[1])
	hi, _ = strconv.Atoi(m[2])
	if strings.Contains(label, "+") {
		hi = 0
	}
	return lo, hi, true
}

// The range is a prompt target only; totals outside it are logged, never clamped.
func warnIfOutOfRange(in Input, hoursRange string, total int) {
	lo, hi, ok := parseHoursRange(hoursRange)
	if !ok {
		return
	}
	if total >= lo && (hi == 0 || total <= hi) {
		return
	}
	telemetry.Warn("estimates.out_of_range", map[string]any{
		"project_id":   in.ProjectID,
		"project_size": in.ProjectSize,
		"hours_range":  hoursRange,
		"total_hours":  total,
	})
}

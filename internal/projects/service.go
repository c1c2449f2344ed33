package projects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"cost-estimator/internal/estimates"
	"cost-estimator/internal/extract"
	"cost-estimator/internal/resources"
	"cost-estimator/internal/shared/metrics"
	"cost-estimator/internal/shared/storage/object"
	"cost-estimator/internal/shared/telemetry"
)

const missingFieldsMessage = "All required fields (project_name, project_size, budget, industry) must be provided."

// NUMERIC(12,2) holds at most ten integer digits.
const maxBudget = 1e10

// Estimator runs and reloads project estimates.
type Estimator interface {
	Run(ctx context.Context, in estimates.Input) (*estimates.Estimates, error)
	ForProject(ctx context.Context, projectID int64) (estimates.Estimates, error)
}

// Attachment is an uploaded file held in memory.
type Attachment struct {
	FileName string
	Data     []byte
}

// Submission is the raw intake form.
type Submission struct {
	ProjectName    string
	ProjectSize    string
	Budget         string
	Timeline       string
	Industry       string
	AdditionalInfo string
	Attachment     *Attachment
}

// Result is what a successful submission returns.
type Result struct {
	Project   Project
	Estimates *estimates.Estimates
	Resources resources.Allocation
}

// Detail is a stored project with its estimates and staffing plan.
type Detail struct {
	Project   Project
	Estimates estimates.Estimates
	Resources resources.Allocation
}

// Service coordinates intake, persistence and estimation.
type Service struct {
	Repo              Repo
	Store             object.ObjectStore
	Estimator         Estimator
	AllowedExtensions []string
}

// Submit validates the form, extracts attachment text, persists the project
// and runs the estimation pipeline. On ErrEstimation the returned Result still
// carries the saved project.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	if s.Repo == nil || s.Estimator == nil {
		return Result{}, errors.New("missing dependencies")
	}

	p, err := newProject(sub)
	if err != nil {
		return Result{}, err
	}

	if att := sub.Attachment; att != nil && strings.TrimSpace(att.FileName) != "" {
		if err := s.attach(ctx, &p, att); err != nil {
			return Result{}, err
		}
	}

	saved, err := s.Repo.Create(ctx, p)
	if err != nil {
		s.discardAttachment(ctx, p.AttachmentKey)
		return Result{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	metrics.IncProjectsCreated()
	telemetry.Info("project.created", map[string]any{
		"project_id":   saved.ID,
		"project_size": saved.Size,
		"industry":     saved.Industry,
		"has_document": saved.DocumentContent != "",
	})

	est, err := s.Estimator.Run(ctx, estimates.Input{
		ProjectID:       saved.ID,
		ProjectName:     saved.Name,
		ProjectSize:     saved.Size,
		Industry:        saved.Industry,
		AdditionalInfo:  saved.AdditionalInfo,
		DocumentContent: saved.DocumentContent,
	})
	if err != nil {
		return Result{Project: saved}, fmt.Errorf("%w: %w", ErrEstimation, err)
	}

	return Result{
		Project:   saved,
		Estimates: est,
		Resources: resources.Allocate(saved.Size),
	}, nil
}

// attach extracts the attachment text into p and archives the raw bytes.
// Files without an extension are ignored.
func (s *Service) attach(ctx context.Context, p *Project, att *Attachment) error {
	ext := extract.Extension(att.FileName)
	if ext == "" {
		return nil
	}
	if !s.allowed(ext) {
		return invalid(s.unsupportedMessage())
	}

	text, err := extract.FromBytes(ctx, att.Data, att.FileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			return invalid(s.unsupportedMessage())
		}
		return fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	p.DocumentContent = text
	p.AttachmentName = att.FileName

	if s.Store == nil {
		return nil
	}
	key, size, mimeType, err := s.Store.Save(ctx, p.Name, att.FileName, bytes.NewReader(att.Data))
	if err != nil {
		telemetry.Warn("project.attachment_archive_failed", map[string]any{
			"file_name": att.FileName,
			"error":     err.Error(),
		})
		return nil
	}
	p.AttachmentKey = key
	telemetry.Info("project.attachment_archived", map[string]any{
		"storage_key": key,
		"size_bytes":  size,
		"mime_type":   mimeType,
	})
	return nil
}

// discardAttachment removes an archived attachment no project row points to.
func (s *Service) discardAttachment(ctx context.Context, key string) {
	if s.Store == nil || key == "" {
		return
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("project.attachment_discard_failed", map[string]any{
			"storage_key": key,
			"error":       err.Error(),
		})
	}
}

// allowedList is the configured allow-list narrowed to extensions that have
// an extractor. An empty result falls back to every supported extension.
func (s *Service) allowedList() []string {
	supported := extract.Supported()
	var out []string
	for _, ext := range s.AllowedExtensions {
		if slices.Contains(supported, ext) && !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	if len(out) == 0 {
		return supported
	}
	return out
}

func (s *Service) allowed(ext string) bool {
	for _, a := range s.allowedList() {
		if a == ext {
			return true
		}
	}
	return false
}

func (s *Service) unsupportedMessage() string {
	return fmt.Sprintf("Unsupported file type. Allowed types are: %s.", strings.Join(s.allowedList(), ", "))
}

// Get returns a stored project with its estimates and staffing plan.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	est, err := s.Estimator.ForProject(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Project: p, Estimates: est, Resources: resources.Allocate(p.Size)}, nil
}

// List returns projects newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Project, error) {
	return s.Repo.List(ctx, limit, offset)
}

// OpenAttachment streams the archived attachment of a project.
func (s *Service) OpenAttachment(ctx context.Context, id int64) (Project, io.ReadCloser, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Project{}, nil, err
	}
	if s.Store == nil || p.AttachmentKey == "" {
		return Project{}, nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, p.AttachmentKey)
	if err != nil {
		return Project{}, nil, err
	}
	return p, rc, nil
}

func newProject(sub Submission) (Project, error) {
	p := Project{
		Name:           strings.TrimSpace(sub.ProjectName),
		Size:           strings.TrimSpace(sub.ProjectSize),
		Industry:       strings.TrimSpace(sub.Industry),
		AdditionalInfo: sub.AdditionalInfo,
	}
	rawBudget := strings.TrimSpace(sub.Budget)
	if p.Name == "" || p.Size == "" || rawBudget == "" || p.Industry == "" {
		return Project{}, invalid(missingFieldsMessage)
	}

	budget, err := parseBudget(rawBudget)
	if err != nil {
		return Project{}, invalid("Invalid budget. Expected a non-negative decimal number.")
	}
	p.Budget = budget

	if raw := strings.TrimSpace(sub.Timeline); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil || t < 0 {
			return Project{}, invalid("Invalid timeline. Expected a non-negative whole number.")
		}
		p.Timeline = &t
	}
	return p, nil
}

func parseBudget(raw string) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(raw); err != nil {
		return pgtype.Numeric{}, err
	}
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return pgtype.Numeric{}, errors.New("budget is not a finite number")
	}
	if n.Int.Sign() < 0 {
		return pgtype.Numeric{}, errors.New("budget is negative")
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid || f.Float64 >= maxBudget {
		return pgtype.Numeric{}, errors.New("budget out of range")
	}
	return n, nil
}

package projects

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"cost-estimator/internal/estimates"
	"cost-estimator/internal/resources"
)

// SubmitResponse is the data payload of a successful intake.
type SubmitResponse struct {
	ProjectID int64                `json:"project_id"`
	Estimates *estimates.Estimates `json:"estimates"`
	Resources resources.Allocation `json:"resources"`
}

// ProjectResponse is the outward-facing representation of a project.
type ProjectResponse struct {
	ProjectID      int64          `json:"project_id"`
	ProjectName    string         `json:"project_name"`
	ProjectSize    string         `json:"project_size"`
	Budget         pgtype.Numeric `json:"budget"`
	Timeline       *int           `json:"timeline"`
	Industry       string         `json:"industry"`
	AdditionalInfo string         `json:"additional_info,omitempty"`
	AttachmentName string         `json:"attachment_name,omitempty"`
	HasDocument    bool           `json:"has_document"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DetailResponse is a project with its estimates and staffing plan.
type DetailResponse struct {
	Project   ProjectResponse      `json:"project"`
	Estimates estimates.Estimates  `json:"estimates"`
	Resources resources.Allocation `json:"resources"`
}

func toResponse(p Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:      p.ID,
		ProjectName:    p.Name,
		ProjectSize:    p.Size,
		Budget:         p.Budget,
		Timeline:       p.Timeline,
		Industry:       p.Industry,
		AdditionalInfo: p.AdditionalInfo,
		AttachmentName: p.AttachmentName,
		HasDocument:    p.DocumentContent != "",
		CreatedAt:      p.CreatedAt,
	}
}

func budgetText(n pgtype.Numeric) string {
	raw, err := n.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(raw)
}

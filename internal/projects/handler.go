package projects

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cost-estimator/internal/report"
	"cost-estimator/internal/shared/server/middleware"
	"cost-estimator/internal/shared/server/respond"
	"cost-estimator/internal/shared/telemetry"
)

const (
	defaultMaxUploadBytes = 10 << 20 // 10MB
	formOverheadBytes     = 1 << 20
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterIntake attaches the intake route to the router group.
func (h *Handler) RegisterIntake(rg gin.IRoutes) {
	rg.POST("/projectDetails", h.submit)
}

// RegisterRoutes attaches project read routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	h.RegisterIntake(rg)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.GET("/projects/:id/report", h.report)
	rg.GET("/projects/:id/attachment", h.attachment)
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverheadBytes)

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respond.Error(c, http.StatusBadRequest, h.tooLargeMessage(), nil)
			return
		case errors.Is(err, http.ErrNotMultipart):
			if err := c.Request.ParseForm(); err != nil {
				respond.Error(c, http.StatusBadRequest, "Invalid form data.", nil)
				return
			}
		default:
			respond.Error(c, http.StatusBadRequest, "Invalid form data.", nil)
			return
		}
	}

	sub := Submission{
		ProjectName:    c.PostForm("project_name"),
		ProjectSize:    c.PostForm("project_size"),
		Budget:         c.PostForm("budget"),
		Timeline:       c.PostForm("timeline"),
		Industry:       c.PostForm("industry"),
		AdditionalInfo: c.PostForm("additional_info"),
	}

	if fileHeader, err := c.FormFile("attachment"); err == nil && fileHeader.Filename != "" {
		if fileHeader.Size > h.MaxUploadBytes {
			respond.Error(c, http.StatusBadRequest, h.tooLargeMessage(), nil)
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Unable to read attachment.", nil)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Unable to read attachment.", nil)
			return
		}
		sub.Attachment = &Attachment{FileName: fileHeader.Filename, Data: data}
	}

	res, err := h.Svc.Submit(c.Request.Context(), sub)
	if res.Project.ID != 0 {
		c.Set(middleware.ProjectIDKey, res.Project.ID)
	}
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, verr.Message, nil)
		case errors.Is(err, ErrExtraction):
			respond.Error(c, http.StatusUnprocessableEntity, "Failed to extract text from attachment.", err)
		case errors.Is(err, ErrPersist):
			respond.Error(c, http.StatusInternalServerError, "Failed to save project to the database.", err)
		case errors.Is(err, ErrEstimation):
			respond.Error(c, http.StatusInternalServerError, "Failed to calculate estimates.", err)
		default:
			respond.Error(c, http.StatusInternalServerError, "An unexpected error occurred.", err)
		}
		return
	}

	respond.Success(c, http.StatusCreated,
		fmt.Sprintf("Project '%s' and estimates added successfully.", res.Project.Name),
		SubmitResponse{
			ProjectID: res.Project.ID,
			Estimates: res.Estimates,
			Resources: res.Resources,
		})
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("Attachment exceeds the maximum size of %d bytes.", h.MaxUploadBytes)
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list projects.", err)
		return
	}

	resp := make([]ProjectResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toResponse(p))
	}
	respond.Success(c, http.StatusOK, "", resp)
}

func (h *Handler) projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "Invalid project id.", nil)
		return 0, false
	}
	c.Set(middleware.ProjectIDKey, id)
	return id, true
}

func (h *Handler) loadDetail(c *gin.Context) (Detail, bool) {
	id, ok := h.projectID(c)
	if !ok {
		return Detail{}, false
	}
	detail, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Project not found.", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "Failed to load project.", err)
		}
		return Detail{}, false
	}
	return detail, true
}

func (h *Handler) get(c *gin.Context) {
	detail, ok := h.loadDetail(c)
	if !ok {
		return
	}
	respond.Success(c, http.StatusOK, "", DetailResponse{
		Project:   toResponse(detail.Project),
		Estimates: detail.Estimates,
		Resources: detail.Resources,
	})
}

func (h *Handler) report(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "markdown")))
	if format != "markdown" && format != "md" && format != "html" {
		respond.Error(c, http.StatusBadRequest, "Invalid report format. Expected 'markdown' or 'html'.", nil)
		return
	}

	detail, ok := h.loadDetail(c)
	if !ok {
		return
	}
	in := report.Input{
		ProjectID:   detail.Project.ID,
		ProjectName: detail.Project.Name,
		ProjectSize: detail.Project.Size,
		Industry:    detail.Project.Industry,
		Budget:      budgetText(detail.Project.Budget),
		Timeline:    detail.Project.Timeline,
		CreatedAt:   detail.Project.CreatedAt,
		Estimates:   detail.Estimates,
		Resources:   detail.Resources,
	}

	if format == "html" {
		out, err := report.HTML(in)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "Failed to render report.", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(in)))
}

func (h *Handler) attachment(c *gin.Context) {
	id, ok := h.projectID(c)
	if !ok {
		return
	}
	p, rc, err := h.Svc.OpenAttachment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Attachment not found.", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "Failed to open attachment.", err)
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": p.AttachmentName}))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Error("project.attachment_stream_failed", map[string]any{
			"project_id": id,
			"error":      err.Error(),
		})
	}
}

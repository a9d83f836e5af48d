package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/middleware"
	"github.com/noah-isme/ssp-api/internal/service"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
	"github.com/noah-isme/ssp-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type scheduleExporter interface {
	Render(resp *dto.GenerateScheduleResponse, format string) (*service.ExportFile, error)
}

// ScheduleGeneratorHandler exposes the schedule generation endpoints.
type ScheduleGeneratorHandler struct {
	service  scheduleGenerator
	exporter scheduleExporter
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService, exporter *service.ScheduleExportService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate every conflict-free schedule for a set of courses
// @Description Returns one schedule per valid combination of sections, avoiding the reserved times. Use format=csv or format=pdf to download the result.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Courses and reserved times"
// @Param format query string false "json (default), csv or pdf"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	h.handleGenerate(c)
}

// GenerateLegacy godoc
// @Summary Generate schedules (legacy path)
// @Description Same as /schedules/generate, kept for existing clients.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Courses and reserved times"
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleGeneratorHandler) GenerateLegacy(c *gin.Context) {
	h.handleGenerate(c)
}

func (h *ScheduleGeneratorHandler) handleGenerate(c *gin.Context) {
	format, err := service.NormalizeExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if format == service.ExportFormatJSON || h.exporter == nil {
		response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
		return
	}

	file, err := h.exporter.Render(result, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/middleware"
	"github.com/noah-isme/ssp-api/internal/models"
	"github.com/noah-isme/ssp-api/internal/service"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
	"github.com/noah-isme/ssp-api/pkg/response"
)

type catalogService interface {
	ListCourses(ctx context.Context, query dto.CourseQuery) ([]models.Course, *models.Pagination, error)
	SaveCourses(ctx context.Context, reqs []dto.SaveCourseRequest) ([]models.Course, error)
	ListSections(ctx context.Context, query dto.SectionQuery) ([]models.CourseSection, error)
	ListAllSections(ctx context.Context) ([]models.CourseSection, error)
	SaveSections(ctx context.Context, reqs []dto.SaveSectionRequest, replace bool) ([]models.CourseSection, error)
}

// CatalogHandler exposes course and section catalog endpoints.
type CatalogHandler struct {
	service catalogService
	logger  *zap.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{service: svc, logger: logger}
}

// ListCourses godoc
// @Summary List catalog courses
// @Tags Catalog
// @Produce json
// @Param department_id query string false "Department"
// @Param search query string false "Title search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /catalog/courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var query dto.CourseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	courses, pagination, err := h.service.ListCourses(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// SaveCourses godoc
// @Summary Add or update catalog courses
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body []dto.SaveCourseRequest true "Courses"
// @Success 201 {object} response.Envelope
// @Router /catalog/courses [post]
func (h *CatalogHandler) SaveCourses(c *gin.Context) {
	var reqs []dto.SaveCourseRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	courses, err := h.service.SaveCourses(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit(c, "catalog courses saved", len(courses))
	response.Created(c, courses)
}

// ListSections godoc
// @Summary List the sections of a course in catalog order
// @Tags Catalog
// @Produce json
// @Param department_id query string true "Department"
// @Param course_number query string true "Course number"
// @Success 200 {object} response.Envelope
// @Router /catalog/sections [get]
func (h *CatalogHandler) ListSections(c *gin.Context) {
	query := dto.SectionQuery{
		DepartmentID: c.Query("department_id"),
		CourseNumber: c.Query("course_number"),
	}
	sections, err := h.service.ListSections(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(sections))
	response.JSON(c, http.StatusOK, sections, nil, middleware.ExtractMeta(c))
}

// ListAllSections godoc
// @Summary List every offered section
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *CatalogHandler) ListAllSections(c *gin.Context) {
	sections, err := h.service.ListAllSections(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(sections))
	response.JSON(c, http.StatusOK, sections, nil, middleware.ExtractMeta(c))
}

// SaveSections godoc
// @Summary Add or update sections
// @Description With clear=true the existing section catalog is replaced.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body []dto.SaveSectionRequest true "Sections"
// @Param clear query bool false "Replace the whole catalog"
// @Success 201 {object} response.Envelope
// @Router /catalog/sections [post]
func (h *CatalogHandler) SaveSections(c *gin.Context) {
	replace := false
	if raw := c.Query("clear"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "clear must be a boolean"))
			return
		}
		replace = parsed
	}

	var reqs []dto.SaveSectionRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}
	sections, err := h.service.SaveSections(c.Request.Context(), reqs, replace)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit(c, "catalog sections saved", len(sections))
	response.Created(c, sections)
}

func (h *CatalogHandler) audit(c *gin.Context, msg string, count int) {
	fields := []zap.Field{zap.Int("count", count)}
	if claims := middleware.CurrentClaims(c); claims != nil {
		fields = append(fields, zap.String("user_id", claims.UserID), zap.String("role", string(claims.Role)))
	}
	h.logger.Info(msg, fields...)
}

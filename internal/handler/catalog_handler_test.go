package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/dto"
	internalmiddleware "github.com/noah-isme/ssp-api/internal/middleware"
	"github.com/noah-isme/ssp-api/internal/models"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
)

type catalogServiceMock struct {
	sectionQuery dto.SectionQuery
	savedReqs    []dto.SaveSectionRequest
	replace      bool
	courseQuery  dto.CourseQuery
}

func (m *catalogServiceMock) ListCourses(ctx context.Context, query dto.CourseQuery) ([]models.Course, *models.Pagination, error) {
	m.courseQuery = query
	return []models.Course{{DepartmentID: "CSCI", CourseNumber: "1010"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *catalogServiceMock) SaveCourses(ctx context.Context, reqs []dto.SaveCourseRequest) ([]models.Course, error) {
	return []models.Course{{DepartmentID: reqs[0].DepartmentID}}, nil
}

func (m *catalogServiceMock) ListSections(ctx context.Context, query dto.SectionQuery) ([]models.CourseSection, error) {
	m.sectionQuery = query
	if query.CourseNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department_id and course_number are required")
	}
	return []models.CourseSection{{SectionID: "01"}}, nil
}

func (m *catalogServiceMock) ListAllSections(ctx context.Context) ([]models.CourseSection, error) {
	return []models.CourseSection{{SectionID: "01"}, {SectionID: "02"}}, nil
}

func (m *catalogServiceMock) SaveSections(ctx context.Context, reqs []dto.SaveSectionRequest, replace bool) ([]models.CourseSection, error) {
	m.savedReqs = reqs
	m.replace = replace
	return []models.CourseSection{{SectionID: reqs[0].SectionID}}, nil
}

func newCatalogRouter(mock *catalogServiceMock, role models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &CatalogHandler{service: mock, logger: zap.NewNop()}
	router := gin.New()
	router.Use(internalmiddleware.WithResponseMeta())
	router.GET("/catalog/courses", h.ListCourses)
	router.GET("/catalog/sections", h.ListSections)
	router.GET("/schedule", h.ListAllSections)

	admin := router.Group("/")
	if role != "" {
		admin.Use(func(c *gin.Context) {
			c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: role})
			c.Next()
		})
	}
	admin.Use(internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.POST("/catalog/courses", h.SaveCourses)
	admin.POST("/catalog/sections", h.SaveSections)
	return router
}

func doRequest(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const sectionPayload = `[{"departmentId":"CSCI","courseNumber":"1010","sectionId":"01","instructor":"Ada","days":"MWF","startTime":"0900","endTime":"0950"}]`

func TestCatalogSaveSectionsAsAdmin(t *testing.T) {
	mock := &catalogServiceMock{}
	router := newCatalogRouter(mock, models.RoleAdmin)

	w := doRequest(router, http.MethodPost, "/catalog/sections?clear=true", []byte(sectionPayload))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mock.savedReqs, 1)
	assert.Equal(t, "MWF", mock.savedReqs[0].Days)
	assert.True(t, mock.replace)
}

func TestCatalogSaveSectionsRejectsBadClearFlag(t *testing.T) {
	mock := &catalogServiceMock{}
	router := newCatalogRouter(mock, models.RoleAdmin)

	w := doRequest(router, http.MethodPost, "/catalog/sections?clear=maybe", []byte(sectionPayload))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, mock.savedReqs)
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	mock := &catalogServiceMock{}

	w := doRequest(newCatalogRouter(mock, models.RoleStudent), http.MethodPost, "/catalog/sections", []byte(sectionPayload))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(newCatalogRouter(mock, ""), http.MethodPost, "/catalog/courses", []byte(`[]`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(newCatalogRouter(mock, models.RoleRoot), http.MethodPost, "/catalog/courses", []byte(`[{"departmentId":"CSCI","courseNumber":"1010","courseTitle":"Intro"}]`))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCatalogReads(t *testing.T) {
	mock := &catalogServiceMock{}
	router := newCatalogRouter(mock, "")

	w := doRequest(router, http.MethodGet, "/catalog/sections?department_id=CSCI&course_number=1010", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1010", mock.sectionQuery.CourseNumber)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doRequest(router, http.MethodGet, "/catalog/sections?department_id=CSCI", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = doRequest(router, http.MethodGet, "/catalog/courses?department_id=CSCI&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, mock.courseQuery.Page)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

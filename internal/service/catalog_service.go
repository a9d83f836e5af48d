package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/models"
	"github.com/noah-isme/ssp-api/internal/scheduler"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
)

type courseStore interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	BulkUpsert(ctx context.Context, courses []models.Course) error
}

type sectionStore interface {
	ListByCourse(ctx context.Context, departmentID, courseNumber string) ([]models.CourseSection, error)
	ListAll(ctx context.Context) ([]models.CourseSection, error)
	Save(ctx context.Context, sections []models.CourseSection, replace bool) error
}

// CatalogService manages courses and sections and serves section lookups to the generator.
type CatalogService struct {
	courses   courseStore
	sections  sectionStore
	cache     *SectionCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a catalog service. cache may be nil.
func NewCatalogService(courses courseStore, sections sectionStore, cache *SectionCache, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{courses: courses, sections: sections, cache: cache, validator: validate, logger: logger}
}

// SectionsFor returns the sections of one course in catalog order, reading through the cache.
func (s *CatalogService) SectionsFor(ctx context.Context, departmentID, courseNumber string) ([]scheduler.Section, error) {
	dept := normalizeCode(departmentID)
	number := normalizeCode(courseNumber)

	rows, hit := s.cache.Sections(ctx, dept, number)
	if !hit {
		var err error
		rows, err = s.sections.ListByCourse(ctx, dept, number)
		if err != nil {
			return nil, err
		}
		s.cache.StoreSections(ctx, dept, number, rows)
	}

	result := make([]scheduler.Section, 0, len(rows))
	for _, row := range rows {
		section, err := row.ToScheduler()
		if err != nil {
			s.logger.Error("stored section is malformed", zap.String("department_id", row.DepartmentID), zap.String("course_number", row.CourseNumber), zap.String("section_id", row.SectionID), zap.Error(err))
			return nil, err
		}
		result = append(result, section)
	}
	return result, nil
}

// ListCourses returns a page of catalog courses.
func (s *CatalogService) ListCourses(ctx context.Context, query dto.CourseQuery) ([]models.Course, *models.Pagination, error) {
	filter := models.CourseFilter{
		DepartmentID: strings.TrimSpace(query.DepartmentID),
		Search:       strings.TrimSpace(query.Search),
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// SaveCourses validates and upserts courses.
func (s *CatalogService) SaveCourses(ctx context.Context, reqs []dto.SaveCourseRequest) ([]models.Course, error) {
	if len(reqs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one course is required")
	}

	seen := make(map[string]struct{}, len(reqs))
	courses := make([]models.Course, 0, len(reqs))
	for i, req := range reqs {
		if err := s.validator.Struct(req); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid course at index %d", i))
		}
		course := models.Course{
			DepartmentID: normalizeCode(req.DepartmentID),
			CourseNumber: normalizeCode(req.CourseNumber),
			CourseTitle:  strings.TrimSpace(req.CourseTitle),
		}
		key := course.DepartmentID + " " + course.CourseNumber
		if _, dup := seen[key]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s listed twice", key))
		}
		seen[key] = struct{}{}
		courses = append(courses, course)
	}

	if err := s.courses.BulkUpsert(ctx, courses); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save courses")
	}
	s.logger.Info("catalog courses saved", zap.Int("count", len(courses)))
	return courses, nil
}

// ListSections returns the sections of one course.
func (s *CatalogService) ListSections(ctx context.Context, query dto.SectionQuery) ([]models.CourseSection, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "department_id and course_number are required")
	}
	sections, err := s.sections.ListByCourse(ctx, normalizeCode(query.DepartmentID), normalizeCode(query.CourseNumber))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, nil
}

// ListAllSections returns the whole offered schedule.
func (s *CatalogService) ListAllSections(ctx context.Context) ([]models.CourseSection, error) {
	sections, err := s.sections.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	return sections, nil
}

// SaveSections validates and stores sections. With replace the previous catalog is dropped.
// Cached lookups are invalidated after a successful write.
func (s *CatalogService) SaveSections(ctx context.Context, reqs []dto.SaveSectionRequest, replace bool) ([]models.CourseSection, error) {
	if len(reqs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one section is required")
	}

	seen := make(map[string]struct{}, len(reqs))
	sections := make([]models.CourseSection, 0, len(reqs))
	for i, req := range reqs {
		if err := s.validator.Struct(req); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid section at index %d", i))
		}
		row := models.CourseSection{
			DepartmentID: normalizeCode(req.DepartmentID),
			CourseNumber: normalizeCode(req.CourseNumber),
			SectionID:    strings.TrimSpace(req.SectionID),
			Instructor:   strings.TrimSpace(req.Instructor),
			Days:         normalizeCode(req.Days),
			StartTime:    strings.TrimSpace(req.StartTime),
			EndTime:      strings.TrimSpace(req.EndTime),
		}
		parsed, err := row.ToScheduler()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid meeting time for section at index %d", i))
		}
		// Store the canonical rendering so lookups round-trip.
		row.Days = parsed.Block.Days().Code()
		row.StartTime = scheduler.FormatClock(parsed.Block.Start())
		row.EndTime = scheduler.FormatClock(parsed.Block.End())

		key := row.DepartmentID + " " + row.CourseNumber + " " + row.SectionID
		if _, dup := seen[key]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("section %s listed twice", key))
		}
		seen[key] = struct{}{}
		sections = append(sections, row)
	}

	if err := s.sections.Save(ctx, sections, replace); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save sections")
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("catalog sections saved", zap.Int("count", len(sections)), zap.Bool("replace", replace))
	return sections, nil
}

func normalizeCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

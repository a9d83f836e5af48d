package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ssp-api/internal/models"
)

// CourseRepository provides persistence for catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses with optional filtering and pagination.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.DepartmentID))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("course_title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, department_id, course_number, course_title, created_at, updated_at %s ORDER BY department_id ASC, course_number ASC LIMIT %d OFFSET %d", base, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// BulkUpsert stores courses in a single transaction, updating titles of existing ones.
func (r *CourseRepository) BulkUpsert(ctx context.Context, courses []models.Course) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO courses (id, department_id, course_number, course_title, created_at, updated_at)
		VALUES (:id, :department_id, :course_number, :course_title, :created_at, :updated_at)
		ON CONFLICT (department_id, course_number) DO UPDATE
		SET course_title = EXCLUDED.course_title,
		    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range courses {
		course := &courses[i]
		if course.ID == "" {
			course.ID = uuid.NewString()
		}
		if course.CreatedAt.IsZero() {
			course.CreatedAt = now
		}
		course.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, course); err != nil {
			return fmt.Errorf("upsert course %s %s: %w", course.DepartmentID, course.CourseNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit course upsert: %w", err)
	}
	return nil
}

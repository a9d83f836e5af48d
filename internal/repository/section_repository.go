package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ssp-api/internal/models"
)

const sectionColumns = "id, department_id, course_number, section_id, instructor, days, start_time, end_time, created_at, updated_at"

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// SectionRepository provides persistence for course sections.
type SectionRepository struct {
	db      *sqlx.DB
	metrics queryObserver
}

// NewSectionRepository creates a new section repository. metrics may be nil.
func NewSectionRepository(db *sqlx.DB, metrics queryObserver) *SectionRepository {
	return &SectionRepository{db: db, metrics: metrics}
}

// ListByCourse returns a course's sections in catalog order (by section id).
func (r *SectionRepository) ListByCourse(ctx context.Context, departmentID, courseNumber string) ([]models.CourseSection, error) {
	const query = `SELECT ` + sectionColumns + ` FROM course_sections WHERE department_id = $1 AND course_number = $2 ORDER BY section_id ASC`
	start := time.Now()
	var sections []models.CourseSection
	err := r.db.SelectContext(ctx, &sections, query, departmentID, courseNumber)
	r.observe("sections_by_course", start)
	if err != nil {
		return nil, fmt.Errorf("list sections by course: %w", err)
	}
	return sections, nil
}

// ListAll returns every section ordered by course then section id.
func (r *SectionRepository) ListAll(ctx context.Context) ([]models.CourseSection, error) {
	const query = `SELECT ` + sectionColumns + ` FROM course_sections ORDER BY department_id ASC, course_number ASC, section_id ASC`
	start := time.Now()
	var sections []models.CourseSection
	err := r.db.SelectContext(ctx, &sections, query)
	r.observe("sections_all", start)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// Save upserts sections in one transaction. When replace is set the existing
// catalog is cleared first.
func (r *SectionRepository) Save(ctx context.Context, sections []models.CourseSection, replace bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin section save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if replace {
		if _, err = tx.ExecContext(ctx, `DELETE FROM course_sections`); err != nil {
			return fmt.Errorf("clear sections: %w", err)
		}
	}

	const query = `INSERT INTO course_sections (` + sectionColumns + `)
		VALUES (:id, :department_id, :course_number, :section_id, :instructor, :days, :start_time, :end_time, :created_at, :updated_at)
		ON CONFLICT (department_id, course_number, section_id) DO UPDATE
		SET instructor = EXCLUDED.instructor,
		    days = EXCLUDED.days,
		    start_time = EXCLUDED.start_time,
		    end_time = EXCLUDED.end_time,
		    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range sections {
		section := &sections[i]
		if section.ID == "" {
			section.ID = uuid.NewString()
		}
		if section.CreatedAt.IsZero() {
			section.CreatedAt = now
		}
		section.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, section); err != nil {
			return fmt.Errorf("upsert section %s of %s %s: %w", section.SectionID, section.DepartmentID, section.CourseNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit section save: %w", err)
	}
	return nil
}

func (r *SectionRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

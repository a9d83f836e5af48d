package models

import (
	"fmt"
	"time"

	"github.com/noah-isme/ssp-api/internal/scheduler"
)

// Course is a catalog entry identified by department and course number.
type Course struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CourseNumber string    `db:"course_number" json:"course_number"`
	CourseTitle  string    `db:"course_title" json:"course_title"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures filtering criteria for listing courses.
type CourseFilter struct {
	DepartmentID string
	Search       string
	Page         int
	PageSize     int
}

// CourseSection is one offered meeting pattern of a course. Days use the compact
// catalog code (M T W R F) and times are HHMM strings.
type CourseSection struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CourseNumber string    `db:"course_number" json:"course_number"`
	SectionID    string    `db:"section_id" json:"section_id"`
	Instructor   string    `db:"instructor" json:"instructor"`
	Days         string    `db:"days" json:"days"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ToScheduler converts the stored row into the generator's section type.
func (s CourseSection) ToScheduler() (scheduler.Section, error) {
	block, err := scheduler.ParseTimeBlock(s.Days, s.StartTime, s.EndTime)
	if err != nil {
		return scheduler.Section{}, fmt.Errorf("section %s of %s %s: %w", s.SectionID, s.DepartmentID, s.CourseNumber, err)
	}
	return scheduler.Section{
		DepartmentID: s.DepartmentID,
		CourseNumber: s.CourseNumber,
		SectionID:    s.SectionID,
		Instructor:   s.Instructor,
		Block:        block,
	}, nil
}

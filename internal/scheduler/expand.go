package scheduler

import (
	"context"
	"fmt"
	"strings"
)

// CourseKey identifies a catalog course.
type CourseKey struct {
	DepartmentID string
	CourseNumber string
}

func (k CourseKey) String() string {
	return k.DepartmentID + " " + k.CourseNumber
}

// Section is one offered meeting pattern of a course.
type Section struct {
	DepartmentID string
	CourseNumber string
	SectionID    string
	Instructor   string
	Block        TimeBlock
}

// Course returns the section's course key.
func (s Section) Course() CourseKey {
	return CourseKey{DepartmentID: s.DepartmentID, CourseNumber: s.CourseNumber}
}

// Reservation is a fixed personal commitment every schedule must respect.
type Reservation struct {
	Label string
	Block TimeBlock
}

// SlotGroup holds the mutually exclusive candidate sections for one course, in catalog order.
type SlotGroup struct {
	Course   CourseKey
	Sections []Section
}

// Plan is the expanded search input: one group per requested course plus the
// reservations that apply to every candidate schedule at once.
type Plan struct {
	Groups   []SlotGroup
	Reserved []Reservation
}

// SectionLookup fetches the catalog sections of a course in stable order.
type SectionLookup interface {
	SectionsFor(ctx context.Context, departmentID, courseNumber string) ([]Section, error)
}

// RequestError reports malformed generator input.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NoSectionsError reports a requested course with no catalog sections.
type NoSectionsError struct {
	DepartmentID string
	CourseNumber string
}

func (e *NoSectionsError) Error() string {
	return fmt.Sprintf("no sections found for course %s %s", e.DepartmentID, e.CourseNumber)
}

// Expand resolves each requested course into a slot group. Course order is preserved,
// and so is the catalog order of sections within each group.
func Expand(ctx context.Context, lookup SectionLookup, courses []CourseKey, reserved []Reservation) (Plan, error) {
	if len(courses) == 0 {
		return Plan{}, &RequestError{Field: "courses", Reason: "at least one course is required"}
	}
	seen := make(map[CourseKey]struct{}, len(courses))
	for i, course := range courses {
		field := fmt.Sprintf("courses[%d]", i)
		if strings.TrimSpace(course.DepartmentID) == "" {
			return Plan{}, &RequestError{Field: field + ".department_id", Reason: "is required"}
		}
		if strings.TrimSpace(course.CourseNumber) == "" {
			return Plan{}, &RequestError{Field: field + ".course_number", Reason: "is required"}
		}
		if _, dup := seen[course]; dup {
			return Plan{}, &RequestError{Field: field, Reason: fmt.Sprintf("course %s requested more than once", course)}
		}
		seen[course] = struct{}{}
	}

	groups := make([]SlotGroup, 0, len(courses))
	for _, course := range courses {
		sections, err := lookup.SectionsFor(ctx, course.DepartmentID, course.CourseNumber)
		if err != nil {
			return Plan{}, fmt.Errorf("lookup sections for %s: %w", course, err)
		}
		if len(sections) == 0 {
			return Plan{}, &NoSectionsError{DepartmentID: course.DepartmentID, CourseNumber: course.CourseNumber}
		}
		groups = append(groups, SlotGroup{Course: course, Sections: sections})
	}

	plan := Plan{Groups: groups}
	if len(reserved) > 0 {
		plan.Reserved = append([]Reservation(nil), reserved...)
	}
	return plan, nil
}

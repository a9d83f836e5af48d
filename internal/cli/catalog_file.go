package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/ssp-api/internal/models"
	"github.com/noah-isme/ssp-api/internal/scheduler"
)

// catalogFile is the on-disk YAML layout:
//
//	courses:
//	  - department_id: CSCI
//	    course_number: "1010"
//	    title: Intro to Programming
//	    sections:
//	      - {section_id: "01", instructor: Ada, days: MWF, start: "0900", end: "0950"}
type catalogFile struct {
	Courses []catalogCourse `yaml:"courses"`
}

type catalogCourse struct {
	DepartmentID string           `yaml:"department_id"`
	CourseNumber string           `yaml:"course_number"`
	Title        string           `yaml:"title"`
	Sections     []catalogSection `yaml:"sections"`
}

type catalogSection struct {
	SectionID  string `yaml:"section_id"`
	Instructor string `yaml:"instructor"`
	Days       string `yaml:"days"`
	Start      string `yaml:"start"`
	End        string `yaml:"end"`
}

// FileCatalog serves section lookups from a YAML catalog loaded into memory.
type FileCatalog struct {
	sections map[scheduler.CourseKey][]scheduler.Section
	courses  int
	total    int
}

// CatalogProblems collects every row that failed to parse.
type CatalogProblems []string

func (p CatalogProblems) Error() string {
	return fmt.Sprintf("catalog has %d problem(s):\n  %s", len(p), strings.Join(p, "\n  "))
}

// LoadCatalog reads and validates a YAML catalog. All problems are reported together.
func LoadCatalog(path string) (*FileCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes YAML catalog content.
func ParseCatalog(raw []byte) (*FileCatalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := &FileCatalog{sections: make(map[scheduler.CourseKey][]scheduler.Section)}
	var problems CatalogProblems
	seen := make(map[string]struct{})
	for _, course := range file.Courses {
		key := scheduler.CourseKey{
			DepartmentID: strings.ToUpper(strings.TrimSpace(course.DepartmentID)),
			CourseNumber: strings.ToUpper(strings.TrimSpace(course.CourseNumber)),
		}
		if key.DepartmentID == "" || key.CourseNumber == "" {
			problems = append(problems, fmt.Sprintf("course %q is missing department_id or course_number", course.Title))
			continue
		}
		if _, dup := catalog.sections[key]; dup {
			problems = append(problems, fmt.Sprintf("course %s listed twice", key))
			continue
		}

		sections := make([]scheduler.Section, 0, len(course.Sections))
		for _, s := range course.Sections {
			row := models.CourseSection{
				DepartmentID: key.DepartmentID,
				CourseNumber: key.CourseNumber,
				SectionID:    strings.TrimSpace(s.SectionID),
				Instructor:   strings.TrimSpace(s.Instructor),
				Days:         s.Days,
				StartTime:    s.Start,
				EndTime:      s.End,
			}
			sectionKey := key.String() + "-" + row.SectionID
			if _, dup := seen[sectionKey]; dup || row.SectionID == "" {
				problems = append(problems, fmt.Sprintf("section %q of %s is missing or duplicated", row.SectionID, key))
				continue
			}
			seen[sectionKey] = struct{}{}

			section, err := row.ToScheduler()
			if err != nil {
				problems = append(problems, err.Error())
				continue
			}
			sections = append(sections, section)
		}
		sort.SliceStable(sections, func(i, j int) bool { return sections[i].SectionID < sections[j].SectionID })
		catalog.sections[key] = sections
		catalog.courses++
		catalog.total += len(sections)
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return catalog, nil
}

// SectionsFor returns the sections of a course ordered by section id.
func (c *FileCatalog) SectionsFor(ctx context.Context, departmentID, courseNumber string) ([]scheduler.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := scheduler.CourseKey{DepartmentID: strings.ToUpper(departmentID), CourseNumber: strings.ToUpper(courseNumber)}
	return c.sections[key], nil
}

// Courses returns the number of courses loaded.
func (c *FileCatalog) Courses() int {
	return c.courses
}

// Sections returns the number of sections loaded.
func (c *FileCatalog) Sections() int {
	return c.total
}

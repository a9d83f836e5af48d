package dto

// SaveCourseRequest adds a course to the catalog.
type SaveCourseRequest struct {
	DepartmentID string `json:"departmentId" validate:"required,max=4,alpha"`
	CourseNumber string `json:"courseNumber" validate:"required,max=4,alphanum"`
	CourseTitle  string `json:"courseTitle" validate:"required,max=100"`
}

// SaveSectionRequest adds a section to the catalog. Days use the compact code, e.g. "MWF".
type SaveSectionRequest struct {
	DepartmentID string `json:"departmentId" validate:"required,max=4,alpha"`
	CourseNumber string `json:"courseNumber" validate:"required,max=4,alphanum"`
	SectionID    string `json:"sectionId" validate:"required,max=10"`
	Instructor   string `json:"instructor" validate:"required,max=100"`
	Days         string `json:"days" validate:"required,max=5"`
	StartTime    string `json:"startTime" validate:"required,max=10"`
	EndTime      string `json:"endTime" validate:"required,max=10"`
}

// CourseQuery filters course listings.
type CourseQuery struct {
	DepartmentID string `form:"department_id"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// SectionQuery selects the sections of one course.
type SectionQuery struct {
	DepartmentID string `form:"department_id" validate:"required"`
	CourseNumber string `form:"course_number" validate:"required"`
}

package dto

// CourseRequest names one course the student wants in every generated schedule.
type CourseRequest struct {
	DepartmentID string `json:"department_id" validate:"required,max=4"`
	CourseNumber string `json:"course_number" validate:"required,max=4"`
}

// ReservedTimeRequest is a fixed personal commitment such as work or practice.
type ReservedTimeRequest struct {
	Days        []string `json:"days" validate:"required,min=1,max=5,dive,required"`
	StartTime   string   `json:"start_time" validate:"required"`
	EndTime     string   `json:"end_time" validate:"required"`
	Description string   `json:"description" validate:"max=100"`
}

// GenerateScheduleRequest asks for every conflict-free combination of the given courses.
type GenerateScheduleRequest struct {
	Courses  []CourseRequest       `json:"courses" validate:"required,min=1,dive"`
	Reserved []ReservedTimeRequest `json:"reserved" validate:"omitempty,dive"`
}

// ScheduledSection is a chosen section inside a generated schedule.
type ScheduledSection struct {
	DepartmentID string   `json:"department_id"`
	CourseNumber string   `json:"course_number"`
	SectionID    string   `json:"section_id"`
	Instructor   string   `json:"instructor"`
	Days         []string `json:"days"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
}

// GeneratedSchedule lists one section per requested course, in request order.
type GeneratedSchedule struct {
	Sections []ScheduledSection `json:"sections"`
}

// ReservedTimeBlock echoes a normalised reservation back to the client.
type ReservedTimeBlock struct {
	Days        []string `json:"days"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Description string   `json:"description,omitempty"`
}

// GenerateScheduleResponse carries the generated schedules and search bookkeeping.
type GenerateScheduleResponse struct {
	Schedules        []GeneratedSchedule `json:"schedules"`
	Reserved         []ReservedTimeBlock `json:"reserved"`
	Count            int                 `json:"count"`
	Truncated        bool                `json:"truncated"`
	TruncationReason string              `json:"truncation_reason,omitempty"`
	Explored         int                 `json:"explored"`
	Message          string              `json:"message,omitempty"`
}

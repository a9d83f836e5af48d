package service

import (
	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/scheduler"
)

// AssembleSchedules renders engine schedules in the response shape. Section order is kept.
func AssembleSchedules(schedules []scheduler.Schedule) []dto.GeneratedSchedule {
	out := make([]dto.GeneratedSchedule, 0, len(schedules))
	for _, schedule := range schedules {
		sections := make([]dto.ScheduledSection, 0, len(schedule.Sections))
		for _, section := range schedule.Sections {
			sections = append(sections, assembleSection(section))
		}
		out = append(out, dto.GeneratedSchedule{Sections: sections})
	}
	return out
}

func assembleSection(section scheduler.Section) dto.ScheduledSection {
	return dto.ScheduledSection{
		DepartmentID: section.DepartmentID,
		CourseNumber: section.CourseNumber,
		SectionID:    section.SectionID,
		Instructor:   section.Instructor,
		Days:         section.Block.Days().Names(),
		StartTime:    scheduler.FormatClock(section.Block.Start()),
		EndTime:      scheduler.FormatClock(section.Block.End()),
	}
}

func assembleReserved(reserved []scheduler.Reservation) []dto.ReservedTimeBlock {
	out := make([]dto.ReservedTimeBlock, 0, len(reserved))
	for _, r := range reserved {
		out = append(out, dto.ReservedTimeBlock{
			Days:        r.Block.Days().Names(),
			StartTime:   scheduler.FormatClock(r.Block.Start()),
			EndTime:     scheduler.FormatClock(r.Block.End()),
			Description: r.Label,
		})
	}
	return out
}

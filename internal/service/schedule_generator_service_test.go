package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-api/internal/dto"
	"github.com/noah-isme/ssp-api/internal/scheduler"
	appErrors "github.com/noah-isme/ssp-api/pkg/errors"
)

type sectionLookupStub struct {
	sections map[scheduler.CourseKey][]scheduler.Section
	err      error
}

func (s sectionLookupStub) SectionsFor(ctx context.Context, departmentID, courseNumber string) ([]scheduler.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.sections[scheduler.CourseKey{DepartmentID: departmentID, CourseNumber: courseNumber}], nil
}

func stubSection(t *testing.T, dept, number, id, days, start, end string) scheduler.Section {
	t.Helper()
	block, err := scheduler.ParseTimeBlock(days, start, end)
	require.NoError(t, err)
	return scheduler.Section{DepartmentID: dept, CourseNumber: number, SectionID: id, Instructor: "Prof " + id, Block: block}
}

func newGeneratorFixture(t *testing.T, cfg ScheduleGeneratorConfig) (*ScheduleGeneratorService, *MetricsService) {
	t.Helper()
	lookup := sectionLookupStub{sections: map[scheduler.CourseKey][]scheduler.Section{
		{DepartmentID: "CSCI", CourseNumber: "1010"}: {
			stubSection(t, "CSCI", "1010", "01", "MW", "0900", "0950"),
			stubSection(t, "CSCI", "1010", "02", "MW", "1000", "1050"),
		},
		{DepartmentID: "MATH", CourseNumber: "2200"}: {
			stubSection(t, "MATH", "2200", "01", "MW", "0930", "1045"),
			stubSection(t, "MATH", "2200", "02", "TR", "0900", "1015"),
		},
	}}
	metrics := NewMetricsService()
	return NewScheduleGeneratorService(lookup, metrics, nil, nil, cfg), metrics
}

func twoCourseRequest() dto.GenerateScheduleRequest {
	return dto.GenerateScheduleRequest{Courses: []dto.CourseRequest{
		{DepartmentID: "csci", CourseNumber: "1010"},
		{DepartmentID: "MATH", CourseNumber: "2200"},
	}}
}

func TestScheduleGeneratorServiceGenerateSuccess(t *testing.T) {
	svc, metrics := newGeneratorFixture(t, ScheduleGeneratorConfig{Timeout: time.Second})

	resp, err := svc.Generate(context.Background(), twoCourseRequest())
	require.NoError(t, err)
	require.Equal(t, 2, resp.Count)
	assert.False(t, resp.Truncated)
	assert.Empty(t, resp.Message)
	assert.Empty(t, resp.Reserved)

	first := resp.Schedules[0].Sections
	require.Len(t, first, 2)
	assert.Equal(t, "CSCI", first[0].DepartmentID)
	assert.Equal(t, "01", first[0].SectionID)
	assert.Equal(t, []string{"MONDAY", "WEDNESDAY"}, first[0].Days)
	assert.Equal(t, "0900", first[0].StartTime)
	assert.Equal(t, "02", first[1].SectionID)
	assert.Equal(t, []string{"TUESDAY", "THURSDAY"}, first[1].Days)
	assert.Equal(t, "02", resp.Schedules[1].Sections[0].SectionID)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.generations.WithLabelValues(OutcomeOK)))
}

func TestScheduleGeneratorServiceReservedTimeEmptiesResult(t *testing.T) {
	svc, metrics := newGeneratorFixture(t, ScheduleGeneratorConfig{})
	req := twoCourseRequest()
	req.Reserved = []dto.ReservedTimeRequest{{Days: []string{"TUESDAY"}, StartTime: "0800", EndTime: "0930", Description: "work"}}

	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Schedules)
	assert.NotEmpty(t, resp.Message)
	require.Len(t, resp.Reserved, 1)
	assert.Equal(t, "work", resp.Reserved[0].Description)
	assert.Equal(t, []string{"TUESDAY"}, resp.Reserved[0].Days)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.generations.WithLabelValues(OutcomeEmpty)))
}

func TestScheduleGeneratorServiceResultLimit(t *testing.T) {
	svc, metrics := newGeneratorFixture(t, ScheduleGeneratorConfig{MaxResults: 1})

	resp, err := svc.Generate(context.Background(), twoCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	assert.True(t, resp.Truncated)
	assert.Equal(t, string(scheduler.TruncatedResultLimit), resp.TruncationReason)
	assert.Contains(t, resp.Message, "result_limit")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.truncations.WithLabelValues(string(scheduler.TruncatedResultLimit))))
}

func TestScheduleGeneratorServiceValidation(t *testing.T) {
	svc, _ := newGeneratorFixture(t, ScheduleGeneratorConfig{MaxCourses: 2, MaxReserved: 1})

	cases := map[string]dto.GenerateScheduleRequest{
		"no courses":     {},
		"missing number": {Courses: []dto.CourseRequest{{DepartmentID: "CSCI"}}},
		"duplicate": {Courses: []dto.CourseRequest{
			{DepartmentID: "CSCI", CourseNumber: "1010"},
			{DepartmentID: "csci", CourseNumber: "1010"},
		}},
		"too many courses": {Courses: []dto.CourseRequest{
			{DepartmentID: "CSCI", CourseNumber: "1010"},
			{DepartmentID: "MATH", CourseNumber: "2200"},
			{DepartmentID: "HIST", CourseNumber: "3000"},
		}},
		"weekend reservation": {
			Courses:  []dto.CourseRequest{{DepartmentID: "CSCI", CourseNumber: "1010"}},
			Reserved: []dto.ReservedTimeRequest{{Days: []string{"SATURDAY"}, StartTime: "0900", EndTime: "1000"}},
		},
		"inverted reservation": {
			Courses:  []dto.CourseRequest{{DepartmentID: "CSCI", CourseNumber: "1010"}},
			Reserved: []dto.ReservedTimeRequest{{Days: []string{"MONDAY"}, StartTime: "1000", EndTime: "0900"}},
		},
		"too many reservations": {
			Courses: []dto.CourseRequest{{DepartmentID: "CSCI", CourseNumber: "1010"}},
			Reserved: []dto.ReservedTimeRequest{
				{Days: []string{"MONDAY"}, StartTime: "0700", EndTime: "0800"},
				{Days: []string{"FRIDAY"}, StartTime: "0700", EndTime: "0800"},
			},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestScheduleGeneratorServiceNoSectionsFound(t *testing.T) {
	svc, _ := newGeneratorFixture(t, ScheduleGeneratorConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{Courses: []dto.CourseRequest{
		{DepartmentID: "CSCI", CourseNumber: "1010"},
		{DepartmentID: "HIST", CourseNumber: "3000"},
	}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNoSectionsFound.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrNoSectionsFound.Status, appErr.Status)
	assert.Contains(t, appErr.Message, "HIST 3000")
}

func TestScheduleGeneratorServiceLookupFailure(t *testing.T) {
	svc := NewScheduleGeneratorService(sectionLookupStub{err: errors.New("connection refused")}, nil, nil, nil, ScheduleGeneratorConfig{})

	_, err := svc.Generate(context.Background(), twoCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestScheduleGeneratorServiceCancelledRequest(t *testing.T) {
	svc, metrics := newGeneratorFixture(t, ScheduleGeneratorConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, twoCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRequestCancelled.Code, appErrors.FromError(err).Code)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.generations.WithLabelValues(OutcomeCancelled)))
}

package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogStub struct {
	sections map[CourseKey][]Section
	err      error
	calls    []CourseKey
}

func (c *catalogStub) SectionsFor(ctx context.Context, departmentID, courseNumber string) ([]Section, error) {
	key := CourseKey{DepartmentID: departmentID, CourseNumber: courseNumber}
	c.calls = append(c.calls, key)
	if c.err != nil {
		return nil, c.err
	}
	return c.sections[key], nil
}

func newSection(t *testing.T, dept, number, id, days, start, end string) Section {
	t.Helper()
	return Section{
		DepartmentID: dept,
		CourseNumber: number,
		SectionID:    id,
		Instructor:   "Staff " + id,
		Block:        mustBlock(t, days, start, end),
	}
}

func TestExpandPreservesCourseAndCatalogOrder(t *testing.T) {
	cs := CourseKey{DepartmentID: "CSCI", CourseNumber: "1010"}
	math := CourseKey{DepartmentID: "MATH", CourseNumber: "2200"}
	catalog := &catalogStub{sections: map[CourseKey][]Section{
		cs: {
			newSection(t, "CSCI", "1010", "02", "MW", "1000", "1050"),
			newSection(t, "CSCI", "1010", "01", "MW", "0900", "0950"),
		},
		math: {newSection(t, "MATH", "2200", "01", "TR", "0900", "1015")},
	}}

	plan, err := Expand(context.Background(), catalog, []CourseKey{math, cs}, nil)
	require.NoError(t, err)
	require.Len(t, plan.Groups, 2)
	assert.Equal(t, math, plan.Groups[0].Course)
	assert.Equal(t, cs, plan.Groups[1].Course)
	assert.Equal(t, "02", plan.Groups[1].Sections[0].SectionID)
	assert.Equal(t, "01", plan.Groups[1].Sections[1].SectionID)
	assert.Empty(t, plan.Reserved)
	assert.Equal(t, []CourseKey{math, cs}, catalog.calls)
}

func TestExpandCarriesEveryReservation(t *testing.T) {
	cs := CourseKey{DepartmentID: "CSCI", CourseNumber: "1010"}
	catalog := &catalogStub{sections: map[CourseKey][]Section{
		cs: {newSection(t, "CSCI", "1010", "01", "MW", "0900", "0950")},
	}}
	reserved := []Reservation{
		{Label: "work", Block: mustBlock(t, "T", "1300", "1700")},
		{Label: "gym", Block: mustBlock(t, "F", "0700", "0800")},
	}

	plan, err := Expand(context.Background(), catalog, []CourseKey{cs}, reserved)
	require.NoError(t, err)
	assert.Equal(t, reserved, plan.Reserved)
}

func TestExpandNoSectionsFound(t *testing.T) {
	catalog := &catalogStub{sections: map[CourseKey][]Section{}}
	_, err := Expand(context.Background(), catalog, []CourseKey{{DepartmentID: "HIST", CourseNumber: "3000"}}, nil)
	require.Error(t, err)

	var noSections *NoSectionsError
	require.True(t, errors.As(err, &noSections))
	assert.Equal(t, "HIST", noSections.DepartmentID)
	assert.Equal(t, "3000", noSections.CourseNumber)
}

func TestExpandRejectsMalformedRequests(t *testing.T) {
	catalog := &catalogStub{}
	cases := map[string][]CourseKey{
		"empty":          nil,
		"missing dept":   {{CourseNumber: "1010"}},
		"missing number": {{DepartmentID: "CSCI"}},
		"duplicate":      {{DepartmentID: "CSCI", CourseNumber: "1010"}, {DepartmentID: "CSCI", CourseNumber: "1010"}},
	}
	for name, courses := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Expand(context.Background(), catalog, courses, nil)
			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr), "got %v", err)
		})
	}
	assert.Empty(t, catalog.calls, "no lookups before the request is validated")
}

func TestExpandWrapsLookupFailure(t *testing.T) {
	boom := errors.New("connection refused")
	catalog := &catalogStub{err: boom}
	_, err := Expand(context.Background(), catalog, []CourseKey{{DepartmentID: "CSCI", CourseNumber: "1010"}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

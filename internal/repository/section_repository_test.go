package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ssp-api/internal/models"
)

func newCatalogMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

type queryObserverStub struct {
	labels []string
}

func (q *queryObserverStub) ObserveDBQuery(label string, duration time.Duration) {
	q.labels = append(q.labels, label)
}

var sectionRowColumns = []string{"id", "department_id", "course_number", "section_id", "instructor", "days", "start_time", "end_time", "created_at", "updated_at"}

func TestSectionRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	observer := &queryObserverStub{}
	repo := NewSectionRepository(db, observer)

	now := time.Now()
	rows := sqlmock.NewRows(sectionRowColumns).
		AddRow("s-1", "CSCI", "1010", "01", "Ada", "MWF", "0900", "0950", now, now).
		AddRow("s-2", "CSCI", "1010", "02", "Grace", "TR", "1100", "1215", now, now)
	mock.ExpectQuery(`SELECT .* FROM course_sections WHERE department_id = \$1 AND course_number = \$2 ORDER BY section_id ASC`).
		WithArgs("CSCI", "1010").
		WillReturnRows(rows)

	sections, err := repo.ListByCourse(context.Background(), "CSCI", "1010")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "01", sections[0].SectionID)
	assert.Equal(t, "TR", sections[1].Days)
	assert.Equal(t, []string{"sections_by_course"}, observer.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewSectionRepository(db, nil)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM course_sections ORDER BY department_id ASC, course_number ASC, section_id ASC`).
		WillReturnRows(sqlmock.NewRows(sectionRowColumns).AddRow("s-1", "MATH", "2200", "01", "Emmy", "MW", "1300", "1415", now, now))

	sections, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "MATH", sections[0].DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositorySaveReplacesCatalog(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewSectionRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM course_sections").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO course_sections").
		WithArgs(sqlmock.AnyArg(), "CSCI", "1010", "01", "Ada", "MWF", "0900", "0950", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sections := []models.CourseSection{{
		DepartmentID: "CSCI",
		CourseNumber: "1010",
		SectionID:    "01",
		Instructor:   "Ada",
		Days:         "MWF",
		StartTime:    "0900",
		EndTime:      "0950",
	}}
	require.NoError(t, repo.Save(context.Background(), sections, true))
	assert.NotEmpty(t, sections[0].ID)
	assert.False(t, sections[0].CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositorySaveRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newCatalogMock(t)
	defer cleanup()
	repo := NewSectionRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_sections").WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), []models.CourseSection{{DepartmentID: "CSCI", CourseNumber: "1010", SectionID: "01"}}, false)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

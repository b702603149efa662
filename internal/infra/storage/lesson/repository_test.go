package lesson

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// recordingExecutor запоминает последний выполненный запрос и
// прерывает выполнение, не обращаясь к реальной БД.
type recordingExecutor struct {
	lastQuery string
}

var errRecorded = errors.New("recorded")

func (e *recordingExecutor) QueryContext(_ context.Context, query string, _ ...interface{}) (*sql.Rows, error) {
	e.lastQuery = query
	return nil, errRecorded
}

func (e *recordingExecutor) QueryRowContext(_ context.Context, query string, _ ...interface{}) *sql.Row {
	e.lastQuery = query
	return nil
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	e.lastQuery = query
	return nil, errRecorded
}

// Занятие, начинающееся ровно в момент среза, считается будущим во всех
// каскадных и проверочных выборках.
func TestFutureQueriesIncludeBoundaryStart(t *testing.T) {
	asOf := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	id := uuid.New()

	tests := []struct {
		name string
		call func(r *Repository) error
	}{
		{
			name: "CategoryIDsOfFutureConfirmedByGroup",
			call: func(r *Repository) error {
				_, err := r.CategoryIDsOfFutureConfirmedByGroup(context.Background(), id, asOf)
				return err
			},
		},
		{
			name: "ListFutureConfirmedByGroup",
			call: func(r *Repository) error {
				_, err := r.ListFutureConfirmedByGroup(context.Background(), id, asOf)
				return err
			},
		},
		{
			name: "ListFutureNonGroupLessonsByTeacher",
			call: func(r *Repository) error {
				_, err := r.ListFutureNonGroupLessonsByTeacher(context.Background(), id, asOf)
				return err
			},
		},
		{
			name: "DeleteFutureTeacherLinks",
			call: func(r *Repository) error {
				_, err := r.DeleteFutureTeacherLinks(context.Background(), id, asOf)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := &recordingExecutor{}
			repo := NewRepository(executor)

			err := tt.call(repo)
			assert.ErrorIs(t, err, ErrExecQuery)
			assert.Contains(t, executor.lastQuery, "start_time >=")
		})
	}
}

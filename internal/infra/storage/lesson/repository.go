package lesson

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/dbmetrics"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/psqlbuilder"
)

var lessonColumns = []string{
	"id",
	"name",
	"description",
	"category_id",
	"start_time",
	"finish_time",
	"classroom_id",
	"group_id",
	"is_confirmed",
	"allow_adjacent",
	"terminated",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с занятиями и их связями с преподавателями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое занятие.
// Если в контексте передана активная транзакция, использует её — все
// операции создания занятия выполняются в serializable-транзакции
// вместе с проверками конфликтов.
func (r *Repository) Create(ctx context.Context, l *domain.Lesson) (*domain.Lesson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("lessons").
		Columns(
			"name",
			"description",
			"category_id",
			"start_time",
			"finish_time",
			"classroom_id",
			"group_id",
			"is_confirmed",
			"allow_adjacent",
			"terminated",
		).
		Values(
			l.Name,
			l.Description,
			l.CategoryID,
			l.StartTime,
			l.FinishTime,
			l.ClassroomID,
			l.GroupID,
			l.IsConfirmed,
			l.AllowAdjacent,
			l.Terminated,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time

	return l, nil
}

// GetByID получает занятие по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	l, err := scanLesson(row)
	if err == sql.ErrNoRows {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lesson: %v", ErrScanRow, err)
	}

	return l, nil
}

// AttachTeacher связывает преподавателя с занятием
func (r *Repository) AttachTeacher(ctx context.Context, teacherID, lessonID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("teacher_lessons").
		Columns("teacher_id", "lesson_id").
		Values(teacherID, lessonID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachTeacher - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AttachTeacher - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// IsTeacherLinked проверяет, связан ли преподаватель с занятием
func (r *Repository) IsTeacherLinked(ctx context.Context, teacherID, lessonID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("teacher_lessons").
		Where(squirrel.Eq{"teacher_id": teacherID, "lesson_id": lessonID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsTeacherLinked - build select query: %v", ErrBuildQuery, err)
	}

	return r.exists(ctx, executor, query, args, "IsTeacherLinked")
}

// HasTeacherOverlap проверяет, связан ли преподаватель с активным занятием,
// пересекающимся по времени с окном [start, finish).
// Границы интервалов считаются полуоткрытыми: занятие, заканчивающееся
// ровно в start, конфликтом не является.
func (r *Repository) HasTeacherOverlap(ctx context.Context, teacherID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From("lessons l").
		Join("teacher_lessons tl ON tl.lesson_id = l.id").
		Where(squirrel.Eq{"tl.teacher_id": teacherID, "l.terminated": false}).
		Where(squirrel.Lt{"l.start_time": finish}).
		Where(squirrel.Gt{"l.finish_time": start}).
		Limit(1)

	if excludeLessonID != nil {
		builder = builder.Where(squirrel.NotEq{"l.id": *excludeLessonID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasTeacherOverlap - build select query: %v", ErrBuildQuery, err)
	}

	return r.exists(ctx, executor, query, args, "HasTeacherOverlap")
}

// HasStudentOverlap проверяет, записан ли ученик (через неотменённое
// списание абонемента) на активное занятие, пересекающееся с окном
func (r *Repository) HasStudentOverlap(ctx context.Context, studentID uuid.UUID, start, finish time.Time, excludeLessonID *uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From("lessons l").
		Join("lesson_subscriptions ls ON ls.lesson_id = l.id").
		Join("subscriptions s ON s.id = ls.subscription_id").
		Where(squirrel.Eq{
			"s.student_id": studentID,
			"ls.cancelled": false,
			"l.terminated": false,
		}).
		Where(squirrel.Lt{"l.start_time": finish}).
		Where(squirrel.Gt{"l.finish_time": start}).
		Limit(1)

	if excludeLessonID != nil {
		builder = builder.Where(squirrel.NotEq{"l.id": *excludeLessonID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasStudentOverlap - build select query: %v", ErrBuildQuery, err)
	}

	return r.exists(ctx, executor, query, args, "HasStudentOverlap")
}

// HasClassroomOverlap проверяет занятость зала в окне [start, finish).
// Совместное использование зала разрешено только когда ОБА занятия
// допускают соседей: кандидат с candidateAllowsAdjacent=false конфликтует
// с любым пересекающимся занятием, кандидат с true — только с занятиями,
// которые соседей не допускают.
func (r *Repository) HasClassroomOverlap(ctx context.Context, classroomID uuid.UUID, start, finish time.Time, candidateAllowsAdjacent bool, excludeLessonID *uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From("lessons l").
		Where(squirrel.Eq{"l.classroom_id": classroomID, "l.terminated": false}).
		Where(squirrel.Lt{"l.start_time": finish}).
		Where(squirrel.Gt{"l.finish_time": start}).
		Limit(1)

	if candidateAllowsAdjacent {
		builder = builder.Where(squirrel.Eq{"l.allow_adjacent": false})
	}

	if excludeLessonID != nil {
		builder = builder.Where(squirrel.NotEq{"l.id": *excludeLessonID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasClassroomOverlap - build select query: %v", ErrBuildQuery, err)
	}

	return r.exists(ctx, executor, query, args, "HasClassroomOverlap")
}

// Confirm подтверждает заявку: назначает зал и выставляет is_confirmed
func (r *Repository) Confirm(ctx context.Context, id, classroomID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("lessons").
		Set("classroom_id", classroomID).
		Set("is_confirmed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Confirm")
}

// Terminate мягко отменяет занятие
func (r *Repository) Terminate(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("lessons").
		Set("terminated", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Terminate - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Terminate")
}

// UpdateSchedule переносит занятие на новое окно и, опционально, в другой зал
func (r *Repository) UpdateSchedule(ctx context.Context, id uuid.UUID, start, finish time.Time, classroomID *uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("lessons").
		Set("start_time", start).
		Set("finish_time", finish).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if classroomID != nil {
		builder = builder.Set("classroom_id", *classroomID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateSchedule")
}

// ListFutureNonGroupLessonsByTeacher получает активные индивидуальные
// занятия преподавателя, начинающиеся не раньше asOf.
// Используется каскадом деактивации преподавателя: такие занятия
// отменяются целиком, в отличие от групповых, где снимается только связь.
func (r *Repository) ListFutureNonGroupLessonsByTeacher(ctx context.Context, teacherID uuid.UUID, asOf time.Time) ([]*domain.Lesson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(prefixColumns("l", lessonColumns)...).
		From("lessons l").
		Join("teacher_lessons tl ON tl.lesson_id = l.id").
		Where(squirrel.Eq{"tl.teacher_id": teacherID, "l.terminated": false}).
		Where(squirrel.Expr("l.group_id IS NULL")).
		Where(squirrel.GtOrEq{"l.start_time": asOf}).
		OrderBy("l.start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureNonGroupLessonsByTeacher - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureNonGroupLessonsByTeacher - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanLessons(rows)
}

// ListFutureConfirmedByGroup получает будущие подтверждённые занятия группы
func (r *Repository) ListFutureConfirmedByGroup(ctx context.Context, groupID uuid.UUID, asOf time.Time) ([]*domain.Lesson, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"group_id": groupID, "terminated": false, "is_confirmed": true}).
		Where(squirrel.GtOrEq{"start_time": asOf}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureConfirmedByGroup - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListFutureConfirmedByGroup - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanLessons(rows)
}

// CategoryIDsOfFutureConfirmedByGroup возвращает различные категории
// будущих подтверждённых занятий группы. Используется проверкой
// вступления ученика в группу.
func (r *Repository) CategoryIDsOfFutureConfirmedByGroup(ctx context.Context, groupID uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT category_id").
		From("lessons").
		Where(squirrel.Eq{"group_id": groupID, "terminated": false, "is_confirmed": true}).
		Where(squirrel.GtOrEq{"start_time": asOf}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CategoryIDsOfFutureConfirmedByGroup - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CategoryIDsOfFutureConfirmedByGroup - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: CategoryIDsOfFutureConfirmedByGroup - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CategoryIDsOfFutureConfirmedByGroup - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

// ListTeacherIDs получает идентификаторы преподавателей занятия
func (r *Repository) ListTeacherIDs(ctx context.Context, lessonID uuid.UUID) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("teacher_id").
		From("teacher_lessons").
		Where(squirrel.Eq{"lesson_id": lessonID}).
		OrderBy("teacher_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTeacherIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTeacherIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListTeacherIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTeacherIDs - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

// DeleteFutureTeacherLinks удаляет связи преподавателя с будущими
// занятиями. Возвращает количество удалённых связей.
func (r *Repository) DeleteFutureTeacherLinks(ctx context.Context, teacherID uuid.UUID, asOf time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("teacher_lessons").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		Where(squirrel.Expr(
			"lesson_id IN (SELECT id FROM lessons WHERE start_time >= ? AND terminated = false)", asOf,
		)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteFutureTeacherLinks - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteFutureTeacherLinks - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteFutureTeacherLinks - rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// DeleteTeacherLinks удаляет все связи преподавателей с занятием
func (r *Repository) DeleteTeacherLinks(ctx context.Context, lessonID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("teacher_lessons").
		Where(squirrel.Eq{"lesson_id": lessonID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteTeacherLinks - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteTeacherLinks - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteTeacherLinks - rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// Вспомогательные методы

func (r *Repository) exists(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) (bool, error) {
	var one int
	err := executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
	}
	return true, nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrLessonNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLesson(row rowScanner) (*domain.Lesson, error) {
	var l domain.Lesson
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.CategoryID,
		&l.StartTime,
		&l.FinishTime,
		&l.ClassroomID,
		&l.GroupID,
		&l.IsConfirmed,
		&l.AllowAdjacent,
		&l.Terminated,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time

	return &l, nil
}

func scanLessons(rows *sql.Rows) ([]*domain.Lesson, error) {
	lessons := make([]*domain.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan lesson: %v", ErrScanRow, err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrScanRow, err)
	}
	return lessons, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, c := range columns {
		prefixed[i] = alias + "." + c
	}
	return prefixed
}

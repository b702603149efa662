package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/dbmetrics"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий справочников: категории занятий, залы,
// преподаватели и ученики
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCategory получает категорию занятий по ID
func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*domain.LessonCategory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "is_group", "terminated").
		From("lesson_categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCategory - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.LessonCategory
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.IsGroup, &c.Terminated)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCategory - scan category: %v", ErrScanRow, err)
	}

	return &c, nil
}

// GetClassroom получает зал по ID
func (r *Repository) GetClassroom(ctx context.Context, id uuid.UUID) (*domain.Classroom, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "terminated", "created_at", "updated_at").
		From("classrooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClassroom - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Classroom
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Terminated,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrClassroomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClassroom - scan classroom: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// GetTeacher получает преподавателя вместе со списком категорий,
// которые он ведёт
func (r *Repository) GetTeacher(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "terminated", "created_at").
		From("teachers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTeacher - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Teacher
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Name, &t.Terminated, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTeacher - scan teacher: %v", ErrScanRow, err)
	}

	t.CreatedAt = createdAt.Time

	t.CategoryIDs, err = r.teacherCategoryIDs(ctx, executor, id)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// GetStudent получает ученика по ID
func (r *Repository) GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "terminated", "created_at").
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStudent - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Student
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Terminated, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStudent - scan student: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time

	return &s, nil
}

// TerminateTeacher мягко деактивирует преподавателя
func (r *Repository) TerminateTeacher(ctx context.Context, id uuid.UUID) error {
	return r.terminate(ctx, "teachers", id, ErrTeacherNotFound, "TerminateTeacher")
}

// TerminateStudent мягко деактивирует ученика
func (r *Repository) TerminateStudent(ctx context.Context, id uuid.UUID) error {
	return r.terminate(ctx, "students", id, ErrStudentNotFound, "TerminateStudent")
}

// TerminateClassroom мягко деактивирует зал
func (r *Repository) TerminateClassroom(ctx context.Context, id uuid.UUID) error {
	return r.terminate(ctx, "classrooms", id, ErrClassroomNotFound, "TerminateClassroom")
}

// Вспомогательные методы

func (r *Repository) terminate(ctx context.Context, table string, id uuid.UUID, notFound error, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("terminated", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return notFound
	}

	return nil
}

func (r *Repository) teacherCategoryIDs(ctx context.Context, executor DBExecutor, teacherID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := psqlbuilder.Select("category_id").
		From("teacher_categories").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("category_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: teacherCategoryIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: teacherCategoryIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: teacherCategoryIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: teacherCategoryIDs - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

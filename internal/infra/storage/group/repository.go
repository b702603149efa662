package group

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

var groupColumns = []string{
	"id",
	"name",
	"description",
	"max_capacity",
	"terminated",
	"created_at",
	"updated_at",
}

// Repository репозиторий групп и их составов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория групп
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает группу по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(groupColumns...).
		From("groups").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var g domain.Group
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.MaxCapacity,
		&g.Terminated,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan group: %v", ErrScanRow, err)
	}

	g.CreatedAt = createdAt.Time
	g.UpdatedAt = updatedAt.Time

	return &g, nil
}

// IsTeacherMember проверяет, привязан ли преподаватель к группе
func (r *Repository) IsTeacherMember(ctx context.Context, teacherID, groupID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("teacher_groups").
		Where(squirrel.Eq{"teacher_id": teacherID, "group_id": groupID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsTeacherMember - build select query: %v", ErrBuildQuery, err)
	}

	return r.exists(ctx, executor, query, args, "IsTeacherMember")
}

// IsStudentMember проверяет, состоит ли ученик в группе
func (r *Repository) IsStudentMember(ctx context.Context, studentID, groupID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("student_groups").
		Where(squirrel.Eq{"student_id": studentID, "group_id": groupID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsStudentMember - build select query: %v", ErrBuildQuery, err)
	}

	return r.exists(ctx, executor, query, args, "IsStudentMember")
}

// CountStudents возвращает текущее число учеников в группе
func (r *Repository) CountStudents(ctx context.Context, groupID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("student_groups").
		Where(squirrel.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountStudents - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountStudents - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListStudentIDs получает идентификаторы учеников группы
func (r *Repository) ListStudentIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("student_id").
		From("student_groups").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("student_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStudentIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStudentIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListStudentIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStudentIDs - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

// AddStudent добавляет ученика в группу
func (r *Repository) AddStudent(ctx context.Context, studentID, groupID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("student_groups").
		Columns("student_id", "group_id").
		Values(studentID, groupID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddStudent - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddStudent - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// RemoveStudent исключает ученика из группы
func (r *Repository) RemoveStudent(ctx context.Context, studentID, groupID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("student_groups").
		Where(squirrel.Eq{"student_id": studentID, "group_id": groupID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: RemoveStudent - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execCounting(ctx, executor, query, args, "RemoveStudent")
}

// DeleteTeacherMemberships удаляет все привязки преподавателя к группам.
// Используется каскадом деактивации преподавателя.
func (r *Repository) DeleteTeacherMemberships(ctx context.Context, teacherID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("teacher_groups").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteTeacherMemberships - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execCounting(ctx, executor, query, args, "DeleteTeacherMemberships")
}

// DeleteStudentMemberships удаляет все членства ученика в группах.
// Используется каскадом деактивации ученика.
func (r *Repository) DeleteStudentMemberships(ctx context.Context, studentID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("student_groups").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStudentMemberships - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execCounting(ctx, executor, query, args, "DeleteStudentMemberships")
}

// DeleteAllMemberships удаляет составы группы: и преподавателей, и учеников.
// Используется каскадом деактивации группы.
func (r *Repository) DeleteAllMemberships(ctx context.Context, groupID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var total int64
	for _, table := range []string{"teacher_groups", "student_groups"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"group_id": groupID}).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("%w: DeleteAllMemberships - build delete query: %v", ErrBuildQuery, err)
		}

		affected, err := r.execCounting(ctx, executor, query, args, "DeleteAllMemberships")
		if err != nil {
			return 0, err
		}
		total += affected
	}

	return total, nil
}

// Terminate мягко деактивирует группу
func (r *Repository) Terminate(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("groups").
		Set("terminated", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Terminate - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Terminate - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Terminate - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrGroupNotFound
	}

	return nil
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

func (r *Repository) execCounting(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) (int64, error) {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}

	return affected, nil
}

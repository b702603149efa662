package slot

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

var slotColumns = []string{
	"id",
	"teacher_id",
	"day_of_week",
	"start_minutes",
	"end_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов еженедельного расписания преподавателей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот расписания
func (r *Repository) Create(ctx context.Context, s *domain.SlotDefinition) (*domain.SlotDefinition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_definitions").
		Columns("teacher_id", "day_of_week", "start_minutes", "end_minutes").
		Values(s.TeacherID, s.DayOfWeek, s.StartMinutes, s.EndMinutes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SlotDefinition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slot_definitions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	s, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListByTeacher получает слоты преподавателя, упорядоченные по дню недели
// и времени начала
func (r *Repository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slot_definitions").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("day_of_week", "start_minutes").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTeacher - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySlots(ctx, executor, query, args, "ListByTeacher")
}

// ListForCategory получает слоты всех активных преподавателей, ведущих
// указанную категорию. Используется генератором доступных окон.
func (r *Repository) ListForCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SlotDefinition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(prefixColumns("s", slotColumns)...).
		From("slot_definitions s").
		Join("teachers t ON t.id = s.teacher_id").
		Join("teacher_categories c ON c.teacher_id = s.teacher_id").
		Where(squirrel.Eq{"c.category_id": categoryID, "t.terminated": false}).
		OrderBy("s.teacher_id", "s.day_of_week", "s.start_minutes").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForCategory - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySlots(ctx, executor, query, args, "ListForCategory")
}

// HasOverlapping проверяет, пересекается ли окно [startMinutes, endMinutes)
// в указанный день недели с другим слотом того же преподавателя
func (r *Repository) HasOverlapping(ctx context.Context, teacherID uuid.UUID, dayOfWeek, startMinutes, endMinutes int, excludeID *uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From("slot_definitions").
		Where(squirrel.Eq{"teacher_id": teacherID, "day_of_week": dayOfWeek}).
		Where(squirrel.Lt{"start_minutes": endMinutes}).
		Where(squirrel.Gt{"end_minutes": startMinutes}).
		Limit(1)

	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlapping - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// Update изменяет день недели и окно слота
func (r *Repository) Update(ctx context.Context, s *domain.SlotDefinition) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_definitions").
		Set("day_of_week", s.DayOfWeek).
		Set("start_minutes", s.StartMinutes).
		Set("end_minutes", s.EndMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Update")
}

// Delete удаляет слот
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_definitions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Delete")
}

// Вспомогательные методы

func (r *Repository) querySlots(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) ([]*domain.SlotDefinition, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.SlotDefinition, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, op, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %v", ErrScanRow, op, err)
	}

	return slots, nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func scanSlot(row interface{ Scan(dest ...interface{}) error }) (*domain.SlotDefinition, error) {
	var s domain.SlotDefinition
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.TeacherID,
		&s.DayOfWeek,
		&s.StartMinutes,
		&s.EndMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, c := range columns {
		prefixed[i] = alias + "." + c
	}
	return prefixed
}

package subscription

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

var (
	subscriptionColumns = []string{
		"id",
		"student_id",
		"template_id",
		"expiration_date",
		"payment_id",
		"created_at",
		"updated_at",
	}

	templateColumns = []string{
		"id",
		"name",
		"description",
		"lesson_count",
		"price",
		"expiration_date",
		"expiration_day_count",
		"created_at",
		"updated_at",
	}

	useColumns = []string{
		"id",
		"lesson_id",
		"subscription_id",
		"cancelled",
		"created_at",
		"updated_at",
	}
)

// Repository репозиторий абонементов: шаблоны, купленные абонементы
// и списания занятий (lesson_subscriptions)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория абонементов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateSubscription создает купленный абонемент
func (r *Repository) CreateSubscription(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("subscriptions").
		Columns("student_id", "template_id", "expiration_date", "payment_id").
		Values(s.StudentID, s.TemplateID, s.ExpirationDate, s.PaymentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSubscription - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateSubscription - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetSubscriptionByID получает абонемент по ID
func (r *Repository) GetSubscriptionByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("subscriptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubscriptionByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	s, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubscriptionByID - scan subscription: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetTemplateByID получает шаблон абонемента вместе со списком категорий
func (r *Repository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*domain.SubscriptionTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("subscription_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - scan template: %v", ErrScanRow, err)
	}

	t.CategoryIDs, err = r.templateCategoryIDs(ctx, executor, t.ID)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// FindCheapestTemplateForCategory подбирает самый дешёвый непросроченный
// шаблон, покрывающий категорию. При равной цене выбирается созданный
// раньше. Используется автопокупкой абонемента при записи ученика на
// занятие без явного абонемента.
func (r *Repository) FindCheapestTemplateForCategory(ctx context.Context, categoryID uuid.UUID, asOf time.Time) (*domain.SubscriptionTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(prefixColumns("t", templateColumns)...).
		From("subscription_templates t").
		Join("template_categories tc ON tc.template_id = t.id").
		Where(squirrel.Eq{"tc.category_id": categoryID}).
		Where(squirrel.Or{
			squirrel.Expr("t.expiration_date IS NULL"),
			squirrel.Gt{"t.expiration_date": asOf},
		}).
		OrderBy("t.price", "t.created_at").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindCheapestTemplateForCategory - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindCheapestTemplateForCategory - scan template: %v", ErrScanRow, err)
	}

	t.CategoryIDs, err = r.templateCategoryIDs(ctx, executor, t.ID)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// GetStatus получает абонемент, его шаблон и число неотменённых списаний
// одним согласованным снимком. Все решения о списании кредита принимаются
// по этому статусу внутри serializable-транзакции.
func (r *Repository) GetStatus(ctx context.Context, subscriptionID uuid.UUID) (*domain.SubscriptionStatus, error) {
	s, err := r.GetSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	t, err := r.GetTemplateByID(ctx, s.TemplateID)
	if err != nil {
		return nil, err
	}

	uses, err := r.CountUncancelledUses(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	return &domain.SubscriptionStatus{
		Subscription:    *s,
		Template:        *t,
		UncancelledUses: uses,
	}, nil
}

// CountUncancelledUses возвращает число неотменённых списаний абонемента
func (r *Repository) CountUncancelledUses(ctx context.Context, subscriptionID uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("lesson_subscriptions").
		Where(squirrel.Eq{"subscription_id": subscriptionID, "cancelled": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUncancelledUses - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUncancelledUses - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CreateUse создает списание: одно занятие оплачено одним кредитом абонемента
func (r *Repository) CreateUse(ctx context.Context, u *domain.LessonSubscription) (*domain.LessonSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("lesson_subscriptions").
		Columns("lesson_id", "subscription_id", "cancelled").
		Values(u.LessonID, u.SubscriptionID, u.Cancelled).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateUse - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateUse - execute insert: %v", ErrExecQuery, err)
	}

	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time

	return u, nil
}

// GetUse получает списание по паре абонемент-занятие
func (r *Repository) GetUse(ctx context.Context, subscriptionID, lessonID uuid.UUID) (*domain.LessonSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(useColumns...).
		From("lesson_subscriptions").
		Where(squirrel.Eq{"subscription_id": subscriptionID, "lesson_id": lessonID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUse - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	u, err := scanUse(row)
	if err == sql.ErrNoRows {
		return nil, ErrUseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUse - scan use: %v", ErrScanRow, err)
	}

	return u, nil
}

// HasActiveUseByStudent проверяет, записан ли ученик на занятие
// неотменённым списанием любого из своих абонементов
func (r *Repository) HasActiveUseByStudent(ctx context.Context, studentID, lessonID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("lesson_subscriptions ls").
		Join("subscriptions s ON s.id = ls.subscription_id").
		Where(squirrel.Eq{
			"s.student_id": studentID,
			"ls.lesson_id": lessonID,
			"ls.cancelled": false,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveUseByStudent - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveUseByStudent - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListStudentIDsByLesson получает идентификаторы учеников,
// записанных на занятие (по неотменённым списаниям)
func (r *Repository) ListStudentIDsByLesson(ctx context.Context, lessonID uuid.UUID) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT s.student_id").
		From("lesson_subscriptions ls").
		Join("subscriptions s ON s.id = ls.subscription_id").
		Where(squirrel.Eq{
			"ls.lesson_id": lessonID,
			"ls.cancelled": false,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStudentIDsByLesson - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStudentIDsByLesson - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListStudentIDsByLesson - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStudentIDsByLesson - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

// CancelUse отменяет списание и возвращает кредит абонементу.
// Повторная отмена уже отменённого списания не является ошибкой:
// запрос просто не затронет ни одной строки.
func (r *Repository) CancelUse(ctx context.Context, useID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("lesson_subscriptions").
		Set("cancelled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": useID, "cancelled": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelUse - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CancelUse - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// CancelUsesByLesson отменяет все неотменённые списания занятия.
// Используется отменой занятия: кредиты возвращаются всем записанным ученикам.
func (r *Repository) CancelUsesByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("lesson_subscriptions").
		Set("cancelled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"lesson_id": lessonID, "cancelled": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelUsesByLesson - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelUsesByLesson - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelUsesByLesson - rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// CancelFutureUsesByStudent отменяет списания ученика на будущие занятия.
// Используется каскадом деактивации ученика.
func (r *Repository) CancelFutureUsesByStudent(ctx context.Context, studentID uuid.UUID, asOf time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("lesson_subscriptions").
		Set("cancelled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"cancelled": false}).
		Where(squirrel.Expr(
			"subscription_id IN (SELECT id FROM subscriptions WHERE student_id = ?)", studentID,
		)).
		Where(squirrel.Expr(
			"lesson_id IN (SELECT id FROM lessons WHERE start_time >= ? AND terminated = false)", asOf,
		)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelFutureUsesByStudent - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelFutureUsesByStudent - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelFutureUsesByStudent - rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// ListByStudent получает все абонементы ученика
func (r *Repository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Subscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(subscriptionColumns...).
		From("subscriptions").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStudent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStudent - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	subs := make([]*domain.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByStudent - scan subscription: %v", ErrScanRow, err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByStudent - iterate rows: %v", ErrScanRow, err)
	}

	return subs, nil
}

// ListActiveByStudent получает статусы непросроченных абонементов ученика
// с остатком кредитов больше нуля
func (r *Repository) ListActiveByStudent(ctx context.Context, studentID uuid.UUID, asOf time.Time) ([]*domain.SubscriptionStatus, error) {
	subs, err := r.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	statuses := make([]*domain.SubscriptionStatus, 0)
	for _, s := range subs {
		if s.IsExpired(asOf) {
			continue
		}

		status, err := r.GetStatus(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if status.LessonsLeft() <= 0 {
			continue
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// CoveredCategoryIDs возвращает категории, покрытые непросроченными
// абонементами ученика с остатком кредитов. Используется проверкой
// вступления ученика в группу: группа требует покрытия всех категорий
// её будущих занятий.
func (r *Repository) CoveredCategoryIDs(ctx context.Context, studentID uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT tc.category_id").
		From("subscriptions s").
		Join("subscription_templates t ON t.id = s.template_id").
		Join("template_categories tc ON tc.template_id = t.id").
		Where(squirrel.Eq{"s.student_id": studentID}).
		Where(squirrel.Or{
			squirrel.Expr("s.expiration_date IS NULL"),
			squirrel.Gt{"s.expiration_date": asOf},
		}).
		Where(squirrel.Expr(
			"t.lesson_count > (SELECT COUNT(*) FROM lesson_subscriptions ls WHERE ls.subscription_id = s.id AND ls.cancelled = false)",
		)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CoveredCategoryIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CoveredCategoryIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: CoveredCategoryIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CoveredCategoryIDs - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

// Вспомогательные методы

func (r *Repository) templateCategoryIDs(ctx context.Context, executor DBExecutor, templateID uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := psqlbuilder.Select("category_id").
		From("template_categories").
		Where(squirrel.Eq{"template_id": templateID}).
		OrderBy("category_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: templateCategoryIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: templateCategoryIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: templateCategoryIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: templateCategoryIDs - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	var s domain.Subscription
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.TemplateID,
		&s.ExpirationDate,
		&s.PaymentID,
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

func scanTemplate(row rowScanner) (*domain.SubscriptionTemplate, error) {
	var t domain.SubscriptionTemplate
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.LessonCount,
		&t.Price,
		&t.ExpirationDate,
		&t.ExpirationDayCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

func scanUse(row rowScanner) (*domain.LessonSubscription, error) {
	var u domain.LessonSubscription
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&u.ID,
		&u.LessonID,
		&u.SubscriptionID,
		&u.Cancelled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time

	return &u, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, c := range columns {
		prefixed[i] = alias + "." + c
	}
	return prefixed
}

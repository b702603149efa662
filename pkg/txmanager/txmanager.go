// Package txmanager управление транзакциями над обёрнутым в метрики пулом.
// Транзакция протаскивается в context; репозитории достают её через
// dbmetrics.GetExecutor.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/dbmetrics"
)

// ErrSerialization возвращается, когда транзакция была прервана из-за
// конфликта сериализации (SQLSTATE 40001). Вызывающий слой может
// ограниченно повторить операцию.
var ErrSerialization = errors.New("txmanager: transaction serialization failure")

// pq SQLSTATE коды, означающие конфликт сериализации или deadlock
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// AsSerialization конвертирует ошибку pq в ErrSerialization, если это
// конфликт сериализации, иначе возвращает ошибку как есть
func AsSerialization(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) == codeSerializationFailure || string(pqErr.Code) == codeDeadlockDetected {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
	}
	return err
}

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает transaction manager над обёрнутым пулом
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в serializable-транзакции.
// Используется для всех операций вида "проверили-решили-записали":
// при конкурентных бронированиях конфликт превращается в ErrSerialization.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) do(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin tx: %w", err)
	}

	if err := fn(dbmetrics.InjectTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return AsSerialization(err)
	}

	if err := tx.Commit(); err != nil {
		return AsSerialization(fmt.Errorf("txmanager: commit tx: %w", err))
	}

	return nil
}

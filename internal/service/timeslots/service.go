package timeslots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	slotRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/slot"
)

// Service сервис еженедельного расписания преподавателей.
// Слоты хранят время начала и конца в минутах от полуночи рабочего
// часового пояса школы; конкретные даты из них материализует
// генератор доступных окон.
type Service struct {
	slotRepo    SlotRepository
	catalogRepo CatalogRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		catalogRepo: catalogRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает слот расписания преподавателя.
// Слот не может пересекаться с другими слотами того же преподавателя
// в тот же день недели; проверка и вставка выполняются в serializable-
// транзакции.
func (s *Service) Create(ctx context.Context, slot *domain.SlotDefinition, actor domain.Actor) (*domain.SlotDefinition, error) {
	s.logger.Info("Create: teacher=%s, day=%d, window=%d-%d",
		slot.TeacherID, slot.DayOfWeek, slot.StartMinutes, slot.EndMinutes)

	if err := validateWindow(slot.DayOfWeek, slot.StartMinutes, slot.EndMinutes); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkScheduleAccess(slot.TeacherID, actor); err != nil {
		return nil, err
	}

	teacher, err := s.catalogRepo.GetTeacher(ctx, slot.TeacherID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
			s.logger.Warn("Create: teacher id=%s not found", slot.TeacherID)
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("Create: repository error for teacher id=%s: %v", slot.TeacherID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}
	if !teacher.IsActive() {
		s.logger.Warn("Create: teacher id=%s is deactivated", slot.TeacherID)
		return nil, ErrTeacherInactive
	}

	var created *domain.SlotDefinition
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overlap, err := s.slotRepo.HasOverlapping(txCtx, slot.TeacherID, slot.DayOfWeek, slot.StartMinutes, slot.EndMinutes, nil)
		if err != nil {
			s.logger.Error("Create: failed to check slot overlap: %v", err)
			return fmt.Errorf("%w: Create - failed to check overlap: %v", ErrInternal, err)
		}
		if overlap {
			s.logger.Warn("Create: slot overlaps existing slot of teacher=%s", slot.TeacherID)
			return ErrSlotOverlap
		}

		created, err = s.slotRepo.Create(txCtx, slot)
		if err != nil {
			s.logger.Error("Create: failed to create slot: %v", err)
			return fmt.Errorf("%w: Create - failed to create slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: created slot id=%s for teacher=%s", created.ID, slot.TeacherID)
	return created, nil
}

// ListByTeacher получает слоты преподавателя
func (s *Service) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error) {
	slots, err := s.slotRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("ListByTeacher: repository error for teacher id=%s: %v", teacherID, err)
		return nil, fmt.Errorf("%w: ListByTeacher - repository error: %v", ErrInternal, err)
	}
	return slots, nil
}

// Update изменяет день недели и окно слота с той же проверкой пересечений,
// исключая сам изменяемый слот
func (s *Service) Update(ctx context.Context, slotID uuid.UUID, dayOfWeek, startMinutes, endMinutes int, actor domain.Actor) (*domain.SlotDefinition, error) {
	s.logger.Info("Update: slot=%s, day=%d, window=%d-%d", slotID, dayOfWeek, startMinutes, endMinutes)

	if err := validateWindow(dayOfWeek, startMinutes, endMinutes); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	var updated *domain.SlotDefinition
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				s.logger.Warn("Update: slot id=%s not found", slotID)
				return ErrSlotNotFound
			}
			s.logger.Error("Update: repository error for slot id=%s: %v", slotID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if err := s.checkScheduleAccess(slot.TeacherID, actor); err != nil {
			return err
		}

		overlap, err := s.slotRepo.HasOverlapping(txCtx, slot.TeacherID, dayOfWeek, startMinutes, endMinutes, &slotID)
		if err != nil {
			s.logger.Error("Update: failed to check slot overlap: %v", err)
			return fmt.Errorf("%w: Update - failed to check overlap: %v", ErrInternal, err)
		}
		if overlap {
			s.logger.Warn("Update: slot id=%s would overlap another slot", slotID)
			return ErrSlotOverlap
		}

		slot.DayOfWeek = dayOfWeek
		slot.StartMinutes = startMinutes
		slot.EndMinutes = endMinutes

		if err := s.slotRepo.Update(txCtx, slot); err != nil {
			s.logger.Error("Update: failed to update slot id=%s: %v", slotID, err)
			return fmt.Errorf("%w: Update - failed to update slot: %v", ErrInternal, err)
		}

		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: updated slot id=%s", slotID)
	return updated, nil
}

// Delete удаляет слот расписания
func (s *Service) Delete(ctx context.Context, slotID uuid.UUID, actor domain.Actor) error {
	s.logger.Info("Delete: slot=%s by %s=%s", slotID, actor.Role, actor.ID)

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Delete: slot id=%s not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: repository error for slot id=%s: %v", slotID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.checkScheduleAccess(slot.TeacherID, actor); err != nil {
		return err
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: failed to delete slot id=%s: %v", slotID, err)
		return fmt.Errorf("%w: Delete - failed to delete slot: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted slot id=%s", slotID)
	return nil
}

// Вспомогательные методы

// checkScheduleAccess проверяет право управлять расписанием преподавателя:
// администратор управляет любым, преподаватель — только своим
func (s *Service) checkScheduleAccess(teacherID uuid.UUID, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == domain.RoleTeacher && actor.ID == teacherID {
		return nil
	}

	s.logger.Warn("checkScheduleAccess: %s=%s cannot manage schedule of teacher=%s", actor.Role, actor.ID, teacherID)
	return ErrAccessDenied
}

// validateWindow проверяет корректность дня недели и окна слота
func validateWindow(dayOfWeek, startMinutes, endMinutes int) error {
	if dayOfWeek < domain.MinDayOfWeek || dayOfWeek > domain.MaxDayOfWeek {
		return ErrInvalidDayOfWeek
	}
	if startMinutes < 0 || endMinutes > domain.MinutesPerDay || startMinutes >= endMinutes {
		return ErrInvalidTimeRange
	}
	return nil
}

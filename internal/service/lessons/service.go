package lessons

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
)

// Service сервис занятий: чтение и отмена с возвратом кредитов
type Service struct {
	lessonRepo       LessonRepository
	subscriptionRepo SubscriptionRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса занятий
func NewService(
	lessonRepo LessonRepository,
	subscriptionRepo SubscriptionRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		lessonRepo:       lessonRepo,
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID получает занятие по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, lessonRepo.ErrLessonNotFound) {
			s.logger.Warn("GetByID: lesson id=%s not found", id)
			return nil, ErrLessonNotFound
		}
		s.logger.Error("GetByID: repository error for lesson id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return lesson, nil
}

// Cancel отменяет занятие и возвращает кредиты всем записанным ученикам.
//
// Права: администратор отменяет любое занятие, преподаватель — занятие,
// к которому привязан, ученик — занятие, на которое записан (при этом
// отменяется всё занятие, как и в остальных случаях).
func (s *Service) Cancel(ctx context.Context, lessonID uuid.UUID, actor domain.Actor) error {
	s.logger.Info("Cancel: lesson=%s by %s=%s", lessonID, actor.Role, actor.ID)

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		lesson, err := s.lessonRepo.GetByID(txCtx, lessonID)
		if err != nil {
			if errors.Is(err, lessonRepo.ErrLessonNotFound) {
				s.logger.Warn("Cancel: lesson id=%s not found", lessonID)
				return ErrLessonNotFound
			}
			s.logger.Error("Cancel: repository error for lesson id=%s: %v", lessonID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if lesson.Terminated {
			s.logger.Warn("Cancel: lesson id=%s is already terminated", lessonID)
			return ErrAlreadyTerminated
		}

		if err := s.checkCancelAccess(txCtx, lesson, actor); err != nil {
			return err
		}

		if err := s.lessonRepo.Terminate(txCtx, lessonID); err != nil {
			s.logger.Error("Cancel: failed to terminate lesson id=%s: %v", lessonID, err)
			return fmt.Errorf("%w: Cancel - failed to terminate lesson: %v", ErrInternal, err)
		}

		released, err := s.subscriptionRepo.CancelUsesByLesson(txCtx, lessonID)
		if err != nil {
			s.logger.Error("Cancel: failed to release credits for lesson id=%s: %v", lessonID, err)
			return fmt.Errorf("%w: Cancel - failed to release credits: %v", ErrInternal, err)
		}

		s.logger.Info("Cancel: terminated lesson id=%s, returned %d credits", lessonID, released)
		return nil
	})
}

// Вспомогательные методы

// checkCancelAccess проверяет право участника отменить занятие
func (s *Service) checkCancelAccess(ctx context.Context, lesson *domain.Lesson, actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil

	case domain.RoleTeacher:
		linked, err := s.lessonRepo.IsTeacherLinked(ctx, actor.ID, lesson.ID)
		if err != nil {
			s.logger.Error("checkCancelAccess: failed to check teacher link: %v", err)
			return fmt.Errorf("%w: checkCancelAccess - failed to check teacher link: %v", ErrInternal, err)
		}
		if !linked {
			s.logger.Warn("checkCancelAccess: teacher=%s is not linked to lesson=%s", actor.ID, lesson.ID)
			return ErrAccessDenied
		}
		return nil

	case domain.RoleStudent:
		enrolled, err := s.subscriptionRepo.HasActiveUseByStudent(ctx, actor.ID, lesson.ID)
		if err != nil {
			s.logger.Error("checkCancelAccess: failed to check enrollment: %v", err)
			return fmt.Errorf("%w: checkCancelAccess - failed to check enrollment: %v", ErrInternal, err)
		}
		if !enrolled {
			s.logger.Warn("checkCancelAccess: student=%s is not enrolled in lesson=%s", actor.ID, lesson.ID)
			return ErrAccessDenied
		}
		return nil
	}

	s.logger.Warn("checkCancelAccess: unknown role=%s", actor.Role)
	return ErrAccessDenied
}

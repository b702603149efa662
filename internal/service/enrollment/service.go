package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	groupRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/group"
)

// Service сервис членства учеников в группах
type Service struct {
	groupRepo        GroupRepository
	lessonRepo       LessonRepository
	subscriptionRepo SubscriptionRepository
	catalogRepo      CatalogRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса членства в группах
func NewService(
	groupRepo GroupRepository,
	lessonRepo LessonRepository,
	subscriptionRepo SubscriptionRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		groupRepo:        groupRepo,
		lessonRepo:       lessonRepo,
		subscriptionRepo: subscriptionRepo,
		catalogRepo:      catalogRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Enroll добавляет ученика в группу.
//
// Проверки выполняются в serializable-транзакции, закрывающей гонку
// между одновременными вступлениями в почти заполненную группу:
//  1. группа существует и активна;
//  2. ученик существует и активен;
//  3. ученик ещё не состоит в группе;
//  4. в группе есть свободное место (count < max_capacity);
//  5. действующие абонементы ученика покрывают категории всех будущих
//     подтверждённых занятий группы.
func (s *Service) Enroll(ctx context.Context, studentID, groupID uuid.UUID) error {
	s.logger.Info("Enroll: student=%s, group=%s", studentID, groupID)

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		group, err := s.groupRepo.GetByID(txCtx, groupID)
		if err != nil {
			if errors.Is(err, groupRepo.ErrGroupNotFound) {
				s.logger.Warn("Enroll: group id=%s not found", groupID)
				return ErrGroupNotFound
			}
			s.logger.Error("Enroll: repository error for group id=%s: %v", groupID, err)
			return fmt.Errorf("%w: Enroll - repository error: %v", ErrInternal, err)
		}
		if !group.IsActive() {
			s.logger.Warn("Enroll: group id=%s is deactivated", groupID)
			return ErrGroupInactive
		}

		student, err := s.catalogRepo.GetStudent(txCtx, studentID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStudentNotFound) {
				s.logger.Warn("Enroll: student id=%s not found", studentID)
				return ErrStudentNotFound
			}
			s.logger.Error("Enroll: repository error for student id=%s: %v", studentID, err)
			return fmt.Errorf("%w: Enroll - repository error: %v", ErrInternal, err)
		}
		if !student.IsActive() {
			s.logger.Warn("Enroll: student id=%s is deactivated", studentID)
			return ErrStudentInactive
		}

		member, err := s.groupRepo.IsStudentMember(txCtx, studentID, groupID)
		if err != nil {
			s.logger.Error("Enroll: failed to check membership: %v", err)
			return fmt.Errorf("%w: Enroll - failed to check membership: %v", ErrInternal, err)
		}
		if member {
			s.logger.Warn("Enroll: student=%s is already a member of group=%s", studentID, groupID)
			return ErrAlreadyMember
		}

		count, err := s.groupRepo.CountStudents(txCtx, groupID)
		if err != nil {
			s.logger.Error("Enroll: failed to count students: %v", err)
			return fmt.Errorf("%w: Enroll - failed to count students: %v", ErrInternal, err)
		}
		if count >= group.MaxCapacity {
			s.logger.Warn("Enroll: group=%s is full, %d/%d", groupID, count, group.MaxCapacity)
			return ErrGroupFull
		}

		now := s.timeProvider.Now()
		if err := s.checkCategoryCoverage(txCtx, studentID, groupID, now); err != nil {
			return err
		}

		if err := s.groupRepo.AddStudent(txCtx, studentID, groupID); err != nil {
			s.logger.Error("Enroll: failed to add student=%s to group=%s: %v", studentID, groupID, err)
			return fmt.Errorf("%w: Enroll - failed to add student: %v", ErrInternal, err)
		}

		s.logger.Info("Enroll: added student=%s to group=%s, %d/%d", studentID, groupID, count+1, group.MaxCapacity)
		return nil
	})
}

// Remove исключает ученика из группы. Кредиты за будущие занятия группы
// не возвращаются здесь: записи на занятия живут отдельно от членства.
func (s *Service) Remove(ctx context.Context, studentID, groupID uuid.UUID) error {
	s.logger.Info("Remove: student=%s, group=%s", studentID, groupID)

	removed, err := s.groupRepo.RemoveStudent(ctx, studentID, groupID)
	if err != nil {
		s.logger.Error("Remove: repository error for student=%s: %v", studentID, err)
		return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}
	if removed == 0 {
		s.logger.Warn("Remove: student=%s is not a member of group=%s", studentID, groupID)
		return ErrNotMember
	}

	s.logger.Info("Remove: removed student=%s from group=%s", studentID, groupID)
	return nil
}

// Вспомогательные методы

// checkCategoryCoverage проверяет, что абонементы ученика покрывают
// категории всех будущих подтверждённых занятий группы
func (s *Service) checkCategoryCoverage(ctx context.Context, studentID, groupID uuid.UUID, now time.Time) error {
	required, err := s.lessonRepo.CategoryIDsOfFutureConfirmedByGroup(ctx, groupID, now)
	if err != nil {
		s.logger.Error("Enroll: failed to get group lesson categories: %v", err)
		return fmt.Errorf("%w: Enroll - failed to get group lesson categories: %v", ErrInternal, err)
	}
	if len(required) == 0 {
		return nil
	}

	covered, err := s.subscriptionRepo.CoveredCategoryIDs(ctx, studentID, now)
	if err != nil {
		s.logger.Error("Enroll: failed to get covered categories: %v", err)
		return fmt.Errorf("%w: Enroll - failed to get covered categories: %v", ErrInternal, err)
	}

	coveredSet := make(map[uuid.UUID]struct{}, len(covered))
	for _, id := range covered {
		coveredSet[id] = struct{}{}
	}

	for _, id := range required {
		if _, ok := coveredSet[id]; !ok {
			s.logger.Warn("Enroll: student=%s has no subscription covering category=%s", studentID, id)
			return ErrCategoriesNotCovered
		}
	}

	return nil
}

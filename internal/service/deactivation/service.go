package deactivation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	groupRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/group"
)

// Service сервис каскадной деактивации сущностей расписания.
// Каждый каскад выполняется целиком в одной serializable-транзакции:
// либо деактивируется всё, либо ничего.
type Service struct {
	lessonRepo       LessonRepository
	subscriptionRepo SubscriptionRepository
	groupRepo        GroupRepository
	catalogRepo      CatalogRepository
	notifier         Notifier
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса деактивации
func NewService(
	lessonRepo LessonRepository,
	subscriptionRepo SubscriptionRepository,
	groupRepo GroupRepository,
	catalogRepo CatalogRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		lessonRepo:       lessonRepo,
		subscriptionRepo: subscriptionRepo,
		groupRepo:        groupRepo,
		catalogRepo:      catalogRepo,
		notifier:         notifier,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// DeactivateTeacher деактивирует преподавателя:
//  1. удаляет его привязки к группам;
//  2. снимает его связи с будущими занятиями;
//  3. отменяет будущие индивидуальные занятия преподавателя с возвратом
//     кредитов ученикам — групповые занятия продолжают жить, их может
//     вести другой преподаватель группы;
//  4. помечает преподавателя деактивированным.
//
// Прошедшие занятия не изменяются: история посещений сохраняется.
func (s *Service) DeactivateTeacher(ctx context.Context, teacherID uuid.UUID) error {
	s.logger.Info("DeactivateTeacher: teacher=%s", teacherID)

	var cancelled []uuid.UUID

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		teacher, err := s.catalogRepo.GetTeacher(txCtx, teacherID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
				s.logger.Warn("DeactivateTeacher: teacher id=%s not found", teacherID)
				return ErrTeacherNotFound
			}
			s.logger.Error("DeactivateTeacher: repository error for teacher id=%s: %v", teacherID, err)
			return fmt.Errorf("%w: DeactivateTeacher - repository error: %v", ErrInternal, err)
		}
		if !teacher.IsActive() {
			s.logger.Warn("DeactivateTeacher: teacher id=%s is already deactivated", teacherID)
			return ErrAlreadyDeactivated
		}

		now := s.timeProvider.Now()

		// Будущие индивидуальные занятия собираются до снятия связей:
		// после DeleteFutureTeacherLinks их уже не найти по преподавателю
		lessons, err := s.lessonRepo.ListFutureNonGroupLessonsByTeacher(txCtx, teacherID, now)
		if err != nil {
			s.logger.Error("DeactivateTeacher: failed to list future lessons: %v", err)
			return fmt.Errorf("%w: DeactivateTeacher - failed to list future lessons: %v", ErrInternal, err)
		}

		groupsLeft, err := s.groupRepo.DeleteTeacherMemberships(txCtx, teacherID)
		if err != nil {
			s.logger.Error("DeactivateTeacher: failed to delete group memberships: %v", err)
			return fmt.Errorf("%w: DeactivateTeacher - failed to delete group memberships: %v", ErrInternal, err)
		}

		linksDeleted, err := s.lessonRepo.DeleteFutureTeacherLinks(txCtx, teacherID, now)
		if err != nil {
			s.logger.Error("DeactivateTeacher: failed to delete lesson links: %v", err)
			return fmt.Errorf("%w: DeactivateTeacher - failed to delete lesson links: %v", ErrInternal, err)
		}

		var creditsReturned int64
		for _, lesson := range lessons {
			if err := s.lessonRepo.Terminate(txCtx, lesson.ID); err != nil {
				s.logger.Error("DeactivateTeacher: failed to terminate lesson id=%s: %v", lesson.ID, err)
				return fmt.Errorf("%w: DeactivateTeacher - failed to terminate lesson: %v", ErrInternal, err)
			}

			released, err := s.subscriptionRepo.CancelUsesByLesson(txCtx, lesson.ID)
			if err != nil {
				s.logger.Error("DeactivateTeacher: failed to release credits for lesson id=%s: %v", lesson.ID, err)
				return fmt.Errorf("%w: DeactivateTeacher - failed to release credits: %v", ErrInternal, err)
			}
			creditsReturned += released
			cancelled = append(cancelled, lesson.ID)
		}

		if err := s.catalogRepo.TerminateTeacher(txCtx, teacherID); err != nil {
			s.logger.Error("DeactivateTeacher: failed to terminate teacher id=%s: %v", teacherID, err)
			return fmt.Errorf("%w: DeactivateTeacher - failed to terminate teacher: %v", ErrInternal, err)
		}

		s.logger.Info("DeactivateTeacher: teacher=%s deactivated, left %d groups, unlinked %d lessons, cancelled %d lessons, returned %d credits",
			teacherID, groupsLeft, linksDeleted, len(lessons), creditsReturned)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyCancelled(ctx, cancelled)
	return nil
}

// DeactivateStudent деактивирует ученика: удаляет его членства в группах,
// отменяет его записи на будущие занятия с возвратом кредитов и помечает
// ученика деактивированным. Сами занятия не отменяются.
func (s *Service) DeactivateStudent(ctx context.Context, studentID uuid.UUID) error {
	s.logger.Info("DeactivateStudent: student=%s", studentID)

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		student, err := s.catalogRepo.GetStudent(txCtx, studentID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStudentNotFound) {
				s.logger.Warn("DeactivateStudent: student id=%s not found", studentID)
				return ErrStudentNotFound
			}
			s.logger.Error("DeactivateStudent: repository error for student id=%s: %v", studentID, err)
			return fmt.Errorf("%w: DeactivateStudent - repository error: %v", ErrInternal, err)
		}
		if !student.IsActive() {
			s.logger.Warn("DeactivateStudent: student id=%s is already deactivated", studentID)
			return ErrAlreadyDeactivated
		}

		now := s.timeProvider.Now()

		groupsLeft, err := s.groupRepo.DeleteStudentMemberships(txCtx, studentID)
		if err != nil {
			s.logger.Error("DeactivateStudent: failed to delete group memberships: %v", err)
			return fmt.Errorf("%w: DeactivateStudent - failed to delete group memberships: %v", ErrInternal, err)
		}

		usesCancelled, err := s.subscriptionRepo.CancelFutureUsesByStudent(txCtx, studentID, now)
		if err != nil {
			s.logger.Error("DeactivateStudent: failed to cancel future uses: %v", err)
			return fmt.Errorf("%w: DeactivateStudent - failed to cancel future uses: %v", ErrInternal, err)
		}

		if err := s.catalogRepo.TerminateStudent(txCtx, studentID); err != nil {
			s.logger.Error("DeactivateStudent: failed to terminate student id=%s: %v", studentID, err)
			return fmt.Errorf("%w: DeactivateStudent - failed to terminate student: %v", ErrInternal, err)
		}

		s.logger.Info("DeactivateStudent: student=%s deactivated, left %d groups, cancelled %d enrollments",
			studentID, groupsLeft, usesCancelled)
		return nil
	})
}

// DeactivateGroup деактивирует группу: отменяет будущие подтверждённые
// занятия группы с возвратом кредитов и снятием связей преподавателей,
// удаляет составы группы и помечает группу деактивированной.
func (s *Service) DeactivateGroup(ctx context.Context, groupID uuid.UUID) error {
	s.logger.Info("DeactivateGroup: group=%s", groupID)

	var cancelled []uuid.UUID

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		group, err := s.groupRepo.GetByID(txCtx, groupID)
		if err != nil {
			if errors.Is(err, groupRepo.ErrGroupNotFound) {
				s.logger.Warn("DeactivateGroup: group id=%s not found", groupID)
				return ErrGroupNotFound
			}
			s.logger.Error("DeactivateGroup: repository error for group id=%s: %v", groupID, err)
			return fmt.Errorf("%w: DeactivateGroup - repository error: %v", ErrInternal, err)
		}
		if !group.IsActive() {
			s.logger.Warn("DeactivateGroup: group id=%s is already deactivated", groupID)
			return ErrAlreadyDeactivated
		}

		now := s.timeProvider.Now()

		lessons, err := s.lessonRepo.ListFutureConfirmedByGroup(txCtx, groupID, now)
		if err != nil {
			s.logger.Error("DeactivateGroup: failed to list future lessons: %v", err)
			return fmt.Errorf("%w: DeactivateGroup - failed to list future lessons: %v", ErrInternal, err)
		}

		var creditsReturned int64
		for _, lesson := range lessons {
			if err := s.lessonRepo.Terminate(txCtx, lesson.ID); err != nil {
				s.logger.Error("DeactivateGroup: failed to terminate lesson id=%s: %v", lesson.ID, err)
				return fmt.Errorf("%w: DeactivateGroup - failed to terminate lesson: %v", ErrInternal, err)
			}

			if _, err := s.lessonRepo.DeleteTeacherLinks(txCtx, lesson.ID); err != nil {
				s.logger.Error("DeactivateGroup: failed to unlink teachers from lesson id=%s: %v", lesson.ID, err)
				return fmt.Errorf("%w: DeactivateGroup - failed to unlink teachers: %v", ErrInternal, err)
			}

			released, err := s.subscriptionRepo.CancelUsesByLesson(txCtx, lesson.ID)
			if err != nil {
				s.logger.Error("DeactivateGroup: failed to release credits for lesson id=%s: %v", lesson.ID, err)
				return fmt.Errorf("%w: DeactivateGroup - failed to release credits: %v", ErrInternal, err)
			}
			creditsReturned += released
			cancelled = append(cancelled, lesson.ID)
		}

		membersRemoved, err := s.groupRepo.DeleteAllMemberships(txCtx, groupID)
		if err != nil {
			s.logger.Error("DeactivateGroup: failed to delete memberships: %v", err)
			return fmt.Errorf("%w: DeactivateGroup - failed to delete memberships: %v", ErrInternal, err)
		}

		if err := s.groupRepo.Terminate(txCtx, groupID); err != nil {
			s.logger.Error("DeactivateGroup: failed to terminate group id=%s: %v", groupID, err)
			return fmt.Errorf("%w: DeactivateGroup - failed to terminate group: %v", ErrInternal, err)
		}

		s.logger.Info("DeactivateGroup: group=%s deactivated, cancelled %d lessons, removed %d members, returned %d credits",
			groupID, len(lessons), membersRemoved, creditsReturned)
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyCancelled(ctx, cancelled)
	return nil
}

// notifyCancelled уведомляет об отменённых каскадом занятиях.
// Сбой уведомления не отменяет деактивацию.
func (s *Service) notifyCancelled(ctx context.Context, lessonIDs []uuid.UUID) {
	for _, id := range lessonIDs {
		if err := s.notifier.LessonCancelled(ctx, id); err != nil {
			s.logger.Warn("notifyCancelled: failed to notify about lesson=%s: %v", id, err)
		}
	}
}

// DeactivateClassroom деактивирует зал. Уже назначенные занятия остаются
// в зале; деактивация лишь запрещает новые назначения.
func (s *Service) DeactivateClassroom(ctx context.Context, classroomID uuid.UUID) error {
	s.logger.Info("DeactivateClassroom: classroom=%s", classroomID)

	classroom, err := s.catalogRepo.GetClassroom(ctx, classroomID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClassroomNotFound) {
			s.logger.Warn("DeactivateClassroom: classroom id=%s not found", classroomID)
			return ErrClassroomNotFound
		}
		s.logger.Error("DeactivateClassroom: repository error for classroom id=%s: %v", classroomID, err)
		return fmt.Errorf("%w: DeactivateClassroom - repository error: %v", ErrInternal, err)
	}
	if !classroom.IsActive() {
		s.logger.Warn("DeactivateClassroom: classroom id=%s is already deactivated", classroomID)
		return ErrAlreadyDeactivated
	}

	if err := s.catalogRepo.TerminateClassroom(ctx, classroomID); err != nil {
		s.logger.Error("DeactivateClassroom: failed to terminate classroom id=%s: %v", classroomID, err)
		return fmt.Errorf("%w: DeactivateClassroom - failed to terminate classroom: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateClassroom: classroom=%s deactivated", classroomID)
	return nil
}

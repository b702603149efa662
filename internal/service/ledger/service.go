package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
	subscriptionRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/subscription"
	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/service/ledger/models"
)

// Service сервис учёта абонементов: покупка, списание кредитов на занятия
// и возврат кредитов при отменах.
//
// Методы Reserve и Release не открывают транзакций сами: вызывающий
// usecase оборачивает их в serializable-транзакцию вместе с проверками
// конфликтов расписания.
type Service struct {
	subscriptionRepo SubscriptionRepository
	lessonRepo       LessonRepository
	catalogRepo      CatalogRepository
	groupRepo        GroupRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса абонементов
func NewService(
	subscriptionRepo SubscriptionRepository,
	lessonRepo LessonRepository,
	catalogRepo CatalogRepository,
	groupRepo GroupRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		lessonRepo:       lessonRepo,
		catalogRepo:      catalogRepo,
		groupRepo:        groupRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetStatus получает статус абонемента: шаблон, остаток кредитов, срок действия
func (s *Service) GetStatus(ctx context.Context, subscriptionID uuid.UUID) (*models.SubscriptionStatusResponse, error) {
	status, err := s.subscriptionRepo.GetStatus(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
			s.logger.Warn("GetStatus: subscription id=%s not found", subscriptionID)
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("GetStatus: repository error for subscription id=%s: %v", subscriptionID, err)
		return nil, fmt.Errorf("%w: GetStatus - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStatus(status), nil
}

// ListStudentSubscriptions получает действующие абонементы ученика
// с ненулевым остатком кредитов
func (s *Service) ListStudentSubscriptions(ctx context.Context, studentID uuid.UUID, now time.Time) ([]*models.SubscriptionStatusResponse, error) {
	if _, err := s.getActiveStudent(ctx, studentID, "ListStudentSubscriptions"); err != nil {
		return nil, err
	}

	statuses, err := s.subscriptionRepo.ListActiveByStudent(ctx, studentID, now)
	if err != nil {
		s.logger.Error("ListStudentSubscriptions: repository error for student id=%s: %v", studentID, err)
		return nil, fmt.Errorf("%w: ListStudentSubscriptions - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStatusList(statuses), nil
}

// Purchase покупает абонемент по шаблону. Срок действия вычисляется
// из шаблона на момент покупки: относительный expiration_day_count
// имеет приоритет над абсолютной датой.
func (s *Service) Purchase(ctx context.Context, studentID, templateID uuid.UUID, paymentID *uuid.UUID, now time.Time) (*domain.Subscription, error) {
	s.logger.Info("Purchase: student=%s, template=%s", studentID, templateID)

	if _, err := s.getActiveStudent(ctx, studentID, "Purchase"); err != nil {
		return nil, err
	}

	template, err := s.subscriptionRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrTemplateNotFound) {
			s.logger.Warn("Purchase: template id=%s not found", templateID)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("Purchase: repository error for template id=%s: %v", templateID, err)
		return nil, fmt.Errorf("%w: Purchase - repository error: %v", ErrInternal, err)
	}

	if template.IsExpired(now) {
		s.logger.Warn("Purchase: template id=%s has expired", templateID)
		return nil, ErrTemplateExpired
	}

	subscription := &domain.Subscription{
		StudentID:      studentID,
		TemplateID:     template.ID,
		ExpirationDate: template.ExpirationFrom(now),
		PaymentID:      paymentID,
	}

	created, err := s.subscriptionRepo.CreateSubscription(ctx, subscription)
	if err != nil {
		s.logger.Error("Purchase: failed to create subscription for student=%s: %v", studentID, err)
		return nil, fmt.Errorf("%w: Purchase - failed to create subscription: %v", ErrInternal, err)
	}

	s.logger.Info("Purchase: created subscription id=%s for student=%s", created.ID, studentID)
	return created, nil
}

// Reserve списывает один кредит абонемента на занятие.
//
// Если subscriptionID задан — абонемент должен принадлежать ученику,
// покрывать категорию занятия, быть непросроченным и иметь остаток.
// Если subscriptionID не задан, берётся первый подходящий действующий
// абонемент ученика, а при его отсутствии автоматически покупается
// самый дешёвый непросроченный шаблон, покрывающий категорию.
func (s *Service) Reserve(ctx context.Context, studentID uuid.UUID, lesson *domain.Lesson, subscriptionID *uuid.UUID, now time.Time) (*domain.LessonSubscription, error) {
	s.logger.Info("Reserve: student=%s, lesson=%s", studentID, lesson.ID)

	if _, err := s.getActiveStudent(ctx, studentID, "Reserve"); err != nil {
		return nil, err
	}

	// Повторная запись на то же занятие запрещена
	enrolled, err := s.subscriptionRepo.HasActiveUseByStudent(ctx, studentID, lesson.ID)
	if err != nil {
		s.logger.Error("Reserve: failed to check enrollment for student=%s: %v", studentID, err)
		return nil, fmt.Errorf("%w: Reserve - failed to check enrollment: %v", ErrInternal, err)
	}
	if enrolled {
		s.logger.Warn("Reserve: student=%s is already enrolled in lesson=%s", studentID, lesson.ID)
		return nil, ErrAlreadyEnrolled
	}

	// Запись на групповое занятие доступна только участникам группы
	if lesson.GroupID != nil {
		member, err := s.groupRepo.IsStudentMember(ctx, studentID, *lesson.GroupID)
		if err != nil {
			s.logger.Error("Reserve: failed to check group membership for student=%s: %v", studentID, err)
			return nil, fmt.Errorf("%w: Reserve - failed to check group membership: %v", ErrInternal, err)
		}
		if !member {
			s.logger.Warn("Reserve: student=%s is not a member of group=%s", studentID, *lesson.GroupID)
			return nil, ErrNotGroupMember
		}
	}

	var status *domain.SubscriptionStatus
	if subscriptionID != nil {
		status, err = s.explicitSubscription(ctx, studentID, lesson, *subscriptionID, now)
	} else {
		status, err = s.pickOrIssueSubscription(ctx, studentID, lesson, now)
	}
	if err != nil {
		return nil, err
	}

	use, err := s.subscriptionRepo.CreateUse(ctx, &domain.LessonSubscription{
		LessonID:       lesson.ID,
		SubscriptionID: status.Subscription.ID,
	})
	if err != nil {
		s.logger.Error("Reserve: failed to create use for subscription=%s: %v", status.Subscription.ID, err)
		return nil, fmt.Errorf("%w: Reserve - failed to create use: %v", ErrInternal, err)
	}

	s.logger.Info("Reserve: spent credit of subscription=%s on lesson=%s, %d left",
		status.Subscription.ID, lesson.ID, status.LessonsLeft()-1)
	return use, nil
}

// ReserveForLesson списывает кредит на уже существующее занятие.
// Точка входа HTTP-эндпоинта записи на занятие: в отличие от Reserve,
// сама открывает serializable-транзакцию и проверяет занятость ученика
// в окне занятия.
func (s *Service) ReserveForLesson(ctx context.Context, studentID, lessonID uuid.UUID, subscriptionID *uuid.UUID, now time.Time) (*domain.LessonSubscription, error) {
	s.logger.Info("ReserveForLesson: student=%s, lesson=%s", studentID, lessonID)

	var use *domain.LessonSubscription

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		lesson, err := s.lessonRepo.GetByID(txCtx, lessonID)
		if err != nil {
			if errors.Is(err, lessonRepo.ErrLessonNotFound) {
				s.logger.Warn("ReserveForLesson: lesson id=%s not found", lessonID)
				return ErrLessonNotFound
			}
			s.logger.Error("ReserveForLesson: failed to get lesson id=%s: %v", lessonID, err)
			return fmt.Errorf("%w: ReserveForLesson - failed to get lesson: %v", ErrInternal, err)
		}
		if lesson.Terminated {
			s.logger.Warn("ReserveForLesson: lesson id=%s is terminated", lessonID)
			return ErrLessonTerminated
		}
		if lesson.StartTime.Before(now) {
			s.logger.Warn("ReserveForLesson: lesson id=%s has already started", lessonID)
			return ErrLessonStarted
		}

		busy, err := s.lessonRepo.HasStudentOverlap(txCtx, studentID, lesson.StartTime, lesson.FinishTime, &lesson.ID)
		if err != nil {
			s.logger.Error("ReserveForLesson: failed to check student overlap: %v", err)
			return fmt.Errorf("%w: ReserveForLesson - failed to check student overlap: %v", ErrInternal, err)
		}
		if busy {
			s.logger.Warn("ReserveForLesson: student=%s is busy in lesson window", studentID)
			return ErrStudentBusy
		}

		use, err = s.Reserve(txCtx, studentID, lesson, subscriptionID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return use, nil
}

// Release возвращает кредит: отменяет списание абонемента на занятие.
// Отмена уже отменённого списания не является ошибкой.
func (s *Service) Release(ctx context.Context, subscriptionID, lessonID uuid.UUID) error {
	use, err := s.subscriptionRepo.GetUse(ctx, subscriptionID, lessonID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrUseNotFound) {
			s.logger.Warn("Release: no use of subscription=%s on lesson=%s", subscriptionID, lessonID)
			return ErrUseNotFound
		}
		s.logger.Error("Release: repository error for subscription=%s: %v", subscriptionID, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if use.Cancelled {
		s.logger.Info("Release: use id=%s is already cancelled", use.ID)
		return nil
	}

	if err := s.subscriptionRepo.CancelUse(ctx, use.ID); err != nil {
		s.logger.Error("Release: failed to cancel use id=%s: %v", use.ID, err)
		return fmt.Errorf("%w: Release - failed to cancel use: %v", ErrInternal, err)
	}

	s.logger.Info("Release: returned credit of subscription=%s for lesson=%s", subscriptionID, lessonID)
	return nil
}

// ReleaseByLesson возвращает кредиты всем ученикам занятия.
// Используется отменой и каскадной отменой занятий.
func (s *Service) ReleaseByLesson(ctx context.Context, lessonID uuid.UUID) (int64, error) {
	released, err := s.subscriptionRepo.CancelUsesByLesson(ctx, lessonID)
	if err != nil {
		s.logger.Error("ReleaseByLesson: repository error for lesson=%s: %v", lessonID, err)
		return 0, fmt.Errorf("%w: ReleaseByLesson - repository error: %v", ErrInternal, err)
	}

	if released > 0 {
		s.logger.Info("ReleaseByLesson: returned %d credits for lesson=%s", released, lessonID)
	}
	return released, nil
}

// Вспомогательные методы

// explicitSubscription проверяет явно указанный абонемент
func (s *Service) explicitSubscription(ctx context.Context, studentID uuid.UUID, lesson *domain.Lesson, subscriptionID uuid.UUID, now time.Time) (*domain.SubscriptionStatus, error) {
	status, err := s.subscriptionRepo.GetStatus(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
			s.logger.Warn("Reserve: subscription id=%s not found", subscriptionID)
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("Reserve: repository error for subscription id=%s: %v", subscriptionID, err)
		return nil, fmt.Errorf("%w: Reserve - repository error: %v", ErrInternal, err)
	}

	if status.Subscription.StudentID != studentID {
		s.logger.Warn("Reserve: subscription=%s belongs to another student", subscriptionID)
		return nil, ErrNotOwner
	}
	if status.Subscription.IsExpired(now) {
		s.logger.Warn("Reserve: subscription=%s has expired", subscriptionID)
		return nil, ErrSubscriptionExpired
	}
	if !status.Template.Covers(lesson.CategoryID) {
		s.logger.Warn("Reserve: subscription=%s does not cover category=%s", subscriptionID, lesson.CategoryID)
		return nil, ErrCategoryMismatch
	}
	if status.LessonsLeft() <= 0 {
		s.logger.Warn("Reserve: subscription=%s has no lessons left", subscriptionID)
		return nil, ErrNoLessonsLeft
	}

	return status, nil
}

// pickOrIssueSubscription подбирает действующий абонемент ученика,
// покрывающий категорию занятия, либо автоматически покупает самый
// дешёвый подходящий шаблон
func (s *Service) pickOrIssueSubscription(ctx context.Context, studentID uuid.UUID, lesson *domain.Lesson, now time.Time) (*domain.SubscriptionStatus, error) {
	statuses, err := s.subscriptionRepo.ListActiveByStudent(ctx, studentID, now)
	if err != nil {
		s.logger.Error("Reserve: failed to list subscriptions for student=%s: %v", studentID, err)
		return nil, fmt.Errorf("%w: Reserve - failed to list subscriptions: %v", ErrInternal, err)
	}

	for _, status := range statuses {
		if status.IsApplicable(lesson.CategoryID, now) {
			return status, nil
		}
	}

	// Подходящего абонемента нет — автопокупка
	template, err := s.subscriptionRepo.FindCheapestTemplateForCategory(ctx, lesson.CategoryID, now)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrTemplateNotFound) {
			s.logger.Warn("Reserve: no template covers category=%s for student=%s", lesson.CategoryID, studentID)
			return nil, ErrNoSuitableSubscription
		}
		s.logger.Error("Reserve: failed to find template for category=%s: %v", lesson.CategoryID, err)
		return nil, fmt.Errorf("%w: Reserve - failed to find template: %v", ErrInternal, err)
	}

	subscription, err := s.subscriptionRepo.CreateSubscription(ctx, &domain.Subscription{
		StudentID:      studentID,
		TemplateID:     template.ID,
		ExpirationDate: template.ExpirationFrom(now),
	})
	if err != nil {
		s.logger.Error("Reserve: failed to auto-issue subscription for student=%s: %v", studentID, err)
		return nil, fmt.Errorf("%w: Reserve - failed to auto-issue subscription: %v", ErrInternal, err)
	}

	s.logger.Info("Reserve: auto-issued subscription id=%s from template=%s for student=%s",
		subscription.ID, template.ID, studentID)

	return &domain.SubscriptionStatus{
		Subscription:    *subscription,
		Template:        *template,
		UncancelledUses: 0,
	}, nil
}

// getActiveStudent получает ученика и проверяет, что он не деактивирован
func (s *Service) getActiveStudent(ctx context.Context, studentID uuid.UUID, op string) (*domain.Student, error) {
	student, err := s.catalogRepo.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStudentNotFound) {
			s.logger.Warn("%s: student id=%s not found", op, studentID)
			return nil, ErrStudentNotFound
		}
		s.logger.Error("%s: repository error for student id=%s: %v", op, studentID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if !student.IsActive() {
		s.logger.Warn("%s: student id=%s is deactivated", op, studentID)
		return nil, ErrStudentInactive
	}
	return student, nil
}

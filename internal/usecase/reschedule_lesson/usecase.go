package reschedule_lesson

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
)

// UseCase use case переноса занятия администратором
type UseCase struct {
	lessonRepo       LessonRepository
	subscriptionRepo SubscriptionRepository
	catalogRepo      CatalogRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lessonRepo LessonRepository,
	subscriptionRepo SubscriptionRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		lessonRepo:       lessonRepo,
		subscriptionRepo: subscriptionRepo,
		catalogRepo:      catalogRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case переноса занятия на новое окно и,
// опционально, в другой зал. Конфликты преподавателей, учеников и зала
// проверяются заново для нового окна, исключая само занятие.
// Списания по абонементам при переносе не пересматриваются: кредит
// остаётся за учеником, даже если абонемент к новой дате истёк.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleLesson: lesson=%s, start=%s, finish=%s",
		req.LessonID, req.StartTime.Format(time.RFC3339), req.FinishTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleLesson: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("RescheduleLesson: new window starts in the past")
		return nil, err
	}

	// 3. Новый зал существует и активен
	if req.ClassroomID != nil {
		classroom, err := uc.catalogRepo.GetClassroom(ctx, *req.ClassroomID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrClassroomNotFound) {
				uc.logger.Warn("RescheduleLesson: classroom id=%s not found", *req.ClassroomID)
				return nil, ErrClassroomNotFound
			}
			uc.logger.Error("RescheduleLesson: failed to get classroom id=%s: %v", *req.ClassroomID, err)
			return nil, fmt.Errorf("%w: failed to get classroom: %v", ErrInternal, err)
		}
		if !classroom.IsActive() {
			uc.logger.Warn("RescheduleLesson: classroom id=%s is deactivated", *req.ClassroomID)
			return nil, ErrClassroomInactive
		}
	}

	var result *domain.Lesson

	// 4. Проверки конфликтов и перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Занятие существует и не отменено
		lesson, err := uc.lessonRepo.GetByID(txCtx, req.LessonID)
		if err != nil {
			if errors.Is(err, lessonRepo.ErrLessonNotFound) {
				uc.logger.Warn("RescheduleLesson: lesson id=%s not found", req.LessonID)
				return ErrLessonNotFound
			}
			uc.logger.Error("RescheduleLesson: failed to get lesson id=%s: %v", req.LessonID, err)
			return fmt.Errorf("%w: failed to get lesson: %v", ErrInternal, err)
		}
		if lesson.Terminated {
			uc.logger.Warn("RescheduleLesson: lesson id=%s is terminated", req.LessonID)
			return ErrLessonTerminated
		}

		// 4.2. Занятость преподавателей в новом окне, без учета самого занятия
		teacherIDs, err := uc.lessonRepo.ListTeacherIDs(txCtx, lesson.ID)
		if err != nil {
			uc.logger.Error("RescheduleLesson: failed to list lesson teachers: %v", err)
			return fmt.Errorf("%w: failed to list lesson teachers: %v", ErrInternal, err)
		}
		for _, teacherID := range teacherIDs {
			busy, err := uc.lessonRepo.HasTeacherOverlap(txCtx, teacherID, req.StartTime, req.FinishTime, &lesson.ID)
			if err != nil {
				uc.logger.Error("RescheduleLesson: failed to check teacher overlap: %v", err)
				return fmt.Errorf("%w: failed to check teacher overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("RescheduleLesson: teacher id=%s is busy in new window", teacherID)
				return ErrTeacherBusy
			}
		}

		// 4.3. Занятость записанных учеников в новом окне
		studentIDs, err := uc.subscriptionRepo.ListStudentIDsByLesson(txCtx, lesson.ID)
		if err != nil {
			uc.logger.Error("RescheduleLesson: failed to list enrolled students: %v", err)
			return fmt.Errorf("%w: failed to list enrolled students: %v", ErrInternal, err)
		}
		for _, studentID := range studentIDs {
			busy, err := uc.lessonRepo.HasStudentOverlap(txCtx, studentID, req.StartTime, req.FinishTime, &lesson.ID)
			if err != nil {
				uc.logger.Error("RescheduleLesson: failed to check student overlap: %v", err)
				return fmt.Errorf("%w: failed to check student overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("RescheduleLesson: student id=%s is busy in new window", studentID)
				return ErrStudentBusy
			}
		}

		// 4.4. Занятость зала в новом окне: нового, если он задан,
		// иначе текущего зала занятия
		targetClassroom := lesson.ClassroomID
		if req.ClassroomID != nil {
			targetClassroom = req.ClassroomID
		}
		if targetClassroom != nil {
			busy, err := uc.lessonRepo.HasClassroomOverlap(txCtx, *targetClassroom, req.StartTime, req.FinishTime, lesson.AllowAdjacent, &lesson.ID)
			if err != nil {
				uc.logger.Error("RescheduleLesson: failed to check classroom overlap: %v", err)
				return fmt.Errorf("%w: failed to check classroom overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("RescheduleLesson: classroom id=%s is busy in new window", *targetClassroom)
				return ErrClassroomBusy
			}
		}

		// 4.5. Переносим занятие
		if err := uc.lessonRepo.UpdateSchedule(txCtx, lesson.ID, req.StartTime, req.FinishTime, req.ClassroomID); err != nil {
			uc.logger.Error("RescheduleLesson: failed to update schedule: %v", err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		lesson.StartTime = req.StartTime
		lesson.FinishTime = req.FinishTime
		lesson.ClassroomID = targetClassroom
		lesson.UpdatedAt = now

		result = lesson
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleLesson: successfully rescheduled lesson id=%s", result.ID)
	return toResponse(result), nil
}

// toResponse конвертирует доменное занятие в модель ответа
func toResponse(l *domain.Lesson) *Response {
	return &Response{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		CategoryID:    l.CategoryID,
		StartTime:     l.StartTime,
		FinishTime:    l.FinishTime,
		ClassroomID:   l.ClassroomID,
		GroupID:       l.GroupID,
		IsConfirmed:   l.IsConfirmed,
		AllowAdjacent: l.AllowAdjacent,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

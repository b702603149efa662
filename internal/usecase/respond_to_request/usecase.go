package respond_to_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
)

// UseCase use case ответа преподавателя на заявку ученика.
//
// Подтверждение назначает зал и выставляет is_confirmed.
// Отклонение мягко отменяет занятие, но НЕ возвращает кредит:
// возврат остаётся явной операцией отмены списания.
type UseCase struct {
	lessonRepo  LessonRepository
	catalogRepo CatalogRepository
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lessonRepo LessonRepository,
	catalogRepo CatalogRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		lessonRepo:  lessonRepo,
		catalogRepo: catalogRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case ответа на заявку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RespondToRequest: lesson=%s, teacher=%s, accept=%t", req.LessonID, req.TeacherID, req.Accept)

	// 1. Валидация входных данных
	if req.LessonID == uuid.Nil || req.TeacherID == uuid.Nil {
		uc.logger.Warn("RespondToRequest: lessonId and teacherId are required")
		return nil, fmt.Errorf("%w: lessonId and teacherId are required", ErrInvalidInput)
	}
	if req.Accept && req.ClassroomID == nil {
		uc.logger.Warn("RespondToRequest: classroom is required to accept")
		return nil, ErrClassroomRequired
	}

	var result *domain.Lesson

	// 2. Проверки и запись в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		lesson, err := uc.lessonRepo.GetByID(txCtx, req.LessonID)
		if err != nil {
			if errors.Is(err, lessonRepo.ErrLessonNotFound) {
				uc.logger.Warn("RespondToRequest: lesson id=%s not found", req.LessonID)
				return ErrLessonNotFound
			}
			uc.logger.Error("RespondToRequest: failed to get lesson: %v", err)
			return fmt.Errorf("%w: failed to get lesson: %v", ErrInternal, err)
		}

		// 2.1. Занятие должно быть ожидающей заявкой
		if !lesson.IsRequest() {
			uc.logger.Warn("RespondToRequest: lesson id=%s is not a pending request", req.LessonID)
			return ErrNotARequest
		}

		// 2.2. Отвечать может только привязанный преподаватель
		linked, err := uc.lessonRepo.IsTeacherLinked(txCtx, req.TeacherID, req.LessonID)
		if err != nil {
			uc.logger.Error("RespondToRequest: failed to check teacher link: %v", err)
			return fmt.Errorf("%w: failed to check teacher link: %v", ErrInternal, err)
		}
		if !linked {
			uc.logger.Warn("RespondToRequest: teacher=%s is not linked to lesson=%s", req.TeacherID, req.LessonID)
			return ErrAccessDenied
		}

		// 2.3. Отклонение: мягкая отмена, кредит остаётся списанным
		if !req.Accept {
			if err := uc.lessonRepo.Terminate(txCtx, req.LessonID); err != nil {
				uc.logger.Error("RespondToRequest: failed to terminate lesson: %v", err)
				return fmt.Errorf("%w: failed to terminate lesson: %v", ErrInternal, err)
			}

			lesson.Terminated = true
			result = lesson
			return nil
		}

		// 2.4. Подтверждение: зал существует, активен и свободен
		classroom, err := uc.catalogRepo.GetClassroom(txCtx, *req.ClassroomID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrClassroomNotFound) {
				uc.logger.Warn("RespondToRequest: classroom id=%s not found", *req.ClassroomID)
				return ErrClassroomNotFound
			}
			uc.logger.Error("RespondToRequest: failed to get classroom: %v", err)
			return fmt.Errorf("%w: failed to get classroom: %v", ErrInternal, err)
		}
		if !classroom.IsActive() {
			uc.logger.Warn("RespondToRequest: classroom id=%s is deactivated", *req.ClassroomID)
			return ErrClassroomInactive
		}

		busy, err := uc.lessonRepo.HasClassroomOverlap(txCtx, *req.ClassroomID, lesson.StartTime, lesson.FinishTime, lesson.AllowAdjacent, &lesson.ID)
		if err != nil {
			uc.logger.Error("RespondToRequest: failed to check classroom overlap: %v", err)
			return fmt.Errorf("%w: failed to check classroom overlap: %v", ErrInternal, err)
		}
		if busy {
			uc.logger.Warn("RespondToRequest: classroom id=%s is busy", *req.ClassroomID)
			return ErrClassroomBusy
		}

		if err := uc.lessonRepo.Confirm(txCtx, req.LessonID, *req.ClassroomID); err != nil {
			uc.logger.Error("RespondToRequest: failed to confirm lesson: %v", err)
			return fmt.Errorf("%w: failed to confirm lesson: %v", ErrInternal, err)
		}

		lesson.IsConfirmed = true
		lesson.ClassroomID = req.ClassroomID
		result = lesson
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Уведомляем ученика; сбой уведомления не отменяет ответ
	if req.Accept {
		if err := uc.notifier.RequestAccepted(ctx, result.ID); err != nil {
			uc.logger.Warn("RespondToRequest: failed to notify acceptance: %v", err)
		}
	} else {
		if err := uc.notifier.RequestDeclined(ctx, result.ID); err != nil {
			uc.logger.Warn("RespondToRequest: failed to notify decline: %v", err)
		}
	}

	uc.logger.Info("RespondToRequest: lesson id=%s, confirmed=%t, terminated=%t",
		result.ID, result.IsConfirmed, result.Terminated)
	return &Response{
		ID:          result.ID,
		IsConfirmed: result.IsConfirmed,
		Terminated:  result.Terminated,
		ClassroomID: result.ClassroomID,
		StartTime:   result.StartTime,
		FinishTime:  result.FinishTime,
	}, nil
}

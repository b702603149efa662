package create_individual_lesson

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
)

// UseCase use case создания индивидуального занятия преподавателем.
// Занятие создаётся сразу подтверждённым, кредит абонемента ученика
// списывается в той же транзакции.
type UseCase struct {
	lessonRepo   LessonRepository
	catalogRepo  CatalogRepository
	ledger       LedgerService
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lessonRepo LessonRepository,
	catalogRepo CatalogRepository,
	ledger LedgerService,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		lessonRepo:   lessonRepo,
		catalogRepo:  catalogRepo,
		ledger:       ledger,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания индивидуального занятия.
// Все проверки конфликтов, создание занятия и списание кредита
// выполняются в одной сериализуемой транзакции: откат отменяет
// и резервирование, и автопокупку абонемента.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateIndividualLesson: teacher=%s, student=%s, start=%s",
		req.TeacherID, req.StudentID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateIndividualLesson: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateIndividualLesson: lesson starts in the past")
		return nil, err
	}

	// 3. Категория существует, активна и индивидуальна
	category, err := uc.catalogRepo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrCategoryNotFound) {
			uc.logger.Warn("CreateIndividualLesson: category id=%s not found", req.CategoryID)
			return nil, ErrCategoryNotFound
		}
		uc.logger.Error("CreateIndividualLesson: failed to get category: %v", err)
		return nil, fmt.Errorf("%w: failed to get category: %v", ErrInternal, err)
	}
	if !category.IsActive() {
		uc.logger.Warn("CreateIndividualLesson: category id=%s is deactivated", req.CategoryID)
		return nil, ErrCategoryInactive
	}
	if category.IsGroup {
		uc.logger.Warn("CreateIndividualLesson: category id=%s is a group category", req.CategoryID)
		return nil, ErrCategoryIsGroup
	}

	// 4. Преподаватель существует, активен и ведёт категорию
	teacher, err := uc.catalogRepo.GetTeacher(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
			uc.logger.Warn("CreateIndividualLesson: teacher id=%s not found", req.TeacherID)
			return nil, ErrTeacherNotFound
		}
		uc.logger.Error("CreateIndividualLesson: failed to get teacher: %v", err)
		return nil, fmt.Errorf("%w: failed to get teacher: %v", ErrInternal, err)
	}
	if !teacher.IsActive() {
		uc.logger.Warn("CreateIndividualLesson: teacher id=%s is deactivated", req.TeacherID)
		return nil, ErrTeacherInactive
	}
	if !teacher.Teaches(req.CategoryID) {
		uc.logger.Warn("CreateIndividualLesson: teacher id=%s does not teach category=%s", req.TeacherID, req.CategoryID)
		return nil, ErrTeacherCategoryMismatch
	}

	// 5. Зал существует и активен
	if req.ClassroomID != nil {
		classroom, err := uc.catalogRepo.GetClassroom(ctx, *req.ClassroomID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrClassroomNotFound) {
				uc.logger.Warn("CreateIndividualLesson: classroom id=%s not found", *req.ClassroomID)
				return nil, ErrClassroomNotFound
			}
			uc.logger.Error("CreateIndividualLesson: failed to get classroom: %v", err)
			return nil, fmt.Errorf("%w: failed to get classroom: %v", ErrInternal, err)
		}
		if !classroom.IsActive() {
			uc.logger.Warn("CreateIndividualLesson: classroom id=%s is deactivated", *req.ClassroomID)
			return nil, ErrClassroomInactive
		}
	}

	var result *domain.Lesson
	var use *domain.LessonSubscription

	// 6. Конфликты, создание и списание кредита в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Занятость преподавателя
		busy, err := uc.lessonRepo.HasTeacherOverlap(txCtx, req.TeacherID, req.StartTime, req.FinishTime, nil)
		if err != nil {
			uc.logger.Error("CreateIndividualLesson: failed to check teacher overlap: %v", err)
			return fmt.Errorf("%w: failed to check teacher overlap: %v", ErrInternal, err)
		}
		if busy {
			uc.logger.Warn("CreateIndividualLesson: teacher id=%s is busy", req.TeacherID)
			return ErrTeacherBusy
		}

		// 6.2. Занятость ученика
		busy, err = uc.lessonRepo.HasStudentOverlap(txCtx, req.StudentID, req.StartTime, req.FinishTime, nil)
		if err != nil {
			uc.logger.Error("CreateIndividualLesson: failed to check student overlap: %v", err)
			return fmt.Errorf("%w: failed to check student overlap: %v", ErrInternal, err)
		}
		if busy {
			uc.logger.Warn("CreateIndividualLesson: student id=%s is busy", req.StudentID)
			return ErrStudentBusy
		}

		// 6.3. Занятость зала
		if req.ClassroomID != nil {
			busy, err = uc.lessonRepo.HasClassroomOverlap(txCtx, *req.ClassroomID, req.StartTime, req.FinishTime, req.AllowAdjacent, nil)
			if err != nil {
				uc.logger.Error("CreateIndividualLesson: failed to check classroom overlap: %v", err)
				return fmt.Errorf("%w: failed to check classroom overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("CreateIndividualLesson: classroom id=%s is busy", *req.ClassroomID)
				return ErrClassroomBusy
			}
		}

		// 6.4. Создаем подтверждённое занятие
		lesson := &domain.Lesson{
			Name:          req.Name,
			Description:   req.Description,
			CategoryID:    req.CategoryID,
			StartTime:     req.StartTime,
			FinishTime:    req.FinishTime,
			ClassroomID:   req.ClassroomID,
			IsConfirmed:   true,
			AllowAdjacent: req.AllowAdjacent,
		}

		created, err := uc.lessonRepo.Create(txCtx, lesson)
		if err != nil {
			uc.logger.Error("CreateIndividualLesson: failed to create lesson: %v", err)
			return fmt.Errorf("%w: failed to create lesson: %v", ErrInternal, err)
		}

		// 6.5. Привязываем преподавателя
		if err := uc.lessonRepo.AttachTeacher(txCtx, req.TeacherID, created.ID); err != nil {
			uc.logger.Error("CreateIndividualLesson: failed to attach teacher: %v", err)
			return fmt.Errorf("%w: failed to attach teacher: %v", ErrInternal, err)
		}

		// 6.6. Списываем кредит абонемента (с автоподбором или автопокупкой)
		use, err = uc.ledger.Reserve(txCtx, req.StudentID, created, req.SubscriptionID, now)
		if err != nil {
			// Ошибки сервиса абонементов уже являются сентинелами
			return err
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateIndividualLesson: created lesson id=%s, subscription=%s", result.ID, use.SubscriptionID)
	return &Response{
		ID:             result.ID,
		Name:           result.Name,
		CategoryID:     result.CategoryID,
		StartTime:      result.StartTime,
		FinishTime:     result.FinishTime,
		ClassroomID:    result.ClassroomID,
		IsConfirmed:    result.IsConfirmed,
		SubscriptionID: use.SubscriptionID,
		CreatedAt:      result.CreatedAt,
	}, nil
}

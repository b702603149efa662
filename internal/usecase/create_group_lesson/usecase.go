package create_group_lesson

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	groupRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/group"
	"github.com/nkotelnik/DanceSchool-SchedulingService/pkg/ptr"
)

// UseCase use case создания группового занятия преподавателем группы.
// Кредиты учеников не списываются при создании: участники группы
// записываются на занятие отдельной операцией резервирования.
type UseCase struct {
	lessonRepo   LessonRepository
	catalogRepo  CatalogRepository
	groupRepo    GroupRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	lessonRepo LessonRepository,
	catalogRepo CatalogRepository,
	groupRepo GroupRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		lessonRepo:   lessonRepo,
		catalogRepo:  catalogRepo,
		groupRepo:    groupRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания группового занятия
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateGroupLesson: teacher=%s, group=%s, start=%s",
		req.TeacherID, req.GroupID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateGroupLesson: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateGroupLesson: lesson starts in the past")
		return nil, err
	}

	// 3. Категория существует, активна и групповая
	category, err := uc.catalogRepo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrCategoryNotFound) {
			uc.logger.Warn("CreateGroupLesson: category id=%s not found", req.CategoryID)
			return nil, ErrCategoryNotFound
		}
		uc.logger.Error("CreateGroupLesson: failed to get category: %v", err)
		return nil, fmt.Errorf("%w: failed to get category: %v", ErrInternal, err)
	}
	if !category.IsActive() {
		uc.logger.Warn("CreateGroupLesson: category id=%s is deactivated", req.CategoryID)
		return nil, ErrCategoryInactive
	}
	if !category.IsGroup {
		uc.logger.Warn("CreateGroupLesson: category id=%s is not a group category", req.CategoryID)
		return nil, ErrCategoryNotGroup
	}

	// 4. Группа существует и активна
	group, err := uc.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, groupRepo.ErrGroupNotFound) {
			uc.logger.Warn("CreateGroupLesson: group id=%s not found", req.GroupID)
			return nil, ErrGroupNotFound
		}
		uc.logger.Error("CreateGroupLesson: failed to get group: %v", err)
		return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}
	if !group.IsActive() {
		uc.logger.Warn("CreateGroupLesson: group id=%s is deactivated", req.GroupID)
		return nil, ErrGroupInactive
	}

	// 5. Преподаватель существует, активен и привязан к группе
	teacher, err := uc.catalogRepo.GetTeacher(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
			uc.logger.Warn("CreateGroupLesson: teacher id=%s not found", req.TeacherID)
			return nil, ErrTeacherNotFound
		}
		uc.logger.Error("CreateGroupLesson: failed to get teacher: %v", err)
		return nil, fmt.Errorf("%w: failed to get teacher: %v", ErrInternal, err)
	}
	if !teacher.IsActive() {
		uc.logger.Warn("CreateGroupLesson: teacher id=%s is deactivated", req.TeacherID)
		return nil, ErrTeacherInactive
	}

	member, err := uc.groupRepo.IsTeacherMember(ctx, req.TeacherID, req.GroupID)
	if err != nil {
		uc.logger.Error("CreateGroupLesson: failed to check group membership: %v", err)
		return nil, fmt.Errorf("%w: failed to check group membership: %v", ErrInternal, err)
	}
	if !member {
		uc.logger.Warn("CreateGroupLesson: teacher=%s is not a member of group=%s", req.TeacherID, req.GroupID)
		return nil, ErrNotGroupTeacher
	}

	// 6. Зал существует и активен
	if req.ClassroomID != nil {
		classroom, err := uc.catalogRepo.GetClassroom(ctx, *req.ClassroomID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrClassroomNotFound) {
				uc.logger.Warn("CreateGroupLesson: classroom id=%s not found", *req.ClassroomID)
				return nil, ErrClassroomNotFound
			}
			uc.logger.Error("CreateGroupLesson: failed to get classroom: %v", err)
			return nil, fmt.Errorf("%w: failed to get classroom: %v", ErrInternal, err)
		}
		if !classroom.IsActive() {
			uc.logger.Warn("CreateGroupLesson: classroom id=%s is deactivated", *req.ClassroomID)
			return nil, ErrClassroomInactive
		}
	}

	var result *domain.Lesson

	// 7. Конфликты и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		busy, err := uc.lessonRepo.HasTeacherOverlap(txCtx, req.TeacherID, req.StartTime, req.FinishTime, nil)
		if err != nil {
			uc.logger.Error("CreateGroupLesson: failed to check teacher overlap: %v", err)
			return fmt.Errorf("%w: failed to check teacher overlap: %v", ErrInternal, err)
		}
		if busy {
			uc.logger.Warn("CreateGroupLesson: teacher id=%s is busy", req.TeacherID)
			return ErrTeacherBusy
		}

		if req.ClassroomID != nil {
			busy, err = uc.lessonRepo.HasClassroomOverlap(txCtx, *req.ClassroomID, req.StartTime, req.FinishTime, req.AllowAdjacent, nil)
			if err != nil {
				uc.logger.Error("CreateGroupLesson: failed to check classroom overlap: %v", err)
				return fmt.Errorf("%w: failed to check classroom overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("CreateGroupLesson: classroom id=%s is busy", *req.ClassroomID)
				return ErrClassroomBusy
			}
		}

		lesson := &domain.Lesson{
			Name:          req.Name,
			Description:   req.Description,
			CategoryID:    req.CategoryID,
			StartTime:     req.StartTime,
			FinishTime:    req.FinishTime,
			ClassroomID:   req.ClassroomID,
			GroupID:       ptr.Ptr(req.GroupID),
			IsConfirmed:   true,
			AllowAdjacent: req.AllowAdjacent,
		}

		created, err := uc.lessonRepo.Create(txCtx, lesson)
		if err != nil {
			uc.logger.Error("CreateGroupLesson: failed to create lesson: %v", err)
			return fmt.Errorf("%w: failed to create lesson: %v", ErrInternal, err)
		}

		if err := uc.lessonRepo.AttachTeacher(txCtx, req.TeacherID, created.ID); err != nil {
			uc.logger.Error("CreateGroupLesson: failed to attach teacher: %v", err)
			return fmt.Errorf("%w: failed to attach teacher: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateGroupLesson: created lesson id=%s for group=%s", result.ID, req.GroupID)
	return &Response{
		ID:          result.ID,
		Name:        result.Name,
		CategoryID:  result.CategoryID,
		GroupID:     req.GroupID,
		StartTime:   result.StartTime,
		FinishTime:  result.FinishTime,
		ClassroomID: result.ClassroomID,
		IsConfirmed: result.IsConfirmed,
		CreatedAt:   result.CreatedAt,
	}, nil
}

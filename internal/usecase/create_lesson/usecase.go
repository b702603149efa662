package create_lesson

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	groupRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/group"
)

// UseCase use case прямого создания занятия администратором
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

// Execute выполняет use case создания занятия.
// Проверки конфликтов и вставка выполняются в сериализуемой транзакции:
// параллельное создание пересекающихся занятий не может пройти обе проверки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateLesson: name=%q, category=%s, start=%s",
		req.Name, req.CategoryID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateLesson: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateLesson: lesson starts in the past")
		return nil, err
	}

	// 3. Категория существует и активна
	category, err := uc.catalogRepo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrCategoryNotFound) {
			uc.logger.Warn("CreateLesson: category id=%s not found", req.CategoryID)
			return nil, ErrCategoryNotFound
		}
		uc.logger.Error("CreateLesson: failed to get category id=%s: %v", req.CategoryID, err)
		return nil, fmt.Errorf("%w: failed to get category: %v", ErrInternal, err)
	}
	if !category.IsActive() {
		uc.logger.Warn("CreateLesson: category id=%s is deactivated", req.CategoryID)
		return nil, ErrCategoryInactive
	}

	// 4. Вид категории должен соответствовать наличию группы
	if category.IsGroup != (req.GroupID != nil) {
		uc.logger.Warn("CreateLesson: category isGroup=%t but groupID presence=%t",
			category.IsGroup, req.GroupID != nil)
		return nil, ErrGroupKindMismatch
	}

	// 5. Группа существует и активна
	if req.GroupID != nil {
		group, err := uc.groupRepo.GetByID(ctx, *req.GroupID)
		if err != nil {
			if errors.Is(err, groupRepo.ErrGroupNotFound) {
				uc.logger.Warn("CreateLesson: group id=%s not found", *req.GroupID)
				return nil, ErrGroupNotFound
			}
			uc.logger.Error("CreateLesson: failed to get group id=%s: %v", *req.GroupID, err)
			return nil, fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
		}
		if !group.IsActive() {
			uc.logger.Warn("CreateLesson: group id=%s is deactivated", *req.GroupID)
			return nil, ErrGroupInactive
		}
	}

	// 6. Зал существует и активен
	if req.ClassroomID != nil {
		classroom, err := uc.catalogRepo.GetClassroom(ctx, *req.ClassroomID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrClassroomNotFound) {
				uc.logger.Warn("CreateLesson: classroom id=%s not found", *req.ClassroomID)
				return nil, ErrClassroomNotFound
			}
			uc.logger.Error("CreateLesson: failed to get classroom id=%s: %v", *req.ClassroomID, err)
			return nil, fmt.Errorf("%w: failed to get classroom: %v", ErrInternal, err)
		}
		if !classroom.IsActive() {
			uc.logger.Warn("CreateLesson: classroom id=%s is deactivated", *req.ClassroomID)
			return nil, ErrClassroomInactive
		}
	}

	// 7. Преподаватели существуют, активны и ведут категорию
	for _, teacherID := range req.TeacherIDs {
		teacher, err := uc.catalogRepo.GetTeacher(ctx, teacherID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTeacherNotFound) {
				uc.logger.Warn("CreateLesson: teacher id=%s not found", teacherID)
				return nil, ErrTeacherNotFound
			}
			uc.logger.Error("CreateLesson: failed to get teacher id=%s: %v", teacherID, err)
			return nil, fmt.Errorf("%w: failed to get teacher: %v", ErrInternal, err)
		}
		if !teacher.IsActive() {
			uc.logger.Warn("CreateLesson: teacher id=%s is deactivated", teacherID)
			return nil, ErrTeacherInactive
		}
		if !teacher.Teaches(req.CategoryID) {
			uc.logger.Warn("CreateLesson: teacher id=%s does not teach category=%s", teacherID, req.CategoryID)
			return nil, ErrTeacherCategoryMismatch
		}
	}

	var result *domain.Lesson

	// 8. Проверки конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Занятость преподавателей
		for _, teacherID := range req.TeacherIDs {
			busy, err := uc.lessonRepo.HasTeacherOverlap(txCtx, teacherID, req.StartTime, req.FinishTime, nil)
			if err != nil {
				uc.logger.Error("CreateLesson: failed to check teacher overlap: %v", err)
				return fmt.Errorf("%w: failed to check teacher overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("CreateLesson: teacher id=%s is busy in requested window", teacherID)
				return ErrTeacherBusy
			}
		}

		// 8.2. Занятость зала с учетом правила соседних занятий
		if req.ClassroomID != nil {
			busy, err := uc.lessonRepo.HasClassroomOverlap(txCtx, *req.ClassroomID, req.StartTime, req.FinishTime, req.AllowAdjacent, nil)
			if err != nil {
				uc.logger.Error("CreateLesson: failed to check classroom overlap: %v", err)
				return fmt.Errorf("%w: failed to check classroom overlap: %v", ErrInternal, err)
			}
			if busy {
				uc.logger.Warn("CreateLesson: classroom id=%s is busy in requested window", *req.ClassroomID)
				return ErrClassroomBusy
			}
		}

		// 8.3. Создаем занятие: прямое создание сразу подтверждено
		lesson := &domain.Lesson{
			Name:          req.Name,
			Description:   req.Description,
			CategoryID:    req.CategoryID,
			StartTime:     req.StartTime,
			FinishTime:    req.FinishTime,
			ClassroomID:   req.ClassroomID,
			GroupID:       req.GroupID,
			IsConfirmed:   true,
			AllowAdjacent: req.AllowAdjacent,
		}

		created, err := uc.lessonRepo.Create(txCtx, lesson)
		if err != nil {
			uc.logger.Error("CreateLesson: failed to create lesson: %v", err)
			return fmt.Errorf("%w: failed to create lesson: %v", ErrInternal, err)
		}

		// 8.4. Привязываем преподавателей
		for _, teacherID := range req.TeacherIDs {
			if err := uc.lessonRepo.AttachTeacher(txCtx, teacherID, created.ID); err != nil {
				uc.logger.Error("CreateLesson: failed to attach teacher id=%s: %v", teacherID, err)
				return fmt.Errorf("%w: failed to attach teacher: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateLesson: successfully created lesson id=%s", result.ID)
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

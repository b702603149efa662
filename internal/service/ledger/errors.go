package ledger

import "errors"

var (
	// ErrSubscriptionNotFound возвращается, когда абонемент не найден
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrUseNotFound возвращается, когда списание абонемента на занятие не найдено
	ErrUseNotFound = errors.New("subscription use not found")

	// ErrTemplateNotFound возвращается, когда шаблон абонемента не найден
	ErrTemplateNotFound = errors.New("subscription template not found")

	// ErrStudentNotFound возвращается, когда ученик не найден
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentInactive возвращается, когда ученик деактивирован
	ErrStudentInactive = errors.New("student is deactivated")

	// ErrNotOwner возвращается, когда абонемент принадлежит другому ученику
	ErrNotOwner = errors.New("subscription belongs to another student")

	// ErrSubscriptionExpired возвращается, когда срок действия абонемента истёк
	ErrSubscriptionExpired = errors.New("subscription has expired")

	// ErrTemplateExpired возвращается, когда шаблон больше не продаётся
	ErrTemplateExpired = errors.New("subscription template has expired")

	// ErrNoLessonsLeft возвращается, когда кредиты абонемента исчерпаны
	ErrNoLessonsLeft = errors.New("no lessons left on subscription")

	// ErrCategoryMismatch возвращается, когда абонемент не покрывает категорию занятия
	ErrCategoryMismatch = errors.New("subscription does not cover lesson category")

	// ErrAlreadyEnrolled возвращается, когда ученик уже записан на занятие
	ErrAlreadyEnrolled = errors.New("student is already enrolled in lesson")

	// ErrNotGroupMember возвращается при записи на групповое занятие без членства в группе
	ErrNotGroupMember = errors.New("student is not a member of the group")

	// ErrNoSuitableSubscription возвращается, когда подходящего абонемента нет
	// и автопокупка невозможна
	ErrNoSuitableSubscription = errors.New("no suitable subscription for lesson category")

	// ErrLessonNotFound возвращается, когда занятие не найдено
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrLessonTerminated возвращается при записи на отменённое занятие
	ErrLessonTerminated = errors.New("lesson is terminated")

	// ErrLessonStarted возвращается при записи на уже начавшееся занятие
	ErrLessonStarted = errors.New("lesson has already started")

	// ErrStudentBusy возвращается, когда у ученика есть пересекающееся занятие
	ErrStudentBusy = errors.New("student is busy in lesson window")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("ledger: internal error")
)

package enrollment

import "errors"

var (
	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupInactive возвращается, когда группа деактивирована
	ErrGroupInactive = errors.New("group is deactivated")

	// ErrStudentNotFound возвращается, когда ученик не найден
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentInactive возвращается, когда ученик деактивирован
	ErrStudentInactive = errors.New("student is deactivated")

	// ErrAlreadyMember возвращается, когда ученик уже состоит в группе
	ErrAlreadyMember = errors.New("student is already a member of the group")

	// ErrNotMember возвращается, когда ученик не состоит в группе
	ErrNotMember = errors.New("student is not a member of the group")

	// ErrGroupFull возвращается, когда группа заполнена до max_capacity
	ErrGroupFull = errors.New("group is full")

	// ErrCategoriesNotCovered возвращается, когда абонементы ученика не
	// покрывают все категории будущих занятий группы
	ErrCategoriesNotCovered = errors.New("subscriptions do not cover all group lesson categories")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("enrollment: internal error")
)

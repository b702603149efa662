package deactivation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	groupRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/group"
)

type fakeLessonRepo struct {
	lessons map[uuid.UUID]*domain.Lesson
	links   map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{
		lessons: map[uuid.UUID]*domain.Lesson{},
		links:   map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeLessonRepo) ListFutureNonGroupLessonsByTeacher(_ context.Context, teacherID uuid.UUID, asOf time.Time) ([]*domain.Lesson, error) {
	var result []*domain.Lesson
	for _, l := range f.lessons {
		if f.links[l.ID][teacherID] && l.GroupID == nil && !l.Terminated && !l.StartTime.Before(asOf) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeLessonRepo) ListFutureConfirmedByGroup(_ context.Context, groupID uuid.UUID, asOf time.Time) ([]*domain.Lesson, error) {
	var result []*domain.Lesson
	for _, l := range f.lessons {
		if l.GroupID != nil && *l.GroupID == groupID && l.IsConfirmed && !l.Terminated && !l.StartTime.Before(asOf) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeLessonRepo) Terminate(_ context.Context, id uuid.UUID) error {
	f.lessons[id].Terminated = true
	return nil
}

func (f *fakeLessonRepo) DeleteFutureTeacherLinks(_ context.Context, teacherID uuid.UUID, asOf time.Time) (int64, error) {
	var deleted int64
	for lessonID, teachers := range f.links {
		l := f.lessons[lessonID]
		if teachers[teacherID] && !l.Terminated && !l.StartTime.Before(asOf) {
			delete(teachers, teacherID)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeLessonRepo) DeleteTeacherLinks(_ context.Context, lessonID uuid.UUID) (int64, error) {
	deleted := int64(len(f.links[lessonID]))
	delete(f.links, lessonID)
	return deleted, nil
}

type fakeSubscriptionRepo struct {
	usesByLesson map[uuid.UUID]int64
	studentUses  map[uuid.UUID]int64
	released     int64
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		usesByLesson: map[uuid.UUID]int64{},
		studentUses:  map[uuid.UUID]int64{},
	}
}

func (f *fakeSubscriptionRepo) CancelUsesByLesson(_ context.Context, lessonID uuid.UUID) (int64, error) {
	n := f.usesByLesson[lessonID]
	delete(f.usesByLesson, lessonID)
	f.released += n
	return n, nil
}

func (f *fakeSubscriptionRepo) CancelFutureUsesByStudent(_ context.Context, studentID uuid.UUID, _ time.Time) (int64, error) {
	n := f.studentUses[studentID]
	delete(f.studentUses, studentID)
	return n, nil
}

type fakeGroupRepo struct {
	groups        map[uuid.UUID]*domain.Group
	teacherGroups map[uuid.UUID]int64
	studentGroups map[uuid.UUID]int64
	rosters       map[uuid.UUID]int64
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:        map[uuid.UUID]*domain.Group{},
		teacherGroups: map[uuid.UUID]int64{},
		studentGroups: map[uuid.UUID]int64{},
		rosters:       map[uuid.UUID]int64{},
	}
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, groupRepo.ErrGroupNotFound
	}
	return g, nil
}

func (f *fakeGroupRepo) DeleteTeacherMemberships(_ context.Context, teacherID uuid.UUID) (int64, error) {
	n := f.teacherGroups[teacherID]
	delete(f.teacherGroups, teacherID)
	return n, nil
}

func (f *fakeGroupRepo) DeleteStudentMemberships(_ context.Context, studentID uuid.UUID) (int64, error) {
	n := f.studentGroups[studentID]
	delete(f.studentGroups, studentID)
	return n, nil
}

func (f *fakeGroupRepo) DeleteAllMemberships(_ context.Context, groupID uuid.UUID) (int64, error) {
	n := f.rosters[groupID]
	delete(f.rosters, groupID)
	return n, nil
}

func (f *fakeGroupRepo) Terminate(_ context.Context, id uuid.UUID) error {
	f.groups[id].Terminated = true
	return nil
}

type fakeCatalog struct {
	teachers   map[uuid.UUID]*domain.Teacher
	students   map[uuid.UUID]*domain.Student
	classrooms map[uuid.UUID]*domain.Classroom
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		teachers:   map[uuid.UUID]*domain.Teacher{},
		students:   map[uuid.UUID]*domain.Student{},
		classrooms: map[uuid.UUID]*domain.Classroom{},
	}
}

func (f *fakeCatalog) GetTeacher(_ context.Context, id uuid.UUID) (*domain.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return nil, catalogRepo.ErrTeacherNotFound
	}
	return t, nil
}

func (f *fakeCatalog) GetStudent(_ context.Context, id uuid.UUID) (*domain.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, catalogRepo.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeCatalog) GetClassroom(_ context.Context, id uuid.UUID) (*domain.Classroom, error) {
	c, ok := f.classrooms[id]
	if !ok {
		return nil, catalogRepo.ErrClassroomNotFound
	}
	return c, nil
}

func (f *fakeCatalog) TerminateTeacher(_ context.Context, id uuid.UUID) error {
	f.teachers[id].Terminated = true
	return nil
}

func (f *fakeCatalog) TerminateStudent(_ context.Context, id uuid.UUID) error {
	f.students[id].Terminated = true
	return nil
}

func (f *fakeCatalog) TerminateClassroom(_ context.Context, id uuid.UUID) error {
	f.classrooms[id].Terminated = true
	return nil
}

type fakeNotifier struct {
	cancelled []uuid.UUID
	err       error
}

func (f *fakeNotifier) LessonCancelled(_ context.Context, lessonID uuid.UUID) error {
	f.cancelled = append(f.cancelled, lessonID)
	return f.err
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type deactivationFixture struct {
	svc         *Service
	lessons     *fakeLessonRepo
	subs        *fakeSubscriptionRepo
	groups      *fakeGroupRepo
	catalog     *fakeCatalog
	notifier    *fakeNotifier
	now         time.Time
	teacherID   uuid.UUID
	studentID   uuid.UUID
	groupID     uuid.UUID
	classroomID uuid.UUID
}

func newDeactivationFixture() *deactivationFixture {
	lessons := newFakeLessonRepo()
	subs := newFakeSubscriptionRepo()
	groups := newFakeGroupRepo()
	catalog := newFakeCatalog()
	notifier := &fakeNotifier{}

	f := &deactivationFixture{
		lessons:     lessons,
		subs:        subs,
		groups:      groups,
		catalog:     catalog,
		notifier:    notifier,
		now:         time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		teacherID:   uuid.New(),
		studentID:   uuid.New(),
		groupID:     uuid.New(),
		classroomID: uuid.New(),
	}

	catalog.teachers[f.teacherID] = &domain.Teacher{ID: f.teacherID, Name: "Анна"}
	catalog.students[f.studentID] = &domain.Student{ID: f.studentID, Name: "Ирина"}
	catalog.classrooms[f.classroomID] = &domain.Classroom{ID: f.classroomID, Name: "Большой зал"}
	groups.groups[f.groupID] = &domain.Group{ID: f.groupID, Name: "Сальса, начинающие", MaxCapacity: 10}

	f.svc = NewService(lessons, subs, groups, catalog, notifier, passthroughTx{}, nopLogger{})
	f.svc.timeProvider = &fixedTime{now: f.now}

	return f
}

// addLesson регистрирует подтверждённое занятие с привязкой преподавателя
// и указанным числом активных списаний абонементов.
func (f *deactivationFixture) addLesson(start time.Time, groupID *uuid.UUID, uses int64) *domain.Lesson {
	l := &domain.Lesson{
		ID:          uuid.New(),
		Name:        "Занятие",
		CategoryID:  uuid.New(),
		StartTime:   start,
		FinishTime:  start.Add(time.Hour),
		GroupID:     groupID,
		IsConfirmed: true,
	}
	f.lessons.lessons[l.ID] = l
	f.lessons.links[l.ID] = map[uuid.UUID]bool{f.teacherID: true}
	if uses > 0 {
		f.subs.usesByLesson[l.ID] = uses
	}
	return l
}

func TestDeactivateTeacher(t *testing.T) {
	f := newDeactivationFixture()

	// Три будущих индивидуальных занятия, одно начинается ровно сейчас
	future1 := f.addLesson(f.now, nil, 1)
	future2 := f.addLesson(f.now.Add(24*time.Hour), nil, 1)
	future3 := f.addLesson(f.now.Add(48*time.Hour), nil, 1)
	past := f.addLesson(f.now.Add(-24*time.Hour), nil, 1)
	groupLesson := f.addLesson(f.now.Add(24*time.Hour), &f.groupID, 1)
	f.groups.teacherGroups[f.teacherID] = 2

	require.NoError(t, f.svc.DeactivateTeacher(context.Background(), f.teacherID))

	// Будущие индивидуальные занятия отменены, кредиты возвращены
	for _, l := range []*domain.Lesson{future1, future2, future3} {
		assert.True(t, l.Terminated)
		assert.NotContains(t, f.subs.usesByLesson, l.ID)
	}
	assert.Equal(t, int64(3), f.subs.released)

	// Прошедшее и групповое занятия не тронуты
	assert.False(t, past.Terminated)
	assert.False(t, groupLesson.Terminated)
	assert.Equal(t, int64(1), f.subs.usesByLesson[past.ID])
	assert.Equal(t, int64(1), f.subs.usesByLesson[groupLesson.ID])

	// Связи преподавателя сняты только с будущих занятий
	assert.False(t, f.lessons.links[future1.ID][f.teacherID])
	assert.False(t, f.lessons.links[groupLesson.ID][f.teacherID])
	assert.True(t, f.lessons.links[past.ID][f.teacherID])

	assert.NotContains(t, f.groups.teacherGroups, f.teacherID)
	assert.True(t, f.catalog.teachers[f.teacherID].Terminated)

	assert.ElementsMatch(t,
		[]uuid.UUID{future1.ID, future2.ID, future3.ID},
		f.notifier.cancelled,
	)
}

func TestDeactivateTeacherErrors(t *testing.T) {
	t.Run("unknown teacher", func(t *testing.T) {
		f := newDeactivationFixture()
		assert.ErrorIs(t, f.svc.DeactivateTeacher(context.Background(), uuid.New()), ErrTeacherNotFound)
	})

	t.Run("already deactivated", func(t *testing.T) {
		f := newDeactivationFixture()
		f.catalog.teachers[f.teacherID].Terminated = true
		assert.ErrorIs(t, f.svc.DeactivateTeacher(context.Background(), f.teacherID), ErrAlreadyDeactivated)
	})
}

func TestDeactivateStudent(t *testing.T) {
	f := newDeactivationFixture()
	lesson := f.addLesson(f.now.Add(24*time.Hour), nil, 1)
	f.groups.studentGroups[f.studentID] = 1
	f.subs.studentUses[f.studentID] = 2

	require.NoError(t, f.svc.DeactivateStudent(context.Background(), f.studentID))

	assert.NotContains(t, f.groups.studentGroups, f.studentID)
	assert.NotContains(t, f.subs.studentUses, f.studentID)
	assert.True(t, f.catalog.students[f.studentID].Terminated)

	// Сами занятия продолжают жить
	assert.False(t, lesson.Terminated)
	assert.Empty(t, f.notifier.cancelled)
}

func TestDeactivateStudentErrors(t *testing.T) {
	t.Run("unknown student", func(t *testing.T) {
		f := newDeactivationFixture()
		assert.ErrorIs(t, f.svc.DeactivateStudent(context.Background(), uuid.New()), ErrStudentNotFound)
	})

	t.Run("already deactivated", func(t *testing.T) {
		f := newDeactivationFixture()
		f.catalog.students[f.studentID].Terminated = true
		assert.ErrorIs(t, f.svc.DeactivateStudent(context.Background(), f.studentID), ErrAlreadyDeactivated)
	})
}

func TestDeactivateGroup(t *testing.T) {
	f := newDeactivationFixture()
	future1 := f.addLesson(f.now.Add(24*time.Hour), &f.groupID, 2)
	future2 := f.addLesson(f.now.Add(48*time.Hour), &f.groupID, 1)
	past := f.addLesson(f.now.Add(-24*time.Hour), &f.groupID, 1)
	individual := f.addLesson(f.now.Add(24*time.Hour), nil, 1)
	f.groups.rosters[f.groupID] = 5

	require.NoError(t, f.svc.DeactivateGroup(context.Background(), f.groupID))

	for _, l := range []*domain.Lesson{future1, future2} {
		assert.True(t, l.Terminated)
		assert.NotContains(t, f.subs.usesByLesson, l.ID)
		assert.NotContains(t, f.lessons.links, l.ID)
	}
	assert.Equal(t, int64(3), f.subs.released)

	assert.False(t, past.Terminated)
	assert.False(t, individual.Terminated)
	assert.Equal(t, int64(1), f.subs.usesByLesson[past.ID])

	assert.NotContains(t, f.groups.rosters, f.groupID)
	assert.True(t, f.groups.groups[f.groupID].Terminated)

	assert.ElementsMatch(t, []uuid.UUID{future1.ID, future2.ID}, f.notifier.cancelled)
}

func TestDeactivateGroupErrors(t *testing.T) {
	t.Run("unknown group", func(t *testing.T) {
		f := newDeactivationFixture()
		assert.ErrorIs(t, f.svc.DeactivateGroup(context.Background(), uuid.New()), ErrGroupNotFound)
	})

	t.Run("already deactivated", func(t *testing.T) {
		f := newDeactivationFixture()
		f.groups.groups[f.groupID].Terminated = true
		assert.ErrorIs(t, f.svc.DeactivateGroup(context.Background(), f.groupID), ErrAlreadyDeactivated)
	})
}

func TestDeactivateGroupNotifierFailureDoesNotAbort(t *testing.T) {
	f := newDeactivationFixture()
	lesson := f.addLesson(f.now.Add(24*time.Hour), &f.groupID, 1)
	f.notifier.err = assert.AnError

	require.NoError(t, f.svc.DeactivateGroup(context.Background(), f.groupID))
	assert.True(t, lesson.Terminated)
}

func TestDeactivateClassroom(t *testing.T) {
	f := newDeactivationFixture()

	require.NoError(t, f.svc.DeactivateClassroom(context.Background(), f.classroomID))
	assert.True(t, f.catalog.classrooms[f.classroomID].Terminated)

	assert.ErrorIs(t, f.svc.DeactivateClassroom(context.Background(), f.classroomID), ErrAlreadyDeactivated)
	assert.ErrorIs(t, f.svc.DeactivateClassroom(context.Background(), uuid.New()), ErrClassroomNotFound)
}

package lessons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
)

type fakeLessonRepo struct {
	lessons map[uuid.UUID]*domain.Lesson
	linked  map[uuid.UUID]bool
}

func (f *fakeLessonRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, lessonRepo.ErrLessonNotFound
	}
	return l, nil
}

func (f *fakeLessonRepo) IsTeacherLinked(_ context.Context, teacherID, _ uuid.UUID) (bool, error) {
	return f.linked[teacherID], nil
}

func (f *fakeLessonRepo) Terminate(_ context.Context, id uuid.UUID) error {
	l, ok := f.lessons[id]
	if !ok {
		return lessonRepo.ErrLessonNotFound
	}
	l.Terminated = true
	return nil
}

type fakeSubscriptionRepo struct {
	enrolled map[uuid.UUID]bool
	released int64
}

func (f *fakeSubscriptionRepo) HasActiveUseByStudent(_ context.Context, studentID, _ uuid.UUID) (bool, error) {
	return f.enrolled[studentID], nil
}

func (f *fakeSubscriptionRepo) CancelUsesByLesson(_ context.Context, _ uuid.UUID) (int64, error) {
	f.released++
	return 2, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newLessonsFixture() (*Service, *fakeLessonRepo, *fakeSubscriptionRepo, *domain.Lesson) {
	lesson := &domain.Lesson{
		ID:          uuid.New(),
		Name:        "Танго",
		CategoryID:  uuid.New(),
		StartTime:   time.Now().Add(24 * time.Hour),
		FinishTime:  time.Now().Add(25 * time.Hour),
		IsConfirmed: true,
	}
	lessons := &fakeLessonRepo{
		lessons: map[uuid.UUID]*domain.Lesson{lesson.ID: lesson},
		linked:  map[uuid.UUID]bool{},
	}
	subs := &fakeSubscriptionRepo{enrolled: map[uuid.UUID]bool{}}
	return NewService(lessons, subs, passthroughTx{}, nopLogger{}), lessons, subs, lesson
}

func TestCancelByAdmin(t *testing.T) {
	svc, _, subs, lesson := newLessonsFixture()

	err := svc.Cancel(context.Background(), lesson.ID, domain.Actor{Role: domain.RoleAdmin, ID: uuid.New()})
	require.NoError(t, err)

	assert.True(t, lesson.Terminated)
	// Кредиты возвращены всем записанным ученикам
	assert.Equal(t, int64(1), subs.released)
}

func TestCancelByLinkedTeacher(t *testing.T) {
	svc, lessons, _, lesson := newLessonsFixture()
	teacherID := uuid.New()

	err := svc.Cancel(context.Background(), lesson.ID, domain.Actor{Role: domain.RoleTeacher, ID: teacherID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	lessons.linked[teacherID] = true
	err = svc.Cancel(context.Background(), lesson.ID, domain.Actor{Role: domain.RoleTeacher, ID: teacherID})
	assert.NoError(t, err)
}

func TestCancelByEnrolledStudent(t *testing.T) {
	svc, _, subs, lesson := newLessonsFixture()
	studentID := uuid.New()

	err := svc.Cancel(context.Background(), lesson.ID, domain.Actor{Role: domain.RoleStudent, ID: studentID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	subs.enrolled[studentID] = true
	err = svc.Cancel(context.Background(), lesson.ID, domain.Actor{Role: domain.RoleStudent, ID: studentID})
	assert.NoError(t, err)
	assert.True(t, lesson.Terminated)
}

func TestCancelAlreadyTerminated(t *testing.T) {
	svc, _, _, lesson := newLessonsFixture()
	lesson.Terminated = true

	err := svc.Cancel(context.Background(), lesson.ID, domain.Actor{Role: domain.RoleAdmin, ID: uuid.New()})
	assert.ErrorIs(t, err, ErrAlreadyTerminated)
}

func TestGetByID(t *testing.T) {
	svc, _, _, lesson := newLessonsFixture()

	got, err := svc.GetByID(context.Background(), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, got.ID)

	_, err = svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

package reschedule_lesson

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	lessonRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/lesson"
)

type fakeLessonRepo struct {
	lessons       map[uuid.UUID]*domain.Lesson
	teacherIDs    []uuid.UUID
	teacherBusy   bool
	studentBusy   bool
	classroomBusy bool

	checkedClassroom *uuid.UUID
	updatedStart     time.Time
	updatedFinish    time.Time
	updatedClassroom *uuid.UUID
}

func (f *fakeLessonRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, lessonRepo.ErrLessonNotFound
	}
	return l, nil
}

func (f *fakeLessonRepo) ListTeacherIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return f.teacherIDs, nil
}

func (f *fakeLessonRepo) HasTeacherOverlap(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (bool, error) {
	return f.teacherBusy, nil
}

func (f *fakeLessonRepo) HasStudentOverlap(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (bool, error) {
	return f.studentBusy, nil
}

func (f *fakeLessonRepo) HasClassroomOverlap(_ context.Context, classroomID uuid.UUID, _, _ time.Time, _ bool, _ *uuid.UUID) (bool, error) {
	f.checkedClassroom = &classroomID
	return f.classroomBusy, nil
}

func (f *fakeLessonRepo) UpdateSchedule(_ context.Context, id uuid.UUID, start, finish time.Time, classroomID *uuid.UUID) error {
	f.updatedStart = start
	f.updatedFinish = finish
	f.updatedClassroom = classroomID
	return nil
}

type fakeSubscriptionRepo struct {
	studentIDs []uuid.UUID
}

func (f *fakeSubscriptionRepo) ListStudentIDsByLesson(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return f.studentIDs, nil
}

type fakeCatalogRepo struct {
	classrooms map[uuid.UUID]*domain.Classroom
}

func (f *fakeCatalogRepo) GetClassroom(_ context.Context, id uuid.UUID) (*domain.Classroom, error) {
	c, ok := f.classrooms[id]
	if !ok {
		return nil, catalogRepo.ErrClassroomNotFound
	}
	return c, nil
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

type rescheduleFixture struct {
	uc      *UseCase
	lessons *fakeLessonRepo
	subs    *fakeSubscriptionRepo
	catalog *fakeCatalogRepo
	lesson  *domain.Lesson
	now     time.Time
}

func newRescheduleFixture() *rescheduleFixture {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	classroomID := uuid.New()
	lesson := &domain.Lesson{
		ID:          uuid.New(),
		Name:        "Вальс",
		CategoryID:  uuid.New(),
		StartTime:   now.Add(24 * time.Hour),
		FinishTime:  now.Add(25 * time.Hour),
		ClassroomID: &classroomID,
		IsConfirmed: true,
	}

	lessons := &fakeLessonRepo{
		lessons:    map[uuid.UUID]*domain.Lesson{lesson.ID: lesson},
		teacherIDs: []uuid.UUID{uuid.New()},
	}
	subs := &fakeSubscriptionRepo{studentIDs: []uuid.UUID{uuid.New()}}
	catalog := &fakeCatalogRepo{classrooms: map[uuid.UUID]*domain.Classroom{
		classroomID: {ID: classroomID, Name: "Большой зал"},
	}}

	uc := NewUseCase(lessons, subs, catalog, passthroughTx{}, nopLogger{})
	uc.timeProvider = &fixedTime{now: now}

	return &rescheduleFixture{uc: uc, lessons: lessons, subs: subs, catalog: catalog, lesson: lesson, now: now}
}

func (f *rescheduleFixture) request() *Request {
	return &Request{
		LessonID:   f.lesson.ID,
		StartTime:  f.now.Add(48 * time.Hour),
		FinishTime: f.now.Add(49 * time.Hour),
	}
}

func TestExecuteMovesLessonToNewWindow(t *testing.T) {
	f := newRescheduleFixture()

	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, f.now.Add(48*time.Hour), resp.StartTime)
	assert.Equal(t, f.now.Add(48*time.Hour), f.lessons.updatedStart)
	// Зал не менялся: репозиторию передан nil, занятость проверена
	// для текущего зала
	assert.Nil(t, f.lessons.updatedClassroom)
	require.NotNil(t, f.lessons.checkedClassroom)
	assert.Equal(t, *f.lesson.ClassroomID, *f.lessons.checkedClassroom)
}

func TestExecuteMovesLessonToNewClassroom(t *testing.T) {
	f := newRescheduleFixture()
	newRoom := uuid.New()
	f.catalog.classrooms[newRoom] = &domain.Classroom{ID: newRoom, Name: "Малый зал"}

	req := f.request()
	req.ClassroomID = &newRoom

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.ClassroomID)
	assert.Equal(t, newRoom, *resp.ClassroomID)
	require.NotNil(t, f.lessons.checkedClassroom)
	assert.Equal(t, newRoom, *f.lessons.checkedClassroom)
}

func TestExecuteRejectsConflictsInNewWindow(t *testing.T) {
	t.Run("teacher busy", func(t *testing.T) {
		f := newRescheduleFixture()
		f.lessons.teacherBusy = true

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrTeacherBusy)
	})

	t.Run("student busy", func(t *testing.T) {
		f := newRescheduleFixture()
		f.lessons.studentBusy = true

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrStudentBusy)
	})

	t.Run("classroom busy", func(t *testing.T) {
		f := newRescheduleFixture()
		f.lessons.classroomBusy = true

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrClassroomBusy)
	})
}

func TestExecuteRejectsBadTargets(t *testing.T) {
	t.Run("unknown lesson", func(t *testing.T) {
		f := newRescheduleFixture()
		req := f.request()
		req.LessonID = uuid.New()

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrLessonNotFound)
	})

	t.Run("terminated lesson", func(t *testing.T) {
		f := newRescheduleFixture()
		f.lesson.Terminated = true

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrLessonTerminated)
	})

	t.Run("unknown classroom", func(t *testing.T) {
		f := newRescheduleFixture()
		req := f.request()
		unknown := uuid.New()
		req.ClassroomID = &unknown

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrClassroomNotFound)
	})

	t.Run("window in the past", func(t *testing.T) {
		f := newRescheduleFixture()
		req := f.request()
		req.StartTime = f.now.Add(-2 * time.Hour)
		req.FinishTime = f.now.Add(-time.Hour)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrLessonInPast)
	})

	t.Run("reversed window", func(t *testing.T) {
		f := newRescheduleFixture()
		req := f.request()
		req.StartTime, req.FinishTime = req.FinishTime, req.StartTime

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})
}

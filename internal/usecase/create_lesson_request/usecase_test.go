package create_lesson_request

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
)

type fakeLessonRepo struct {
	created     []*domain.Lesson
	attached    []domain.TeacherLesson
	teacherBusy bool
	studentBusy bool
}

func (f *fakeLessonRepo) Create(_ context.Context, l *domain.Lesson) (*domain.Lesson, error) {
	created := *l
	created.ID = uuid.New()
	f.created = append(f.created, &created)
	return &created, nil
}

func (f *fakeLessonRepo) AttachTeacher(_ context.Context, teacherID, lessonID uuid.UUID) error {
	f.attached = append(f.attached, domain.TeacherLesson{TeacherID: teacherID, LessonID: lessonID})
	return nil
}

func (f *fakeLessonRepo) HasTeacherOverlap(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (bool, error) {
	return f.teacherBusy, nil
}

func (f *fakeLessonRepo) HasStudentOverlap(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (bool, error) {
	return f.studentBusy, nil
}

type fakeSlotRepo struct {
	slots []*domain.SlotDefinition
}

func (f *fakeSlotRepo) ListByTeacher(_ context.Context, _ uuid.UUID) ([]*domain.SlotDefinition, error) {
	return f.slots, nil
}

type fakeCatalogRepo struct {
	teachers   map[uuid.UUID]*domain.Teacher
	categories map[uuid.UUID]*domain.LessonCategory
}

func (f *fakeCatalogRepo) GetTeacher(_ context.Context, id uuid.UUID) (*domain.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return nil, catalogRepo.ErrTeacherNotFound
	}
	return t, nil
}

func (f *fakeCatalogRepo) GetCategory(_ context.Context, id uuid.UUID) (*domain.LessonCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, catalogRepo.ErrCategoryNotFound
	}
	return c, nil
}

type fakeLedger struct {
	use *domain.LessonSubscription
	err error
}

func (f *fakeLedger) Reserve(_ context.Context, _ uuid.UUID, lesson *domain.Lesson, _ *uuid.UUID, _ time.Time) (*domain.LessonSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	use := *f.use
	use.LessonID = lesson.ID
	return &use, nil
}

type fakeNotifier struct {
	requested []uuid.UUID
}

func (f *fakeNotifier) LessonRequested(_ context.Context, lessonID, _, _ uuid.UUID) error {
	f.requested = append(f.requested, lessonID)
	return nil
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

type requestFixture struct {
	uc       *UseCase
	lessons  *fakeLessonRepo
	notifier *fakeNotifier
	ledger   *fakeLedger
	req      *Request
	loc      *time.Location
}

// Преподаватель доступен по вторникам 10:00–12:00; заявка на вторник
// 2025-06-10 10:30–11:30 лежит целиком внутри этого окна.
func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	teacherID := uuid.New()
	studentID := uuid.New()
	categoryID := uuid.New()

	lessons := &fakeLessonRepo{}
	slots := &fakeSlotRepo{slots: []*domain.SlotDefinition{{
		ID:           uuid.New(),
		TeacherID:    teacherID,
		DayOfWeek:    1,
		StartMinutes: 10 * 60,
		EndMinutes:   12 * 60,
	}}}
	catalog := &fakeCatalogRepo{
		teachers: map[uuid.UUID]*domain.Teacher{
			teacherID: {ID: teacherID, CategoryIDs: []uuid.UUID{categoryID}},
		},
		categories: map[uuid.UUID]*domain.LessonCategory{
			categoryID: {ID: categoryID, Name: "Хип-хоп"},
		},
	}
	ledger := &fakeLedger{use: &domain.LessonSubscription{ID: uuid.New(), SubscriptionID: uuid.New()}}
	notifier := &fakeNotifier{}

	uc := NewUseCase(lessons, slots, catalog, ledger, notifier, passthroughTx{}, loc, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 9, 8, 0, 0, 0, loc)}

	return &requestFixture{
		uc:       uc,
		lessons:  lessons,
		notifier: notifier,
		ledger:   ledger,
		loc:      loc,
		req: &Request{
			StudentID:  studentID,
			TeacherID:  teacherID,
			Name:       "Индивидуальное занятие",
			CategoryID: categoryID,
			StartTime:  time.Date(2025, 6, 10, 10, 30, 0, 0, loc),
			FinishTime: time.Date(2025, 6, 10, 11, 30, 0, 0, loc),
		},
	}
}

func TestExecuteCreatesUnconfirmedLesson(t *testing.T) {
	f := newRequestFixture(t)

	resp, err := f.uc.Execute(context.Background(), f.req)
	require.NoError(t, err)

	assert.False(t, resp.IsConfirmed)
	assert.Equal(t, f.req.TeacherID, resp.TeacherID)
	assert.Equal(t, f.ledger.use.SubscriptionID, resp.SubscriptionID)

	require.Len(t, f.lessons.created, 1)
	assert.Nil(t, f.lessons.created[0].ClassroomID)
	require.Len(t, f.lessons.attached, 1)
	assert.Equal(t, f.req.TeacherID, f.lessons.attached[0].TeacherID)

	// Преподаватель уведомлен о заявке
	require.Len(t, f.notifier.requested, 1)
	assert.Equal(t, resp.ID, f.notifier.requested[0])
}

func TestExecuteRejectsWindowOutsideAvailability(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		finish string
	}{
		{"sticks out past slot end", "11:30", "12:30"},
		{"starts before slot", "09:30", "10:30"},
		{"covers whole day", "08:00", "20:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestFixture(t)

			start, err := time.Parse(domain.TimeFormat, tt.start)
			require.NoError(t, err)
			finish, err := time.Parse(domain.TimeFormat, tt.finish)
			require.NoError(t, err)

			f.req.StartTime = time.Date(2025, 6, 10, start.Hour(), start.Minute(), 0, 0, f.loc)
			f.req.FinishTime = time.Date(2025, 6, 10, finish.Hour(), finish.Minute(), 0, 0, f.loc)

			_, err = f.uc.Execute(context.Background(), f.req)
			assert.ErrorIs(t, err, ErrOutsideAvailability)
			assert.Empty(t, f.lessons.created)
		})
	}
}

func TestExecuteRejectsWrongWeekday(t *testing.T) {
	f := newRequestFixture(t)

	// Среда вместо вторника
	f.req.StartTime = time.Date(2025, 6, 11, 10, 30, 0, 0, f.loc)
	f.req.FinishTime = time.Date(2025, 6, 11, 11, 30, 0, 0, f.loc)

	_, err := f.uc.Execute(context.Background(), f.req)
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestExecuteRejectsConflicts(t *testing.T) {
	t.Run("teacher busy", func(t *testing.T) {
		f := newRequestFixture(t)
		f.lessons.teacherBusy = true

		_, err := f.uc.Execute(context.Background(), f.req)
		assert.ErrorIs(t, err, ErrTeacherBusy)
	})

	t.Run("student busy", func(t *testing.T) {
		f := newRequestFixture(t)
		f.lessons.studentBusy = true

		_, err := f.uc.Execute(context.Background(), f.req)
		assert.ErrorIs(t, err, ErrStudentBusy)
	})
}

func TestExecuteRejectsPastWindow(t *testing.T) {
	f := newRequestFixture(t)
	f.req.StartTime = time.Date(2025, 6, 3, 10, 30, 0, 0, f.loc)
	f.req.FinishTime = time.Date(2025, 6, 3, 11, 30, 0, 0, f.loc)

	_, err := f.uc.Execute(context.Background(), f.req)
	assert.ErrorIs(t, err, ErrLessonInPast)
}

func TestExecuteRejectsGroupCategory(t *testing.T) {
	f := newRequestFixture(t)
	f.uc.catalogRepo.(*fakeCatalogRepo).categories[f.req.CategoryID].IsGroup = true

	_, err := f.uc.Execute(context.Background(), f.req)
	assert.ErrorIs(t, err, ErrCategoryIsGroup)
}

func TestExecuteRejectsTeacherCategoryMismatch(t *testing.T) {
	f := newRequestFixture(t)
	f.uc.catalogRepo.(*fakeCatalogRepo).teachers[f.req.TeacherID].CategoryIDs = nil

	_, err := f.uc.Execute(context.Background(), f.req)
	assert.ErrorIs(t, err, ErrTeacherCategoryMismatch)
}

func TestExecutePropagatesLedgerError(t *testing.T) {
	f := newRequestFixture(t)
	f.ledger.err = assert.AnError

	_, err := f.uc.Execute(context.Background(), f.req)
	assert.ErrorIs(t, err, assert.AnError)
}

package generate_availability

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

type fakeSlotRepo struct {
	byTeacher  map[uuid.UUID][]*domain.SlotDefinition
	byCategory map[uuid.UUID][]*domain.SlotDefinition
}

func (f *fakeSlotRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error) {
	return f.byTeacher[teacherID], nil
}

func (f *fakeSlotRepo) ListForCategory(_ context.Context, categoryID uuid.UUID) ([]*domain.SlotDefinition, error) {
	return f.byCategory[categoryID], nil
}

type fakeLessonRepo struct {
	busy []domain.Window
}

func (f *fakeLessonRepo) HasTeacherOverlap(_ context.Context, teacherID uuid.UUID, start, finish time.Time, _ *uuid.UUID) (bool, error) {
	for _, w := range f.busy {
		if w.TeacherID == teacherID && domain.Overlaps(w.Start, w.Finish, start, finish) {
			return true, nil
		}
	}
	return false, nil
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

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newAvailabilityFixture(t *testing.T) (uuid.UUID, uuid.UUID, *fakeSlotRepo, *fakeLessonRepo, *fakeCatalogRepo, *time.Location) {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	teacherID := uuid.New()
	categoryID := uuid.New()

	// Вторник 10:00–11:00
	slot := &domain.SlotDefinition{
		ID:           uuid.New(),
		TeacherID:    teacherID,
		DayOfWeek:    1,
		StartMinutes: 10 * 60,
		EndMinutes:   11 * 60,
	}

	slots := &fakeSlotRepo{
		byTeacher:  map[uuid.UUID][]*domain.SlotDefinition{teacherID: {slot}},
		byCategory: map[uuid.UUID][]*domain.SlotDefinition{categoryID: {slot}},
	}
	lessons := &fakeLessonRepo{}
	catalog := &fakeCatalogRepo{
		teachers: map[uuid.UUID]*domain.Teacher{
			teacherID: {ID: teacherID, Name: "Анна", CategoryIDs: []uuid.UUID{categoryID}},
		},
		categories: map[uuid.UUID]*domain.LessonCategory{
			categoryID: {ID: categoryID, Name: "Бальные танцы"},
		},
	}

	return teacherID, categoryID, slots, lessons, catalog, loc
}

func TestExecuteGeneratesWeeklyWindows(t *testing.T) {
	teacherID, _, slots, lessons, catalog, loc := newAvailabilityFixture(t)

	uc := NewUseCase(slots, lessons, catalog, loc, nopLogger{})
	// Понедельник 2025-06-09
	uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 9, 8, 0, 0, 0, loc)}

	resp, err := uc.Execute(context.Background(), &Request{
		TeacherIDs: []uuid.UUID{teacherID},
		DateFrom:   time.Date(2025, 6, 9, 0, 0, 0, 0, loc),
		DateTo:     time.Date(2025, 6, 22, 23, 59, 0, 0, loc),
	})
	require.NoError(t, err)

	// Два вторника в диапазоне: 10 и 17 июня
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, time.Date(2025, 6, 10, 10, 0, 0, 0, loc), resp.Windows[0].StartTime)
	assert.Equal(t, time.Date(2025, 6, 10, 11, 0, 0, 0, loc), resp.Windows[0].FinishTime)
	assert.Equal(t, time.Date(2025, 6, 17, 10, 0, 0, 0, loc), resp.Windows[1].StartTime)
	assert.Equal(t, teacherID, resp.Windows[0].TeacherID)
}

func TestExecuteDropsWindowsWithTeacherConflict(t *testing.T) {
	teacherID, _, slots, lessons, catalog, loc := newAvailabilityFixture(t)

	// Занятие пересекает окно первого вторника
	lessons.busy = []domain.Window{{
		TeacherID: teacherID,
		Start:     time.Date(2025, 6, 10, 10, 30, 0, 0, loc),
		Finish:    time.Date(2025, 6, 10, 11, 30, 0, 0, loc),
	}}

	uc := NewUseCase(slots, lessons, catalog, loc, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 9, 8, 0, 0, 0, loc)}

	resp, err := uc.Execute(context.Background(), &Request{
		TeacherIDs: []uuid.UUID{teacherID},
		DateFrom:   time.Date(2025, 6, 9, 0, 0, 0, 0, loc),
		DateTo:     time.Date(2025, 6, 22, 23, 59, 0, 0, loc),
	})
	require.NoError(t, err)

	require.Len(t, resp.Windows, 1)
	assert.Equal(t, time.Date(2025, 6, 17, 10, 0, 0, 0, loc), resp.Windows[0].StartTime)
}

func TestExecuteSkipsWindowsBeforeNow(t *testing.T) {
	teacherID, _, slots, lessons, catalog, loc := newAvailabilityFixture(t)

	uc := NewUseCase(slots, lessons, catalog, loc, nopLogger{})
	// Уже среда: вторник 10 июня позади
	uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 11, 8, 0, 0, 0, loc)}

	resp, err := uc.Execute(context.Background(), &Request{
		TeacherIDs: []uuid.UUID{teacherID},
		DateFrom:   time.Date(2025, 6, 9, 0, 0, 0, 0, loc),
		DateTo:     time.Date(2025, 6, 22, 23, 59, 0, 0, loc),
	})
	require.NoError(t, err)

	require.Len(t, resp.Windows, 1)
	assert.Equal(t, time.Date(2025, 6, 17, 10, 0, 0, 0, loc), resp.Windows[0].StartTime)
}

func TestExecuteRangeInPastReturnsEmpty(t *testing.T) {
	teacherID, _, slots, lessons, catalog, loc := newAvailabilityFixture(t)

	uc := NewUseCase(slots, lessons, catalog, loc, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 7, 1, 0, 0, 0, 0, loc)}

	resp, err := uc.Execute(context.Background(), &Request{
		TeacherIDs: []uuid.UUID{teacherID},
		DateFrom:   time.Date(2025, 6, 9, 0, 0, 0, 0, loc),
		DateTo:     time.Date(2025, 6, 22, 0, 0, 0, 0, loc),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Windows)
}

func TestExecuteByCategory(t *testing.T) {
	_, categoryID, slots, lessons, catalog, loc := newAvailabilityFixture(t)

	uc := NewUseCase(slots, lessons, catalog, loc, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 9, 8, 0, 0, 0, loc)}

	resp, err := uc.Execute(context.Background(), &Request{
		CategoryID: &categoryID,
		DateFrom:   time.Date(2025, 6, 9, 0, 0, 0, 0, loc),
		DateTo:     time.Date(2025, 6, 15, 23, 59, 0, 0, loc),
	})
	require.NoError(t, err)
	require.Len(t, resp.Windows, 1)
}

func TestExecuteValidation(t *testing.T) {
	teacherID, _, slots, lessons, catalog, loc := newAvailabilityFixture(t)

	uc := NewUseCase(slots, lessons, catalog, loc, nopLogger{})
	uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 9, 8, 0, 0, 0, loc)}

	t.Run("reversed range", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			TeacherIDs: []uuid.UUID{teacherID},
			DateFrom:   time.Date(2025, 6, 22, 0, 0, 0, 0, loc),
			DateTo:     time.Date(2025, 6, 9, 0, 0, 0, 0, loc),
		})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("no filters", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			DateFrom: time.Date(2026, 6, 9, 0, 0, 0, 0, loc),
			DateTo:   time.Date(2026, 6, 22, 0, 0, 0, 0, loc),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown teacher", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			TeacherIDs: []uuid.UUID{uuid.New()},
			DateFrom:   time.Date(2026, 6, 9, 0, 0, 0, 0, loc),
			DateTo:     time.Date(2026, 6, 22, 0, 0, 0, 0, loc),
		})
		assert.ErrorIs(t, err, ErrTeacherNotFound)
	})
}

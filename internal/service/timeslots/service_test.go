package timeslots

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
	catalogRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/catalog"
	slotRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/slot"
)

type fakeSlotRepo struct {
	slots map[uuid.UUID]*domain.SlotDefinition
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[uuid.UUID]*domain.SlotDefinition{}}
}

func (f *fakeSlotRepo) Create(_ context.Context, s *domain.SlotDefinition) (*domain.SlotDefinition, error) {
	created := *s
	created.ID = uuid.New()
	f.slots[created.ID] = &created
	return &created, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.SlotDefinition, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

func (f *fakeSlotRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]*domain.SlotDefinition, error) {
	var out []*domain.SlotDefinition
	for _, s := range f.slots {
		if s.TeacherID == teacherID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) HasOverlapping(_ context.Context, teacherID uuid.UUID, dayOfWeek, startMinutes, endMinutes int, excludeID *uuid.UUID) (bool, error) {
	candidate := domain.SlotDefinition{DayOfWeek: dayOfWeek, StartMinutes: startMinutes, EndMinutes: endMinutes}
	for _, s := range f.slots {
		if s.TeacherID != teacherID {
			continue
		}
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.OverlapsOnSameDay(&candidate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, s *domain.SlotDefinition) error {
	if _, ok := f.slots[s.ID]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	f.slots[s.ID] = s
	return nil
}

func (f *fakeSlotRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(f.slots, id)
	return nil
}

type fakeCatalog struct {
	teachers map[uuid.UUID]*domain.Teacher
}

func (f *fakeCatalog) GetTeacher(_ context.Context, id uuid.UUID) (*domain.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return nil, catalogRepo.ErrTeacherNotFound
	}
	return t, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTimeslotsFixture() (*Service, *fakeSlotRepo, uuid.UUID) {
	slots := newFakeSlotRepo()
	teacherID := uuid.New()
	catalog := &fakeCatalog{teachers: map[uuid.UUID]*domain.Teacher{
		teacherID: {ID: teacherID, Name: "Олег"},
	}}
	return NewService(slots, catalog, passthroughTx{}, nopLogger{}), slots, teacherID
}

func teacherActor(id uuid.UUID) domain.Actor {
	return domain.Actor{Role: domain.RoleTeacher, ID: id}
}

func TestCreateSlot(t *testing.T) {
	svc, _, teacherID := newTimeslotsFixture()

	created, err := svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID:    teacherID,
		DayOfWeek:    2,
		StartMinutes: 10 * 60,
		EndMinutes:   11 * 60,
	}, teacherActor(teacherID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	svc, _, teacherID := newTimeslotsFixture()
	actor := teacherActor(teacherID)

	_, err := svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: 12 * 60,
	}, actor)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 11 * 60, EndMinutes: 13 * 60,
	}, actor)
	assert.ErrorIs(t, err, ErrSlotOverlap)

	// Другой день недели не пересекается
	_, err = svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 3, StartMinutes: 11 * 60, EndMinutes: 13 * 60,
	}, actor)
	assert.NoError(t, err)
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _, teacherID := newTimeslotsFixture()
	actor := teacherActor(teacherID)

	_, err := svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 7, StartMinutes: 10 * 60, EndMinutes: 11 * 60,
	}, actor)
	assert.ErrorIs(t, err, ErrInvalidDayOfWeek)

	_, err = svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 11 * 60, EndMinutes: 10 * 60,
	}, actor)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: domain.MinutesPerDay + 1,
	}, actor)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateSlotAccess(t *testing.T) {
	svc, _, teacherID := newTimeslotsFixture()

	slot := &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: 11 * 60,
	}

	// Чужой преподаватель не управляет расписанием
	_, err := svc.Create(context.Background(), slot, teacherActor(uuid.New()))
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Администратор управляет любым
	_, err = svc.Create(context.Background(), slot, domain.Actor{Role: domain.RoleAdmin, ID: uuid.New()})
	assert.NoError(t, err)
}

func TestUpdateSlotExcludesItselfFromOverlapCheck(t *testing.T) {
	svc, _, teacherID := newTimeslotsFixture()
	actor := teacherActor(teacherID)

	created, err := svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: 11 * 60,
	}, actor)
	require.NoError(t, err)

	// Сдвиг собственного окна не конфликтует с самим собой
	updated, err := svc.Update(context.Background(), created.ID, 2, 10*60+30, 11*60+30, actor)
	require.NoError(t, err)
	assert.Equal(t, 10*60+30, updated.StartMinutes)
	assert.Equal(t, 11*60+30, updated.EndMinutes)
}

func TestUpdateSlotRejectsOverlapWithOtherSlot(t *testing.T) {
	svc, _, teacherID := newTimeslotsFixture()
	actor := teacherActor(teacherID)

	first, err := svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: 11 * 60,
	}, actor)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 12 * 60, EndMinutes: 13 * 60,
	}, actor)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), first.ID, 2, 12*60+30, 14*60, actor)
	assert.ErrorIs(t, err, ErrSlotOverlap)
}

func TestDeleteSlot(t *testing.T) {
	svc, slots, teacherID := newTimeslotsFixture()
	actor := teacherActor(teacherID)

	created, err := svc.Create(context.Background(), &domain.SlotDefinition{
		TeacherID: teacherID, DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: 11 * 60,
	}, actor)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, actor))
	assert.Empty(t, slots.slots)

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, actor), ErrSlotNotFound)
}

package enrollment

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

type fakeGroupRepo struct {
	groups  map[uuid.UUID]*domain.Group
	members map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  map[uuid.UUID]*domain.Group{},
		members: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, groupRepo.ErrGroupNotFound
	}
	return g, nil
}

func (f *fakeGroupRepo) IsStudentMember(_ context.Context, studentID, groupID uuid.UUID) (bool, error) {
	return f.members[groupID][studentID], nil
}

func (f *fakeGroupRepo) CountStudents(_ context.Context, groupID uuid.UUID) (int, error) {
	return len(f.members[groupID]), nil
}

func (f *fakeGroupRepo) AddStudent(_ context.Context, studentID, groupID uuid.UUID) error {
	if f.members[groupID] == nil {
		f.members[groupID] = map[uuid.UUID]bool{}
	}
	f.members[groupID][studentID] = true
	return nil
}

func (f *fakeGroupRepo) RemoveStudent(_ context.Context, studentID, groupID uuid.UUID) (int64, error) {
	if !f.members[groupID][studentID] {
		return 0, nil
	}
	delete(f.members[groupID], studentID)
	return 1, nil
}

type fakeLessonRepo struct {
	futureCategories []uuid.UUID
}

func (f *fakeLessonRepo) CategoryIDsOfFutureConfirmedByGroup(_ context.Context, _ uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return f.futureCategories, nil
}

type fakeSubscriptionRepo struct {
	covered []uuid.UUID
}

func (f *fakeSubscriptionRepo) CoveredCategoryIDs(_ context.Context, _ uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return f.covered, nil
}

type fakeCatalog struct {
	students map[uuid.UUID]*domain.Student
}

func (f *fakeCatalog) GetStudent(_ context.Context, id uuid.UUID) (*domain.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, catalogRepo.ErrStudentNotFound
	}
	return s, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type enrollmentFixture struct {
	svc       *Service
	groups    *fakeGroupRepo
	lessons   *fakeLessonRepo
	subs      *fakeSubscriptionRepo
	catalog   *fakeCatalog
	studentID uuid.UUID
	groupID   uuid.UUID
}

func newEnrollmentFixture() *enrollmentFixture {
	groups := newFakeGroupRepo()
	lessons := &fakeLessonRepo{}
	subs := &fakeSubscriptionRepo{}
	studentID := uuid.New()
	catalog := &fakeCatalog{students: map[uuid.UUID]*domain.Student{
		studentID: {ID: studentID, Name: "Ирина"},
	}}

	groupID := uuid.New()
	groups.groups[groupID] = &domain.Group{ID: groupID, Name: "Сальса, начинающие", MaxCapacity: 2}

	return &enrollmentFixture{
		svc:       NewService(groups, lessons, subs, catalog, passthroughTx{}, nopLogger{}),
		groups:    groups,
		lessons:   lessons,
		subs:      subs,
		catalog:   catalog,
		studentID: studentID,
		groupID:   groupID,
	}
}

func TestEnroll(t *testing.T) {
	f := newEnrollmentFixture()

	require.NoError(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID))
	assert.True(t, f.groups.members[f.groupID][f.studentID])
}

func TestEnrollRejectsDuplicateMembership(t *testing.T) {
	f := newEnrollmentFixture()

	require.NoError(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID))
	assert.ErrorIs(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID), ErrAlreadyMember)
}

func TestEnrollRejectsFullGroup(t *testing.T) {
	f := newEnrollmentFixture()
	f.groups.members[f.groupID] = map[uuid.UUID]bool{uuid.New(): true, uuid.New(): true}

	assert.ErrorIs(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID), ErrGroupFull)
}

func TestEnrollChecksCategoryCoverage(t *testing.T) {
	f := newEnrollmentFixture()
	covered := uuid.New()
	uncovered := uuid.New()
	f.lessons.futureCategories = []uuid.UUID{covered, uncovered}
	f.subs.covered = []uuid.UUID{covered}

	assert.ErrorIs(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID), ErrCategoriesNotCovered)

	f.subs.covered = []uuid.UUID{covered, uncovered}
	assert.NoError(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID))
}

func TestEnrollRejectsInactiveParties(t *testing.T) {
	t.Run("inactive group", func(t *testing.T) {
		f := newEnrollmentFixture()
		f.groups.groups[f.groupID].Terminated = true
		assert.ErrorIs(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID), ErrGroupInactive)
	})

	t.Run("inactive student", func(t *testing.T) {
		f := newEnrollmentFixture()
		f.catalog.students[f.studentID].Terminated = true
		assert.ErrorIs(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID), ErrStudentInactive)
	})

	t.Run("unknown group", func(t *testing.T) {
		f := newEnrollmentFixture()
		assert.ErrorIs(t, f.svc.Enroll(context.Background(), f.studentID, uuid.New()), ErrGroupNotFound)
	})
}

func TestRemove(t *testing.T) {
	f := newEnrollmentFixture()

	require.NoError(t, f.svc.Enroll(context.Background(), f.studentID, f.groupID))
	require.NoError(t, f.svc.Remove(context.Background(), f.studentID, f.groupID))
	assert.False(t, f.groups.members[f.groupID][f.studentID])

	assert.ErrorIs(t, f.svc.Remove(context.Background(), f.studentID, f.groupID), ErrNotMember)
}

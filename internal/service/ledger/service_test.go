package ledger

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
	subscriptionRepo "github.com/nkotelnik/DanceSchool-SchedulingService/internal/infra/storage/subscription"
)

type fakeSubscriptionRepo struct {
	subscriptions map[uuid.UUID]*domain.Subscription
	templates     map[uuid.UUID]*domain.SubscriptionTemplate
	statuses      map[uuid.UUID]*domain.SubscriptionStatus
	uses          []*domain.LessonSubscription
	cheapest      *domain.SubscriptionTemplate
	activeByStud  map[uuid.UUID][]*domain.SubscriptionStatus
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subscriptions: map[uuid.UUID]*domain.Subscription{},
		templates:     map[uuid.UUID]*domain.SubscriptionTemplate{},
		statuses:      map[uuid.UUID]*domain.SubscriptionStatus{},
		activeByStud:  map[uuid.UUID][]*domain.SubscriptionStatus{},
	}
}

func (f *fakeSubscriptionRepo) CreateSubscription(_ context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	created := *s
	created.ID = uuid.New()
	f.subscriptions[created.ID] = &created
	return &created, nil
}

func (f *fakeSubscriptionRepo) GetSubscriptionByID(_ context.Context, id uuid.UUID) (*domain.Subscription, error) {
	s, ok := f.subscriptions[id]
	if !ok {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	return s, nil
}

func (f *fakeSubscriptionRepo) GetTemplateByID(_ context.Context, id uuid.UUID) (*domain.SubscriptionTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, subscriptionRepo.ErrTemplateNotFound
	}
	return t, nil
}

func (f *fakeSubscriptionRepo) FindCheapestTemplateForCategory(_ context.Context, _ uuid.UUID, _ time.Time) (*domain.SubscriptionTemplate, error) {
	if f.cheapest == nil {
		return nil, subscriptionRepo.ErrTemplateNotFound
	}
	return f.cheapest, nil
}

func (f *fakeSubscriptionRepo) GetStatus(_ context.Context, subscriptionID uuid.UUID) (*domain.SubscriptionStatus, error) {
	s, ok := f.statuses[subscriptionID]
	if !ok {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	return s, nil
}

func (f *fakeSubscriptionRepo) CreateUse(_ context.Context, u *domain.LessonSubscription) (*domain.LessonSubscription, error) {
	created := *u
	created.ID = uuid.New()
	f.uses = append(f.uses, &created)
	return &created, nil
}

func (f *fakeSubscriptionRepo) GetUse(_ context.Context, subscriptionID, lessonID uuid.UUID) (*domain.LessonSubscription, error) {
	for _, u := range f.uses {
		if u.SubscriptionID == subscriptionID && u.LessonID == lessonID {
			return u, nil
		}
	}
	return nil, subscriptionRepo.ErrUseNotFound
}

func (f *fakeSubscriptionRepo) HasActiveUseByStudent(_ context.Context, studentID, lessonID uuid.UUID) (bool, error) {
	for _, u := range f.uses {
		if u.Cancelled || u.LessonID != lessonID {
			continue
		}
		s, ok := f.subscriptions[u.SubscriptionID]
		if ok && s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubscriptionRepo) CancelUse(_ context.Context, useID uuid.UUID) error {
	for _, u := range f.uses {
		if u.ID == useID {
			u.Cancelled = true
			return nil
		}
	}
	return subscriptionRepo.ErrUseNotFound
}

func (f *fakeSubscriptionRepo) CancelUsesByLesson(_ context.Context, lessonID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range f.uses {
		if u.LessonID == lessonID && !u.Cancelled {
			u.Cancelled = true
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) ListActiveByStudent(_ context.Context, studentID uuid.UUID, _ time.Time) ([]*domain.SubscriptionStatus, error) {
	return f.activeByStud[studentID], nil
}

func (f *fakeSubscriptionRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*domain.Subscription, error) {
	var out []*domain.Subscription
	for _, s := range f.subscriptions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeLedgerLessonRepo struct {
	lessons map[uuid.UUID]*domain.Lesson
	busy    bool
}

func (f *fakeLedgerLessonRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, lessonRepo.ErrLessonNotFound
	}
	return l, nil
}

func (f *fakeLedgerLessonRepo) HasStudentOverlap(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (bool, error) {
	return f.busy, nil
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

type fakeGroupRepo struct {
	members map[uuid.UUID]map[uuid.UUID]bool
}

func (f *fakeGroupRepo) IsStudentMember(_ context.Context, studentID, groupID uuid.UUID) (bool, error) {
	return f.members[groupID][studentID], nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type ledgerFixture struct {
	svc        *Service
	subs       *fakeSubscriptionRepo
	lessons    *fakeLedgerLessonRepo
	catalog    *fakeCatalog
	groups     *fakeGroupRepo
	studentID  uuid.UUID
	categoryID uuid.UUID
	now        time.Time
}

func newLedgerFixture() *ledgerFixture {
	subs := newFakeSubscriptionRepo()
	lessons := &fakeLedgerLessonRepo{lessons: map[uuid.UUID]*domain.Lesson{}}
	studentID := uuid.New()
	catalog := &fakeCatalog{students: map[uuid.UUID]*domain.Student{
		studentID: {ID: studentID, Name: "Мария"},
	}}
	groups := &fakeGroupRepo{members: map[uuid.UUID]map[uuid.UUID]bool{}}

	return &ledgerFixture{
		svc:        NewService(subs, lessons, catalog, groups, passthroughTx{}, nopLogger{}),
		subs:       subs,
		lessons:    lessons,
		catalog:    catalog,
		groups:     groups,
		studentID:  studentID,
		categoryID: uuid.New(),
		now:        time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC),
	}
}

func (f *ledgerFixture) addSubscription(lessonsLeft int, categoryIDs ...uuid.UUID) uuid.UUID {
	sub := &domain.Subscription{ID: uuid.New(), StudentID: f.studentID, TemplateID: uuid.New()}
	f.subs.subscriptions[sub.ID] = sub
	status := &domain.SubscriptionStatus{
		Subscription:    *sub,
		Template:        domain.SubscriptionTemplate{ID: sub.TemplateID, LessonCount: lessonsLeft, CategoryIDs: categoryIDs},
		UncancelledUses: 0,
	}
	f.subs.statuses[sub.ID] = status
	f.subs.activeByStud[f.studentID] = append(f.subs.activeByStud[f.studentID], status)
	return sub.ID
}

func (f *ledgerFixture) newLesson() *domain.Lesson {
	lesson := &domain.Lesson{
		ID:          uuid.New(),
		CategoryID:  f.categoryID,
		StartTime:   f.now.Add(24 * time.Hour),
		FinishTime:  f.now.Add(25 * time.Hour),
		IsConfirmed: true,
	}
	f.lessons.lessons[lesson.ID] = lesson
	return lesson
}

func TestReserveExplicitSubscription(t *testing.T) {
	f := newLedgerFixture()
	subID := f.addSubscription(8, f.categoryID)
	lesson := f.newLesson()

	use, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	require.NoError(t, err)
	assert.Equal(t, subID, use.SubscriptionID)
	assert.Equal(t, lesson.ID, use.LessonID)
	assert.False(t, use.Cancelled)
}

func TestReserveExplicitSubscriptionErrors(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, f.categoryID)
		f.subs.statuses[subID].Subscription.StudentID = uuid.New()
		lesson := f.newLesson()

		_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("category mismatch", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, uuid.New())
		lesson := f.newLesson()

		_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
		assert.ErrorIs(t, err, ErrCategoryMismatch)
	})

	t.Run("no lessons left", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(1, f.categoryID)
		f.subs.statuses[subID].UncancelledUses = 1
		lesson := f.newLesson()

		_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
		assert.ErrorIs(t, err, ErrNoLessonsLeft)
	})

	t.Run("expired", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, f.categoryID)
		expired := f.now.Add(-time.Hour)
		f.subs.statuses[subID].Subscription.ExpirationDate = &expired
		lesson := f.newLesson()

		_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
		assert.ErrorIs(t, err, ErrSubscriptionExpired)
	})
}

func TestReserveRejectsDoubleEnrollment(t *testing.T) {
	f := newLedgerFixture()
	subID := f.addSubscription(8, f.categoryID)
	lesson := f.newLesson()

	_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	require.NoError(t, err)

	_, err = f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestReserveGroupLessonRequiresMembership(t *testing.T) {
	f := newLedgerFixture()
	subID := f.addSubscription(8, f.categoryID)
	lesson := f.newLesson()
	groupID := uuid.New()
	lesson.GroupID = &groupID

	_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	assert.ErrorIs(t, err, ErrNotGroupMember)

	f.groups.members[groupID] = map[uuid.UUID]bool{f.studentID: true}
	_, err = f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	assert.NoError(t, err)
}

func TestReservePicksApplicableSubscription(t *testing.T) {
	f := newLedgerFixture()
	f.addSubscription(8, uuid.New()) // чужая категория
	wantID := f.addSubscription(8, f.categoryID)
	lesson := f.newLesson()

	use, err := f.svc.Reserve(context.Background(), f.studentID, lesson, nil, f.now)
	require.NoError(t, err)
	assert.Equal(t, wantID, use.SubscriptionID)
}

func TestReserveAutoIssuesCheapestTemplate(t *testing.T) {
	f := newLedgerFixture()
	lesson := f.newLesson()
	days := 90
	f.subs.cheapest = &domain.SubscriptionTemplate{
		ID:                 uuid.New(),
		LessonCount:        4,
		Price:              3000,
		ExpirationDayCount: &days,
		CategoryIDs:        []uuid.UUID{f.categoryID},
	}

	use, err := f.svc.Reserve(context.Background(), f.studentID, lesson, nil, f.now)
	require.NoError(t, err)

	issued := f.subs.subscriptions[use.SubscriptionID]
	require.NotNil(t, issued)
	assert.Equal(t, f.studentID, issued.StudentID)
	assert.Equal(t, f.subs.cheapest.ID, issued.TemplateID)
	require.NotNil(t, issued.ExpirationDate)
	assert.Equal(t, f.now.AddDate(0, 0, days), *issued.ExpirationDate)
}

func TestReserveNoSuitableSubscription(t *testing.T) {
	f := newLedgerFixture()
	lesson := f.newLesson()

	_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, nil, f.now)
	assert.ErrorIs(t, err, ErrNoSuitableSubscription)
}

func TestReserveForLesson(t *testing.T) {
	t.Run("lesson already started", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, f.categoryID)
		lesson := f.newLesson()
		lesson.StartTime = f.now.Add(-time.Hour)

		_, err := f.svc.ReserveForLesson(context.Background(), f.studentID, lesson.ID, &subID, f.now)
		assert.ErrorIs(t, err, ErrLessonStarted)
	})

	t.Run("terminated lesson", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, f.categoryID)
		lesson := f.newLesson()
		lesson.Terminated = true

		_, err := f.svc.ReserveForLesson(context.Background(), f.studentID, lesson.ID, &subID, f.now)
		assert.ErrorIs(t, err, ErrLessonTerminated)
	})

	t.Run("student busy", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, f.categoryID)
		lesson := f.newLesson()
		f.lessons.busy = true

		_, err := f.svc.ReserveForLesson(context.Background(), f.studentID, lesson.ID, &subID, f.now)
		assert.ErrorIs(t, err, ErrStudentBusy)
	})

	t.Run("success", func(t *testing.T) {
		f := newLedgerFixture()
		subID := f.addSubscription(8, f.categoryID)
		lesson := f.newLesson()

		use, err := f.svc.ReserveForLesson(context.Background(), f.studentID, lesson.ID, &subID, f.now)
		require.NoError(t, err)
		assert.Equal(t, lesson.ID, use.LessonID)
	})
}

func TestReleaseIsIdempotent(t *testing.T) {
	f := newLedgerFixture()
	subID := f.addSubscription(8, f.categoryID)
	lesson := f.newLesson()

	use, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	require.NoError(t, err)

	require.NoError(t, f.svc.Release(context.Background(), subID, lesson.ID))
	assert.True(t, use.Cancelled || f.subs.uses[0].Cancelled)

	// Повторная отмена не ошибка
	assert.NoError(t, f.svc.Release(context.Background(), subID, lesson.ID))
}

func TestReleaseUnknownUse(t *testing.T) {
	f := newLedgerFixture()
	subID := f.addSubscription(8, f.categoryID)

	err := f.svc.Release(context.Background(), subID, uuid.New())
	assert.ErrorIs(t, err, ErrUseNotFound)
}

func TestReleaseByLesson(t *testing.T) {
	f := newLedgerFixture()
	subID := f.addSubscription(8, f.categoryID)
	lesson := f.newLesson()

	_, err := f.svc.Reserve(context.Background(), f.studentID, lesson, &subID, f.now)
	require.NoError(t, err)

	released, err := f.svc.ReleaseByLesson(context.Background(), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)

	released, err = f.svc.ReleaseByLesson(context.Background(), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), released)
}

func TestPurchase(t *testing.T) {
	t.Run("expiration from day count", func(t *testing.T) {
		f := newLedgerFixture()
		days := 30
		tpl := &domain.SubscriptionTemplate{ID: uuid.New(), LessonCount: 8, ExpirationDayCount: &days}
		f.subs.templates[tpl.ID] = tpl

		sub, err := f.svc.Purchase(context.Background(), f.studentID, tpl.ID, nil, f.now)
		require.NoError(t, err)
		require.NotNil(t, sub.ExpirationDate)
		assert.Equal(t, f.now.AddDate(0, 0, 30), *sub.ExpirationDate)
	})

	t.Run("expired template", func(t *testing.T) {
		f := newLedgerFixture()
		expired := f.now.Add(-time.Hour)
		tpl := &domain.SubscriptionTemplate{ID: uuid.New(), LessonCount: 8, ExpirationDate: &expired}
		f.subs.templates[tpl.ID] = tpl

		_, err := f.svc.Purchase(context.Background(), f.studentID, tpl.ID, nil, f.now)
		assert.ErrorIs(t, err, ErrTemplateExpired)
	})

	t.Run("inactive student", func(t *testing.T) {
		f := newLedgerFixture()
		f.catalog.students[f.studentID].Terminated = true
		tpl := &domain.SubscriptionTemplate{ID: uuid.New(), LessonCount: 8}
		f.subs.templates[tpl.ID] = tpl

		_, err := f.svc.Purchase(context.Background(), f.studentID, tpl.ID, nil, f.now)
		assert.ErrorIs(t, err, ErrStudentInactive)
	})
}

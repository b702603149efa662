package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTemplateExpirationFrom(t *testing.T) {
	purchase := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("day count wins over absolute date", func(t *testing.T) {
		days := 30
		abs := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		tpl := SubscriptionTemplate{ExpirationDayCount: &days, ExpirationDate: &abs}

		exp := tpl.ExpirationFrom(purchase)
		assert.NotNil(t, exp)
		assert.Equal(t, purchase.AddDate(0, 0, 30), *exp)
	})

	t.Run("absolute date", func(t *testing.T) {
		abs := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		tpl := SubscriptionTemplate{ExpirationDate: &abs}

		exp := tpl.ExpirationFrom(purchase)
		assert.NotNil(t, exp)
		assert.Equal(t, abs, *exp)
	})

	t.Run("no expiration", func(t *testing.T) {
		tpl := SubscriptionTemplate{}
		assert.Nil(t, tpl.ExpirationFrom(purchase))
	})
}

func TestSubscriptionStatusIsApplicable(t *testing.T) {
	category := uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("covering and unexpired", func(t *testing.T) {
		status := SubscriptionStatus{
			Template: SubscriptionTemplate{CategoryIDs: []uuid.UUID{uuid.New(), category}},
		}
		assert.True(t, status.IsApplicable(category, now))
	})

	t.Run("category not covered", func(t *testing.T) {
		status := SubscriptionStatus{
			Template: SubscriptionTemplate{CategoryIDs: []uuid.UUID{uuid.New()}},
		}
		assert.False(t, status.IsApplicable(category, now))
	})

	t.Run("expired subscription", func(t *testing.T) {
		expired := now.Add(-time.Hour)
		status := SubscriptionStatus{
			Subscription: Subscription{ExpirationDate: &expired},
			Template:     SubscriptionTemplate{CategoryIDs: []uuid.UUID{category}},
		}
		assert.False(t, status.IsApplicable(category, now))
	})

	t.Run("expiration boundary is exclusive", func(t *testing.T) {
		status := SubscriptionStatus{
			Subscription: Subscription{ExpirationDate: &now},
			Template:     SubscriptionTemplate{CategoryIDs: []uuid.UUID{category}},
		}
		assert.False(t, status.IsApplicable(category, now))
	})
}

func TestSubscriptionStatusLessonsLeft(t *testing.T) {
	status := SubscriptionStatus{
		Template:        SubscriptionTemplate{LessonCount: 8},
		UncancelledUses: 3,
	}
	assert.Equal(t, 5, status.LessonsLeft())
}

func TestLessonOverlapsWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	lesson := Lesson{StartTime: start, FinishTime: start.Add(time.Hour)}

	assert.True(t, lesson.OverlapsWindow(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.False(t, lesson.OverlapsWindow(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, lesson.OverlapsWindow(start.Add(-time.Hour), start))
}

func TestContains(t *testing.T) {
	outerStart := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	outerFinish := outerStart.Add(time.Hour)

	tests := []struct {
		name        string
		innerStart  time.Time
		innerFinish time.Time
		want        bool
	}{
		{"strictly inside", outerStart.Add(15 * time.Minute), outerFinish.Add(-15 * time.Minute), true},
		{"exact match", outerStart, outerFinish, true},
		{"shared start", outerStart, outerStart.Add(30 * time.Minute), true},
		{"shared finish", outerStart.Add(30 * time.Minute), outerFinish, true},
		{"sticks out past finish", outerStart.Add(30 * time.Minute), outerFinish.Add(30 * time.Minute), false},
		{"starts before", outerStart.Add(-30 * time.Minute), outerStart.Add(30 * time.Minute), false},
		{"covers outer", outerStart.Add(-time.Hour), outerFinish.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(outerStart, outerFinish, tt.innerStart, tt.innerFinish))
		})
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTemplate is a purchasable bundle of lesson credits.
// Expiration is either an absolute date, a relative day count applied at
// purchase time, or absent entirely.
type SubscriptionTemplate struct {
	ID                 uuid.UUID
	Name               string
	Description        *string
	LessonCount        int
	Price              float64
	ExpirationDate     *time.Time
	ExpirationDayCount *int
	CategoryIDs        []uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsExpired reports whether the template itself can no longer be sold.
func (t *SubscriptionTemplate) IsExpired(asOf time.Time) bool {
	return t.ExpirationDate != nil && !t.ExpirationDate.After(asOf)
}

// Covers reports whether the template's credits apply to the category.
func (t *SubscriptionTemplate) Covers(categoryID uuid.UUID) bool {
	for _, id := range t.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// ExpirationFrom computes the expiration date of a subscription issued
// from this template at purchaseTime. Nil means the subscription never
// expires.
func (t *SubscriptionTemplate) ExpirationFrom(purchaseTime time.Time) *time.Time {
	if t.ExpirationDayCount != nil {
		exp := purchaseTime.AddDate(0, 0, *t.ExpirationDayCount)
		return &exp
	}
	if t.ExpirationDate != nil {
		exp := *t.ExpirationDate
		return &exp
	}
	return nil
}

// Subscription is one purchased instance of a template, owned by a
// student. Credits are consumed through LessonSubscription rows.
type Subscription struct {
	ID             uuid.UUID
	StudentID      uuid.UUID
	TemplateID     uuid.UUID
	ExpirationDate *time.Time
	PaymentID      *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExpired reports whether the subscription is past its expiration date.
func (s *Subscription) IsExpired(asOf time.Time) bool {
	return s.ExpirationDate != nil && !s.ExpirationDate.After(asOf)
}

// LessonsLeft computes the remaining credits from the template's lesson
// count and the number of uncancelled use rows. A credit is spent exactly
// when an uncancelled LessonSubscription exists; cancelled rows are kept
// for billing history and do not count.
func LessonsLeft(lessonCount, uncancelledUses int) int {
	return lessonCount - uncancelledUses
}

// SubscriptionStatus is a subscription together with its template and the
// use count, read from a single transactional snapshot. Every reservation
// decision is made against one of these, never against separately loaded
// pieces.
type SubscriptionStatus struct {
	Subscription    Subscription
	Template        SubscriptionTemplate
	UncancelledUses int
}

// LessonsLeft returns the remaining credits of the subscription.
func (s *SubscriptionStatus) LessonsLeft() int {
	return LessonsLeft(s.Template.LessonCount, s.UncancelledUses)
}

// IsApplicable reports whether the subscription may pay for a lesson of
// the given category at asOf: the template covers the category and the
// subscription has not expired.
func (s *SubscriptionStatus) IsApplicable(categoryID uuid.UUID, asOf time.Time) bool {
	return s.Template.Covers(categoryID) && !s.Subscription.IsExpired(asOf)
}

// LessonSubscription is a ledger row: one credit of a subscription spent
// on one lesson. Cancellation is a soft reversal.
type LessonSubscription struct {
	ID             uuid.UUID
	LessonID       uuid.UUID
	SubscriptionID uuid.UUID
	Cancelled      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

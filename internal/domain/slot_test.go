package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotDefinitionOverlapsOnSameDay(t *testing.T) {
	base := SlotDefinition{DayOfWeek: 1, StartMinutes: 10 * 60, EndMinutes: 12 * 60}

	tests := []struct {
		name  string
		other SlotDefinition
		want  bool
	}{
		{
			name:  "inside",
			other: SlotDefinition{DayOfWeek: 1, StartMinutes: 10*60 + 30, EndMinutes: 11 * 60},
			want:  true,
		},
		{
			name:  "partial overlap",
			other: SlotDefinition{DayOfWeek: 1, StartMinutes: 11 * 60, EndMinutes: 13 * 60},
			want:  true,
		},
		{
			name:  "adjacent does not overlap",
			other: SlotDefinition{DayOfWeek: 1, StartMinutes: 12 * 60, EndMinutes: 14 * 60},
			want:  false,
		},
		{
			name:  "different weekday",
			other: SlotDefinition{DayOfWeek: 2, StartMinutes: 10 * 60, EndMinutes: 12 * 60},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.OverlapsOnSameDay(&tt.other))
			assert.Equal(t, tt.want, tt.other.OverlapsOnSameDay(&base))
		})
	}
}

func TestSlotDefinitionMaterializeOn(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	slot := SlotDefinition{
		TeacherID:    uuid.New(),
		DayOfWeek:    1,
		StartMinutes: 9*60 + 30,
		EndMinutes:   11 * 60,
	}

	// 2025-06-10 is a Tuesday.
	date := time.Date(2025, 6, 10, 15, 42, 0, 0, time.UTC)
	start, finish := slot.MaterializeOn(date, loc)

	assert.Equal(t, time.Date(2025, 6, 10, 9, 30, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 6, 10, 11, 0, 0, 0, loc), finish)
}

func TestISOWeekday(t *testing.T) {
	// 2025-06-09 is a Monday.
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, ISOWeekday(monday.AddDate(0, 0, i)))
	}
}

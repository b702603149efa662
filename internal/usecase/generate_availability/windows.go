package generate_availability

import (
	"sort"
	"time"

	"github.com/nkotelnik/DanceSchool-SchedulingService/internal/domain"
)

// generateWindows материализует кандидатов из еженедельных слотов.
//
// Для каждого слота обход начинается с max(from, now): дата двигается
// по дням до нужного дня недели, затем шагает по неделям. Окно попадает
// в результат, только если целиком лежит в [max(from, now), to] —
// окно, начавшееся раньше границы или заканчивающееся позже, не
// обрезается, а отбрасывается.
func generateWindows(slots []*domain.SlotDefinition, from, to, now time.Time, loc *time.Location) []domain.Window {
	effectiveFrom := from
	if now.After(effectiveFrom) {
		effectiveFrom = now
	}

	// Диапазон целиком в прошлом
	if to.Before(effectiveFrom) {
		return []domain.Window{}
	}

	windows := make([]domain.Window, 0)
	for _, slot := range slots {
		windows = append(windows, walkSlot(slot, effectiveFrom, to, loc)...)
	}

	sortWindows(windows)
	return windows
}

// walkSlot перечисляет вхождения одного слота внутри [from, to]
func walkSlot(slot *domain.SlotDefinition, from, to time.Time, loc *time.Location) []domain.Window {
	y, m, d := from.In(loc).Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, loc)

	// Двигаемся по дням до нужного дня недели
	for domain.ISOWeekday(date) != slot.DayOfWeek {
		date = date.AddDate(0, 0, 1)
	}

	windows := make([]domain.Window, 0)
	for {
		start, finish := slot.MaterializeOn(date, loc)
		if start.After(to) {
			break
		}

		if !start.Before(from) && !finish.After(to) {
			windows = append(windows, domain.Window{
				TeacherID: slot.TeacherID,
				Start:     start,
				Finish:    finish,
			})
		}

		date = date.AddDate(0, 0, 7)
	}

	return windows
}

// sortWindows упорядочивает окна по началу, затем по преподавателю
func sortWindows(windows []domain.Window) {
	sort.Slice(windows, func(i, j int) bool {
		if !windows[i].Start.Equal(windows[j].Start) {
			return windows[i].Start.Before(windows[j].Start)
		}
		return windows[i].TeacherID.String() < windows[j].TeacherID.String()
	})
}

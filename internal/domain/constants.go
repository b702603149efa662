package domain

// Slot definition bounds
const (
	MinDayOfWeek = 0 // Monday, time.Weekday order shifted to ISO
	MaxDayOfWeek = 6 // Sunday

	MinutesPerDay = 24 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

package availability

import "github.com/marllouie99/DioceseIligan-BookingService/pkg/types"

// DaySchedule расписание церкви на конкретную дату
type DaySchedule struct {
	ChurchID int64  `json:"church_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Closed   bool   `json:"closed"`

	// SpecialHours ограниченные часы приёма на эту дату (nil = обычный режим)
	SpecialHours *HoursWindow `json:"special_hours,omitempty"`
}

// HoursWindow временное окно приёма
type HoursWindow struct {
	Open  types.TimeString `json:"open"`
	Close types.TimeString `json:"close"`
}

// Admits возвращает true, если запрошенное окно целиком попадает в часы приёма
func (s *DaySchedule) Admits(start, end types.TimeString) bool {
	if s.Closed {
		return false
	}
	if s.SpecialHours == nil {
		return true
	}
	return !start.IsBefore(s.SpecialHours.Open) && !end.IsAfter(s.SpecialHours.Close)
}

// ErrorResponse модель ошибки от календаря доступности
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

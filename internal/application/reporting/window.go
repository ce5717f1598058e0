package reporting

import (
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger-api/internal/domain"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Window intervalo semiabierto [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains indica si t cae dentro de la ventana.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow día calendario local que contiene t.
func DayWindow(t time.Time, loc *time.Location) Window {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	// AddDate y no Add(24h): los días con cambio de horario no duran 24 horas.
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// MonthWindow mes calendario local que contiene t.
func MonthWindow(t time.Time, loc *time.Location) Window {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseDay interpreta "YYYY-MM-DD" en la zona local.
func ParseDay(s string, loc *time.Location) (Window, error) {
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: fecha %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return DayWindow(t, loc), nil
}

// ParseMonth interpreta "YYYY-MM" en la zona local.
func ParseMonth(s string, loc *time.Location) (Window, error) {
	t, err := time.ParseInLocation(monthLayout, s, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: mes %q (formato YYYY-MM)", domain.ErrInvalidInput, s)
	}
	return MonthWindow(t, loc), nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}

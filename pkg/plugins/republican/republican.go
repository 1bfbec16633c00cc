// Package republican converts Gregorian dates to the French Republican
// calendar, extended past its 1811 abolition with the Romme leap rule.
package republican

import (
	"errors"
	"fmt"
	"time"
)

type Month int

const (
	Vendemiaire Month = iota
	Brumaire
	Frimaire
	Nivose
	Pluviose
	Ventose
	Germinal
	Floreal
	Prairial
	Messidor
	Thermidor
	Fructidor
	SansCulottides
)

var monthNames = [...]string{
	Vendemiaire:    "Vendémiaire",
	Brumaire:       "Brumaire",
	Frimaire:       "Frimaire",
	Nivose:         "Nivôse",
	Pluviose:       "Pluviôse",
	Ventose:        "Ventôse",
	Germinal:       "Germinal",
	Floreal:        "Floréal",
	Prairial:       "Prairial",
	Messidor:       "Messidor",
	Thermidor:      "Thermidor",
	Fructidor:      "Fructidor",
	SansCulottides: "Sans-Culottides",
}

func (m Month) String() string {
	if m < Vendemiaire || m > SansCulottides {
		return "ERROR"
	}
	return monthNames[m]
}

// Date is a day in the republican calendar. Day is 1-based within the month.
type Date struct {
	Year  int
	Month Month
	Day   int
}

var ErrBeforeEraEnd = errors.New("can only convert dates from after the official end of the calendar")

// FromGregorian converts the calendar day of t. The calendar officially
// ended on 1811-09-23, which was 1 Vendémiaire An 20; earlier dates are
// rejected. The year is padded by 2000 so the leap arithmetic of the
// Gregorian machinery lines up with the continuation rule.
func FromGregorian(t time.Time) (Date, error) {
	eraEnd := time.Date(1811, time.September, 23, 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	elapsed := int(day.Sub(eraEnd).Hours() / 24)
	if elapsed < 0 {
		return Date{}, ErrBeforeEraEnd
	}

	const padding = 2000
	fake := time.Date(20+padding, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, elapsed)
	dayOfYear := fake.YearDay() - 1
	month := Month(dayOfYear / 30)
	if month > SansCulottides {
		return Date{}, fmt.Errorf("no month for day of year %d", dayOfYear)
	}
	return Date{
		Year:  fake.Year() - padding,
		Month: month,
		Day:   dayOfYear - int(month)*30 + 1,
	}, nil
}

// DayName is the day of the ten-day republican week.
func (d Date) DayName() string {
	switch d.Day % 10 {
	case 1:
		return "Primedi"
	case 2:
		return "Duodi"
	case 3:
		return "Tridi"
	case 4:
		return "Quartidi"
	case 5:
		return "Quintidi"
	case 6:
		return "Sextidi"
	case 7:
		return "Septidi"
	case 8:
		return "Octidi"
	case 9:
		return "Nonidi"
	default:
		return "Décadi"
	}
}

// DaySymbol is the plant, tool, animal or feast associated with this day.
func (d Date) DaySymbol() string {
	if d.Month < Vendemiaire || d.Month > SansCulottides {
		return "ERROR"
	}
	symbols := daySymbols[d.Month]
	if d.Day < 1 || d.Day > len(symbols) {
		return "ERROR"
	}
	return symbols[d.Day-1]
}

func (d Date) String() string {
	return fmt.Sprintf("%d %s %d − jour %s − et c'est un %s",
		d.Day, d.Month, d.Year, d.DaySymbol(), d.DayName())
}

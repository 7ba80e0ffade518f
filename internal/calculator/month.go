package calculator

import (
	"errors"
	"time"

	"github.com/mmynk/fintrack/internal/models"
)

var (
	ErrInvalidMonth = errors.New("month must be an integer between 1 and 12")
	ErrInvalidYear  = errors.New("year must be an integer between 1 and 9999")
)

// MonthRange is the inclusive date interval [First, Last] covering one calendar month.
type MonthRange struct {
	First models.Date
	Last  models.Date
}

// NewMonthRange returns the range for the given year and month.
func NewMonthRange(year, month int) (MonthRange, error) {
	if month < 1 || month > 12 {
		return MonthRange{}, ErrInvalidMonth
	}
	if year < 1 || year > 9999 {
		return MonthRange{}, ErrInvalidYear
	}
	first := models.NewDate(year, time.Month(month), 1)
	// Day 0 of the next month normalizes to the last day of this one.
	last := models.NewDate(year, time.Month(month)+1, 0)
	return MonthRange{First: first, Last: last}, nil
}

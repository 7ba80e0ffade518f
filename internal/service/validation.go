package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/query"
)

const (
	// MinDescriptionLength is the shortest accepted description, after trimming.
	MinDescriptionLength = 3

	// DefaultMaxPageLimit caps the page size when no explicit rule is set.
	DefaultMaxPageLimit = 100

	invalidInputMessage = "invalid input"
)

// Rules holds the tunable validation settings.
type Rules struct {
	// MaxPageLimit is the largest accepted page size.
	MaxPageLimit int

	// StrictAmountSign requires Income amounts >= 0 and Expense amounts <= 0.
	// When false the client-supplied sign is stored unchanged.
	StrictAmountSign bool
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{MaxPageLimit: DefaultMaxPageLimit}
}

// TransactionInput is the raw body of a create or update request.
// Fields are kept as raw JSON so that type errors can be reported per field.
type TransactionInput struct {
	Description json.RawMessage `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Date        json.RawMessage `json:"date"`
	Category    json.RawMessage `json:"category"`
}

// Validate checks every field and returns the parsed values or a
// *ValidationError listing all problems.
func (r Rules) Validate(in TransactionInput) (models.TransactionFields, error) {
	var fields models.TransactionFields
	verr := NewValidationError(invalidInputMessage)

	if desc, ok := rawString(in.Description); !ok {
		verr.Add("description", "description must be a string")
	} else if desc = strings.TrimSpace(desc); utf8.RuneCountInString(desc) < MinDescriptionLength {
		verr.Add("description", fmt.Sprintf("description must be at least %d characters", MinDescriptionLength))
	} else {
		fields.Description = desc
	}

	amountOK := false
	if amount, err := rawAmount(in.Amount); err != nil {
		verr.Add("amount", err.Error())
	} else {
		fields.Amount = amount
		amountOK = true
	}

	if s, ok := rawString(in.Date); !ok {
		verr.Add("date", "date must be a string in YYYY-MM-DD format")
	} else if d, err := models.ParseDate(s); err != nil {
		verr.Add("date", err.Error())
	} else {
		fields.Date = d
	}

	categoryOK := false
	if s, ok := rawString(in.Category); !ok {
		verr.Add("category", models.ErrInvalidCategory.Error())
	} else if c, err := models.ParseCategory(s); err != nil {
		verr.Add("category", err.Error())
	} else {
		fields.Category = c
		categoryOK = true
	}

	if r.StrictAmountSign && amountOK && categoryOK {
		switch {
		case fields.Category == models.CategoryIncome && fields.Amount < 0:
			verr.Add("amount", "income amount must not be negative")
		case fields.Category == models.CategoryExpense && fields.Amount > 0:
			verr.Add("amount", "expense amount must not be positive")
		}
	}

	if err := verr.Err(); err != nil {
		return models.TransactionFields{}, err
	}
	return fields, nil
}

// rawString decodes a JSON string. Missing values, null and other JSON types fail.
func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// rawAmount accepts a JSON number or a numeric string.
func rawAmount(raw json.RawMessage) (models.Amount, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("amount is required")
	}
	text := string(raw)
	if raw[0] == '"' {
		s, ok := rawString(raw)
		if !ok {
			return 0, models.ErrInvalidAmount
		}
		text = s
	}
	return models.ParseAmount(text)
}

// ListQuery is the raw query string of a list request. Empty means absent.
type ListQuery struct {
	Category  string
	DateFrom  string
	DateTo    string
	AmountMin string
	AmountMax string
	Page      string
	Limit     string
}

// ParseList validates a list request into a filter and a page request.
func (r Rules) ParseList(q ListQuery) (query.Filter, calculator.PageRequest, error) {
	var f query.Filter
	verr := NewValidationError(invalidInputMessage)

	if q.Category != "" {
		if c, err := models.ParseCategory(q.Category); err != nil {
			verr.Add("category", err.Error())
		} else {
			f.Category = &c
		}
	}

	f.DateFrom = parseOptionalDate(verr, "date_from", q.DateFrom)
	f.DateTo = parseOptionalDate(verr, "date_to", q.DateTo)
	f.AmountMin = parseOptionalAmount(verr, "amount_min", q.AmountMin)
	f.AmountMax = parseOptionalAmount(verr, "amount_max", q.AmountMax)

	page, pageOK := parseOptionalInt(verr, "page", q.Page, calculator.DefaultPage, calculator.ErrInvalidPage)
	limit, limitOK := parseOptionalInt(verr, "limit", q.Limit, calculator.DefaultLimit, calculator.ErrInvalidLimit)

	maxLimit := r.MaxPageLimit
	if maxLimit < 1 {
		maxLimit = DefaultMaxPageLimit
	}
	if limitOK && limit > maxLimit {
		verr.Add("limit", fmt.Sprintf("limit must be at most %d", maxLimit))
		limitOK = false
	}

	var req calculator.PageRequest
	if pageOK && limitOK {
		var err error
		req, err = calculator.NewPageRequest(page, limit)
		switch {
		case errors.Is(err, calculator.ErrInvalidLimit):
			verr.Add("limit", err.Error())
		case err != nil:
			verr.Add("page", err.Error())
		}
	}

	if err := verr.Err(); err != nil {
		return query.Filter{}, calculator.PageRequest{}, err
	}
	return f, req, nil
}

func parseOptionalDate(verr *ValidationError, field, s string) *models.Date {
	if s == "" {
		return nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		verr.Add(field, err.Error())
		return nil
	}
	return &d
}

func parseOptionalAmount(verr *ValidationError, field, s string) *models.Amount {
	if s == "" {
		return nil
	}
	a, err := models.ParseAmount(s)
	if err != nil {
		verr.Add(field, fmt.Sprintf("%s must be a number", field))
		return nil
	}
	return &a
}

func parseOptionalInt(verr *ValidationError, field, s string, def int, invalid error) (int, bool) {
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		verr.Add(field, invalid.Error())
		return 0, false
	}
	return n, true
}

// MonthQuery is the raw query string of a monthly report request.
type MonthQuery struct {
	Month string
	Year  string
}

// ParseMonth validates a month/year pair. Both are required.
func ParseMonth(q MonthQuery) (calculator.MonthRange, error) {
	if q.Month == "" || q.Year == "" {
		return calculator.MonthRange{}, NewValidationError("month and year are required")
	}

	verr := NewValidationError(invalidInputMessage)
	month, err := strconv.Atoi(q.Month)
	if err != nil || month < 1 || month > 12 {
		verr.Add("month", calculator.ErrInvalidMonth.Error())
	}
	year, err := strconv.Atoi(q.Year)
	if err != nil || year < 1 || year > 9999 {
		verr.Add("year", calculator.ErrInvalidYear.Error())
	}
	if err := verr.Err(); err != nil {
		return calculator.MonthRange{}, err
	}

	return calculator.NewMonthRange(year, month)
}

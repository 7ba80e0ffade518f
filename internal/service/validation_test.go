package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mmynk/fintrack/internal/models"
)

func rawInput(desc, amount, date, category string) TransactionInput {
	raw := func(s string) json.RawMessage {
		if s == "" {
			return nil
		}
		return json.RawMessage(s)
	}
	return TransactionInput{
		Description: raw(desc),
		Amount:      raw(amount),
		Date:        raw(date),
		Category:    raw(category),
	}
}

func fieldNames(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		rules      Rules
		input      TransactionInput
		wantFields []string
		wantAmount models.Amount
	}{
		{
			name:       "valid expense",
			input:      rawInput(`"  Groceries  "`, `-40.5`, `"2024-03-05"`, `"Expense"`),
			wantAmount: -4050,
		},
		{
			name:       "numeric string amount",
			input:      rawInput(`"Salary"`, `"1500.00"`, `"2024-03-01"`, `"Income"`),
			wantAmount: 150000,
		},
		{
			name:       "rounds half away from zero",
			input:      rawInput(`"Coffee"`, `-2.345`, `"2024-03-01"`, `"Expense"`),
			wantAmount: -235,
		},
		{
			name:       "description too short after trim",
			input:      rawInput(`"  ab "`, `10`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"description"},
		},
		{
			name:       "description not a string",
			input:      rawInput(`123`, `10`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"description"},
		},
		{
			name:       "amount not numeric",
			input:      rawInput(`"Salary"`, `"abc"`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"amount"},
		},
		{
			name:       "amount with huge exponent",
			input:      rawInput(`"Salary"`, `1e100000000`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"amount"},
		},
		{
			name:       "amount string with huge negative exponent",
			input:      rawInput(`"Salary"`, `"1e-100000000"`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"amount"},
		},
		{
			name:       "amount boolean",
			input:      rawInput(`"Salary"`, `true`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"amount"},
		},
		{
			name:       "impossible date",
			input:      rawInput(`"Salary"`, `10`, `"2024-02-30"`, `"Income"`),
			wantFields: []string{"date"},
		},
		{
			name:       "unknown category",
			input:      rawInput(`"Salary"`, `10`, `"2024-03-01"`, `"Receita"`),
			wantFields: []string{"category"},
		},
		{
			name:       "everything missing",
			input:      TransactionInput{},
			wantFields: []string{"description", "amount", "date", "category"},
		},
		{
			name:       "negative income allowed by default",
			input:      rawInput(`"Refund"`, `-10`, `"2024-03-01"`, `"Income"`),
			wantAmount: -1000,
		},
		{
			name:       "negative income rejected in strict mode",
			rules:      Rules{StrictAmountSign: true},
			input:      rawInput(`"Refund"`, `-10`, `"2024-03-01"`, `"Income"`),
			wantFields: []string{"amount"},
		},
		{
			name:       "positive expense rejected in strict mode",
			rules:      Rules{StrictAmountSign: true},
			input:      rawInput(`"Dinner"`, `10`, `"2024-03-01"`, `"Expense"`),
			wantFields: []string{"amount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := tt.rules.Validate(tt.input)
			if len(tt.wantFields) > 0 {
				got := fieldNames(err)
				if len(got) != len(tt.wantFields) {
					t.Fatalf("fields = %v, want %v (err %v)", got, tt.wantFields, err)
				}
				for i := range got {
					if got[i] != tt.wantFields[i] {
						t.Errorf("field %d = %s, want %s", i, got[i], tt.wantFields[i])
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fields.Amount != tt.wantAmount {
				t.Errorf("amount = %d, want %d", fields.Amount, tt.wantAmount)
			}
		})
	}
}

func TestValidateTrimsDescription(t *testing.T) {
	fields, err := DefaultRules().Validate(rawInput(`"  Groceries  "`, `1`, `"2024-03-05"`, `"Expense"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.Description != "Groceries" {
		t.Errorf("description = %q", fields.Description)
	}
}

func TestParseList(t *testing.T) {
	rules := Rules{MaxPageLimit: 50}

	t.Run("defaults", func(t *testing.T) {
		f, page, err := rules.ParseList(ListQuery{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Page != 1 || page.Limit != 10 {
			t.Errorf("page = %+v, want 1/10", page)
		}
		if len(f.Clauses()) != 0 {
			t.Errorf("expected no clauses, got %v", f.Clauses())
		}
	})

	t.Run("all filters", func(t *testing.T) {
		f, page, err := rules.ParseList(ListQuery{
			Category:  "Expense",
			DateFrom:  "2024-01-01",
			DateTo:    "2024-01-31",
			AmountMin: "-100",
			AmountMax: "0",
			Page:      "3",
			Limit:     "50",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *f.Category != models.CategoryExpense || f.DateFrom.String() != "2024-01-01" || f.DateTo.String() != "2024-01-31" {
			t.Errorf("filter = %+v", f)
		}
		if *f.AmountMin != -10000 || *f.AmountMax != 0 {
			t.Errorf("amount bounds = %d..%d", *f.AmountMin, *f.AmountMax)
		}
		if page.Page != 3 || page.Limit != 50 {
			t.Errorf("page = %+v", page)
		}
	})

	errorTests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{"non-numeric amount_min", ListQuery{AmountMin: "abc"}, []string{"amount_min"}},
		{"huge exponent amounts", ListQuery{AmountMin: "1e100000000", AmountMax: "1e-100000000"}, []string{"amount_min", "amount_max"}},
		{"bad category", ListQuery{Category: "Receita"}, []string{"category"}},
		{"bad dates", ListQuery{DateFrom: "01/02/2024", DateTo: "2024-13-01"}, []string{"date_from", "date_to"}},
		{"page zero", ListQuery{Page: "0"}, []string{"page"}},
		{"page not a number", ListQuery{Page: "two"}, []string{"page"}},
		{"limit zero", ListQuery{Limit: "0"}, []string{"limit"}},
		{"limit above cap", ListQuery{Limit: "51"}, []string{"limit"}},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rules.ParseList(tt.query)
			got := fieldNames(err)
			if len(got) != len(tt.want) {
				t.Fatalf("fields = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		for _, q := range []MonthQuery{{}, {Month: "3"}, {Year: "2024"}} {
			_, err := ParseMonth(q)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message != "month and year are required" {
				t.Errorf("ParseMonth(%+v) = %v", q, err)
			}
		}
	})

	t.Run("out of range", func(t *testing.T) {
		tests := []struct {
			query MonthQuery
			field string
		}{
			{MonthQuery{Month: "13", Year: "2024"}, "month"},
			{MonthQuery{Month: "0", Year: "2024"}, "month"},
			{MonthQuery{Month: "March", Year: "2024"}, "month"},
			{MonthQuery{Month: "3", Year: "0"}, "year"},
			{MonthQuery{Month: "3", Year: "10000"}, "year"},
		}
		for _, tt := range tests {
			got := fieldNames(func() error { _, err := ParseMonth(tt.query); return err }())
			if len(got) != 1 || got[0] != tt.field {
				t.Errorf("ParseMonth(%+v) fields = %v, want [%s]", tt.query, got, tt.field)
			}
		}
	})

	t.Run("valid", func(t *testing.T) {
		r, err := ParseMonth(MonthQuery{Month: "2", Year: "2024"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.First.String() != "2024-02-01" || r.Last.String() != "2024-02-29" {
			t.Errorf("range = %s..%s", r.First, r.Last)
		}
	})
}

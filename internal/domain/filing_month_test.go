package domain

import (
	"errors"
	"testing"
)

func TestFilingMonth_BSRange(t *testing.T) {
	m, err := NewFilingMonth(2080, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r, err := m.BSRange()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := r.String(); got != "2080-02-01 - 2080-02-32" {
		t.Errorf("expected 2080-02-01 - 2080-02-32, got %s", got)
	}
}

func TestFilingMonth_GregorianRange(t *testing.T) {
	m, err := NewFilingMonth(2080, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	p, err := m.GregorianRange()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := p.String(); got != "2023-05-15 - 2023-06-15" {
		t.Errorf("expected 2023-05-15 - 2023-06-15, got %s", got)
	}
}

func TestFilingMonth_FiscalYear(t *testing.T) {
	tests := []struct {
		year, month int
		want        string
	}{
		{2080, 2, "2079/80"},
		{2080, 3, "2079/80"},
		{2080, 4, "2080/81"},
		{2080, 12, "2080/81"},
		{2079, 1, "2078/79"},
	}
	for _, tt := range tests {
		m, err := NewFilingMonth(tt.year, tt.month)
		if err != nil {
			t.Fatalf("NewFilingMonth(%d, %d): %v", tt.year, tt.month, err)
		}
		if got := m.FiscalYear(); got != tt.want {
			t.Errorf("FiscalYear(%d, %d) = %s, want %s", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFilingMonth_MonthName(t *testing.T) {
	m, err := NewFilingMonth(2080, 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := m.MonthName(); got != "Kartik" {
		t.Errorf("expected Kartik, got %s", got)
	}
}

func TestNewFilingMonth_Invalid(t *testing.T) {
	if _, err := NewFilingMonth(2080, 13); !errors.Is(err, ErrInvalidFilingMonth) {
		t.Errorf("expected ErrInvalidFilingMonth, got %v", err)
	}
	if _, err := NewFilingMonth(1999, 1); err == nil {
		t.Error("expected error for year outside calendar table")
	}
}

func TestParseFilingMonth(t *testing.T) {
	m, err := ParseFilingMonth("2080", "12")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Year != 2080 || m.Month != 12 {
		t.Errorf("expected 2080-12, got %d-%d", m.Year, m.Month)
	}

	// Non-integer inputs are a contract violation and fail before any I/O.
	if _, err := ParseFilingMonth("2080", "twelve"); !errors.Is(err, ErrInvalidFilingMonth) {
		t.Errorf("expected ErrInvalidFilingMonth, got %v", err)
	}
	if _, err := ParseFilingMonth("20.5", "1"); !errors.Is(err, ErrInvalidFilingMonth) {
		t.Errorf("expected ErrInvalidFilingMonth, got %v", err)
	}
}

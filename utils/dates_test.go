package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-06-02 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.June || d.Day() != 2 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.Hour() != 0 || d.Location() != time.UTC {
		t.Fatalf("dates must be UTC midnight, got %v", d)
	}

	if _, err := ParseDate("02.06.2024"); err == nil {
		t.Fatal("expected error for non-ISO input")
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	got := ParseDateDefault("2024-07-04", def)
	if FormatDate(got) != "2024-07-04" {
		t.Fatalf("expected parsed value, got %v", got)
	}

	got = ParseDateDefault("bogus", def)
	if FormatDate(got) != "2024-06-01" || got.Hour() != 0 {
		t.Fatalf("expected truncated default, got %v", got)
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 6, 2, 23, 59, 59, 0, time.UTC)
	if FormatDate(DateOf(in)) != "2024-06-02" || DateOf(in).Hour() != 0 {
		t.Fatalf("unexpected truncation %v", DateOf(in))
	}
}

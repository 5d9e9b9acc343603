package util

import (
	"testing"
	"time"
)

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2025, 8, 12, 23, 30, 0, 0, loc)
	got := Day(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("unexpected day %v", got)
	}
	if got.Day() != 12 {
		t.Fatalf("expected UTC date 12, got %d", got.Day())
	}
}

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2025-08-12")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDay(got) != "2025-08-12" {
		t.Fatalf("round trip failed: %v", got)
	}
}

func TestParseDayDefault(t *testing.T) {
	def := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseDayDefault("", def); !got.Equal(def) {
		t.Fatalf("expected default")
	}
	if got := ParseDayDefault("not-a-date", def); !got.Equal(def) {
		t.Fatalf("expected default on invalid input")
	}
}

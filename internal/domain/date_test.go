package domain

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	d, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != (Date{Year: 2024, Month: time.January, Day: 1}) {
		t.Errorf("Unexpected date %+v", d)
	}
	if d.String() != "2024-01-01" {
		t.Errorf("Expected 2024-01-01, got %s", d.String())
	}

	for _, bad := range []string{"", "2024-1-1", "2024-02-30", "01/01/2024", "2024-01-01T00:00:00Z"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseDate(%q): expected ErrInvalidFormat, got %v", bad, err)
		}
	}
}

func TestDateCompareAndSort(t *testing.T) {
	t.Parallel() // Enable parallel execution

	dates := []Date{
		MustParseDate("2024-03-01"),
		MustParseDate("2023-12-31"),
		MustParseDate("2024-02-29"),
		MustParseDate("2024-03-10"),
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	want := []string{"2024-03-10", "2024-03-01", "2024-02-29", "2023-12-31"}
	for i, d := range dates {
		if d.String() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], d)
		}
	}

	if MustParseDate("2024-01-01").Compare(MustParseDate("2024-01-01")) != 0 {
		t.Error("Expected equal dates to compare as 0")
	}
}

func TestDateAddDaysAndDisplay(t *testing.T) {
	t.Parallel() // Enable parallel execution

	d := MustParseDate("2024-03-01")
	if got := d.AddDays(-1).String(); got != "2024-02-29" {
		t.Errorf("Expected leap day, got %s", got)
	}
	if got := d.Display(); got != "March 1, 2024" {
		t.Errorf("Expected March 1, 2024, got %s", got)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	instant := time.Date(2024, time.January, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	if got := DateOf(instant).String(); got != "2024-01-01" {
		t.Errorf("UTC: expected 2024-01-01, got %s", got)
	}
	if got := DateOf(instant.In(tokyo)).String(); got != "2024-01-02" {
		t.Errorf("JST: expected 2024-01-02, got %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	t.Parallel() // Enable parallel execution

	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: MustParseDate("2024-07-04")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != `{"date":"2024-07-04"}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"date":"not-a-date"}`), &w); err == nil {
		t.Error("Expected error decoding malformed date")
	}
}

func TestDateScan(t *testing.T) {
	t.Parallel() // Enable parallel execution

	var d Date
	if err := d.Scan(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2024-05-06" {
		t.Errorf("time.Time scan: got %s, %v", d, err)
	}
	if err := d.Scan("2024-05-07"); err != nil || d.String() != "2024-05-07" {
		t.Errorf("string scan: got %s, %v", d, err)
	}
	if err := d.Scan([]byte("2024-05-08")); err != nil || d.String() != "2024-05-08" {
		t.Errorf("[]byte scan: got %s, %v", d, err)
	}
	if err := d.Scan(nil); err == nil {
		t.Error("Expected error scanning NULL")
	}
	if err := d.Scan(42); err == nil {
		t.Error("Expected error scanning int")
	}
}

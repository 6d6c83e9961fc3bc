package importer

import (
	"testing"
	"time"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  string
		valid bool
	}{
		{"iso unchanged", "2025-10-10", "2025-10-10", true},
		{"iso padded", "  2024-02-29 ", "2024-02-29", true},
		{"iso not a calendar day", "2024-13-01", "", false},
		{"day first", "15/03/2024", "2024-03-15", true},
		{"ambiguous reads day first", "05/03/2024", "2024-03-05", true},
		{"month first retry", "03/15/2024", "2024-03-15", true},
		{"neither reading valid", "31/02/2024", "", false},
		{"textual", "Jan 2, 2024", "2024-01-02", true},
		{"timestamp", "2024-06-01T08:30:00Z", "2024-06-01", true},
		{"time only", "10:30", "", false},
		{"empty", "", "", false},
		{"garbage", "next tuesday", "", false},
		{"digits as text", "45940", "", false},
		{"serial", float64(45940), "2025-10-10", true},
		{"serial with time of day", 45940.75, "2025-10-10", true},
		{"serial int", 45940, "2025-10-10", true},
		{"negative serial", float64(-1), "", false},
		{"time value", time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), "2025-01-31", true},
		{"zero time", time.Time{}, "", false},
		{"nil", nil, "", false},
		{"bool", true, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeDate(tc.in)
			assert.Equal(t, tc.valid, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeDate_ISOIdempotent(t *testing.T) {
	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		s := day.AddDate(0, 0, i).Format("2006-01-02")
		got, ok := NormalizeDate(s)
		if assert.True(t, ok, s) {
			assert.Equal(t, s, got)
		}
	}
}

func TestNormalizeDate_SerialMatchesEpoch(t *testing.T) {
	target := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	serial := target.Sub(time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)).Hours() / 24

	assert.Equal(t, float64(45940), serial)
	got, ok := NormalizeDate(serial)
	assert.True(t, ok)
	assert.Equal(t, "2025-10-10", got)
}

func TestNormalizePriority(t *testing.T) {
	for _, in := range []string{"URGENT", "Rush", "CRITICAL", "hot", "High", " high "} {
		assert.Equal(t, gormModels.PriorityHigh, NormalizePriority(in), in)
	}
	for _, in := range []string{"", "bogus", "normal", "medium"} {
		assert.Equal(t, gormModels.PriorityNormal, NormalizePriority(in), in)
	}
	assert.Equal(t, gormModels.PriorityLow, NormalizePriority("LOW"))
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  int
		valid bool
	}{
		{"thousands", "1,234", 1234, true},
		{"padded", "  12 ", 12, true},
		{"inner space", "1 200", 1200, true},
		{"zero", "0", 0, true},
		{"decimal truncates", "12.7", 12, true},
		{"float cell", float64(4), 4, true},
		{"int", 7, 7, true},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"text", "abc", 0, false},
		{"negative", "-3", 0, false},
		{"negative cell", float64(-2), 0, false},
		{"nil", nil, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeQuantity(tc.in)
			assert.Equal(t, tc.valid, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "12", cellString(float64(12)))
	assert.Equal(t, "12.5", cellString(12.5))
	assert.Equal(t, "abc", cellString("  abc "))
	assert.Equal(t, "2024-01-02", cellString(time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", cellString(nil))
}

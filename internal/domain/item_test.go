package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2024, 6, 10, 15, 45, 0, 0, time.UTC)

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "same day", date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), want: 0},
		{name: "same day late evening", date: time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC), want: 0},
		{name: "two days ahead", date: time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), want: 2},
		{name: "two days past", date: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), want: -2},
		{name: "across month boundary", date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), want: 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.date, today))
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want ItemStatus
	}{
		{name: "past date is expired", date: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), want: StatusExpired},
		{name: "yesterday is expired", date: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), want: StatusExpired},
		{name: "today is use-soon", date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), want: StatusUseSoon},
		{name: "window edge is use-soon", date: time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), want: StatusUseSoon},
		{name: "past window is safe", date: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), want: StatusSafe},
		{name: "far future is safe", date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), want: StatusSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.date, today))
		})
	}
}

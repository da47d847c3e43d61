package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Overlaps(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	b := Booking{StartTime: base, EndTime: base.Add(time.Hour)} // [10:00, 11:00]

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical window", base, base.Add(time.Hour), true},
		{"contained", base.Add(15 * time.Minute), base.Add(45 * time.Minute), true},
		{"straddles start", base.Add(-time.Hour), base.Add(30 * time.Minute), true},
		{"straddles end", base.Add(30 * time.Minute), base.Add(2 * time.Hour), true},
		{"covers fully", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		// Boundaries are inclusive: back-to-back windows still collide.
		{"adjacent after", base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"adjacent before", base.Add(-time.Hour), base, true},
		{"clear before", base.Add(-2 * time.Hour), base.Add(-time.Hour).Add(-time.Minute), false},
		{"clear after", base.Add(time.Hour).Add(time.Minute), base.Add(2 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Overlaps(tc.start, tc.end))
		})
	}
}

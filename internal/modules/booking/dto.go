package booking

import (
	"strconv"
	"time"

	"trainbook/internal/pkg/validator"
)

// createBookingForm mirrors the wire format: form fields as sent by the
// booking page and by header-authenticated bots.
type createBookingForm struct {
	RoomID   string `form:"room_id"`
	Start    string `form:"datetime_start"`
	End      string `form:"datetime_end"`
	Scenario string `form:"scenario"`
	Pax      string `form:"pax"`
}

// Intent is the validated booking request constructed once at the boundary.
// Everything past the handler works with this, never with raw form data.
type Intent struct {
	RoomID   int64     `validate:"required,gt=0"`
	Start    time.Time `validate:"required"`
	End      time.Time `validate:"required"`
	Scenario string    `validate:"required"`
	Pax      int       `validate:"required,gt=0"`
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

func parseFormTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// intent validates and converts the raw form. Missing or malformed fields
// fail here, before any store or notification side effect; the returned
// map names the offending fields for the error response.
func (f createBookingForm) intent() (Intent, map[string]string, error) {
	var in Intent

	if id, err := strconv.ParseInt(f.RoomID, 10, 64); err == nil {
		in.RoomID = id
	}
	if t, ok := parseFormTime(f.Start); ok {
		in.Start = t
	}
	if t, ok := parseFormTime(f.End); ok {
		in.End = t
	}
	in.Scenario = f.Scenario
	if n, err := strconv.Atoi(f.Pax); err == nil {
		in.Pax = n
	}

	if errs := validator.Validate(in); errs != nil {
		return Intent{}, errs, ErrValidation
	}
	if !in.Start.Before(in.End) {
		return Intent{}, map[string]string{"End": "gtfield"}, ErrValidation
	}
	return in, nil, nil
}

package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Create-event form field keys.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldDate            = "date"
	FieldLocation        = "location"
	FieldMaxParticipants = "maxParticipants"
)

// DateLayouts are the accepted input formats for the event date, tried in order.
// Layouts without a zone are read in local time.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// EventForm is the create-event draft exactly as typed.
type EventForm struct {
	Title           string
	Description     string
	Date            string
	Location        string
	MaxParticipants string
}

// ValidationErrors maps a form field key to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ParseDate parses s using DateLayouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate checks every field independently and collects all violations.
// now is the validation instant; the date must be strictly after it.
// Returns nil when the form is valid.
func (f EventForm) Validate(now time.Time) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(f.Title) == "" {
		errs[FieldTitle] = "Title is required"
	}

	if strings.TrimSpace(f.Date) == "" {
		errs[FieldDate] = "Date is required"
	} else if t, ok := ParseDate(f.Date); !ok {
		errs[FieldDate] = "Date must look like 2006-01-02 15:04"
	} else if !t.After(now) {
		errs[FieldDate] = "Date must be in the future"
	}

	if strings.TrimSpace(f.Location) == "" {
		errs[FieldLocation] = "Location is required"
	}

	if mp := strings.TrimSpace(f.MaxParticipants); mp == "" {
		errs[FieldMaxParticipants] = "Max Participants is required"
	} else if n, err := strconv.Atoi(mp); err != nil || n <= 0 {
		errs[FieldMaxParticipants] = "Max Participants must be a positive number"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

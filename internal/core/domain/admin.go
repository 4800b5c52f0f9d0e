package domain

import (
	"fmt"
	"time"
)

// ExtraChoiceSlots is the number of blank choice rows offered by the admin forms.
const ExtraChoiceSlots = 3

// PubDateFilter narrows the admin question list by publication date.
type PubDateFilter string

const (
	PubDateAny       PubDateFilter = "any"
	PubDateToday     PubDateFilter = "today"
	PubDatePast7Days PubDateFilter = "past_7_days"
	PubDateThisMonth PubDateFilter = "this_month"
	PubDateThisYear  PubDateFilter = "this_year"
)

func ParsePubDateFilter(s string) (PubDateFilter, error) {
	switch f := PubDateFilter(s); f {
	case "":
		return PubDateAny, nil
	case PubDateAny, PubDateToday, PubDatePast7Days, PubDateThisMonth, PubDateThisYear:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPubDateFilter, s)
	}
}

// Range returns the half-open interval [from, to) matched by the filter,
// computed in now's location. ok is false for PubDateAny.
func (f PubDateFilter) Range(now time.Time) (from, to time.Time, ok bool) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	switch f {
	case PubDateToday:
		return today, tomorrow, true
	case PubDatePast7Days:
		return today.AddDate(0, 0, -7), tomorrow, true
	case PubDateThisMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), time.Date(y, m+1, 1, 0, 0, 0, 0, loc), true
	case PubDateThisYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc), time.Date(y+1, 1, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// AdminQuestionRow is one line of the admin change list.
type AdminQuestionRow struct {
	Question
	WasPublishedRecently bool `json:"was_published_recently"`
}

// AdminClaims identifies an authenticated administrator.
type AdminClaims struct {
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

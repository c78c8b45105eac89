package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by the catalog and the API.
const DateLayout = "2006-01-02"

// MaxFeedSpan is the widest start-to-end span the catalog feed accepts.
const MaxFeedSpan = 7 * 24 * time.Hour

// DateRange is an inclusive range of UTC calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartDate formats the range start as YYYY-MM-DD.
func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate formats the range end as YYYY-MM-DD.
func (r DateRange) EndDate() string { return r.End.Format(DateLayout) }

// ParseFeedRange validates feed query dates. An empty start means today and an
// empty end means start plus seven days. The end must not precede the start
// and the span must not exceed MaxFeedSpan.
func ParseFeedRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error

	if strings.TrimSpace(start) == "" {
		r.Start = Today()
	} else if r.Start, err = parseDate("start_date", start); err != nil {
		return DateRange{}, err
	}

	if strings.TrimSpace(end) == "" {
		r.End = r.Start.Add(MaxFeedSpan)
	} else if r.End, err = parseDate("end_date", end); err != nil {
		return DateRange{}, err
	}

	if r.End.Before(r.Start) {
		return DateRange{}, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	if r.End.Sub(r.Start) > MaxFeedSpan {
		return DateRange{}, &ValidationError{Field: "end_date", Reason: "range must not exceed 7 days"}
	}
	return r, nil
}

// TrailingWeek is the window from seven days ago through today.
func TrailingWeek() DateRange {
	today := Today()
	return DateRange{Start: today.Add(-MaxFeedSpan), End: today}
}

// UpcomingWeek is the window from today through seven days ahead.
func UpcomingWeek() DateRange {
	today := Today()
	return DateRange{Start: today, End: today.Add(MaxFeedSpan)}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

package report

import (
	"fmt"
	"time"

	"github.com/secureshop/backend/internal/domain/shared"
)

// RangeKind selects a reporting window
type RangeKind string

const (
	RangeToday  RangeKind = "today"
	RangeWeek   RangeKind = "week"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeCustom RangeKind = "custom"
)

const dateLayout = "2006-01-02"

// Period is a half-open time window [From, To)
type Period struct {
	Kind  RangeKind
	From  time.Time
	To    time.Time
	Label string
}

// ResolvePeriod turns a range keyword into concrete bounds in loc.
//   - today: midnight to now
//   - week: the last 7 days
//   - month: first day of the month to now
//   - year: first day of the year to now
//   - custom: start and end dates (yyyy-MM-dd), end inclusive
//
// An empty kind means month.
func ResolvePeriod(kind RangeKind, start, end string, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch kind {
	case RangeToday:
		return Period{Kind: kind, From: midnight, To: now, Label: "hom-nay"}, nil
	case RangeWeek:
		return Period{Kind: kind, From: now.Add(-7 * 24 * time.Hour), To: now, Label: "tuan-nay"}, nil
	case RangeMonth, "":
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Period{Kind: RangeMonth, From: from, To: now, Label: "thang-nay"}, nil
	case RangeYear:
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return Period{Kind: kind, From: from, To: now, Label: "nam-nay"}, nil
	case RangeCustom:
		from, err := time.ParseInLocation(dateLayout, start, loc)
		if err != nil {
			return Period{}, shared.ErrInvalidInput.WithMessage("start must be a yyyy-MM-dd date")
		}
		to, err := time.ParseInLocation(dateLayout, end, loc)
		if err != nil {
			return Period{}, shared.ErrInvalidInput.WithMessage("end must be a yyyy-MM-dd date")
		}
		if to.Before(from) {
			return Period{}, shared.ErrInvalidInput.WithMessage("end must not be before start")
		}
		return Period{
			Kind:  kind,
			From:  from,
			To:    to.AddDate(0, 0, 1),
			Label: fmt.Sprintf("%s_%s", start, end),
		}, nil
	}
	return Period{}, shared.ErrInvalidInput.WithMessage("range must be today, week, month, year or custom")
}

// FileName is the export file name for the period
func (p Period) FileName() string {
	return "bao-cao-" + p.Label + ".xlsx"
}

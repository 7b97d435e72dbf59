// Package stats derives period-bucketed summaries from the session
// history. It is a pure read model: every call rescans the full list
// and nothing is cached or persisted.
package stats

import (
	"strconv"
	"time"

	"focustimer/internal/model"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// PageSize is the number of buckets shown per chart page.
const PageSize = 6

// Bucket is one fixed time slot with its focus-session rollup.
type Bucket struct {
	Label    string
	Start    time.Time
	End      time.Time
	Sessions int
	Minutes  int
}

// Rollup are the headline numbers across the whole history and the
// selected period. Only focus sessions count.
type Rollup struct {
	TotalSessions  int
	TotalMinutes   int
	TodaySessions  int
	TodayMinutes   int
	PeriodSessions int
	PeriodMinutes  int
	AveragePerDay  int
}

func ValidPeriod(p Period) bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth || p == PeriodAll
}

// Buckets slices the period around now into its fixed slots and counts
// focus sessions into them by completion time.
func Buckets(sessions []model.Session, period Period, now time.Time) []Bucket {
	var buckets []Bucket

	switch period {
	case PeriodDay:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for hour := 0; hour < 24; hour++ {
			start := dayStart.Add(time.Duration(hour) * time.Hour)
			buckets = append(buckets, Bucket{
				Label: strconv.Itoa(hour) + "h",
				Start: start,
				End:   start.Add(time.Hour),
			})
		}
	case PeriodWeek:
		monday := startOfWeek(now)
		for day := 0; day < 7; day++ {
			start := monday.AddDate(0, 0, day)
			buckets = append(buckets, Bucket{
				Label: start.Format("Mon"),
				Start: start,
				End:   start.AddDate(0, 0, 1),
			})
		}
	case PeriodMonth:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for day := 0; day < 30; day++ {
			start := dayStart.AddDate(0, 0, day-29)
			buckets = append(buckets, Bucket{
				Label: strconv.Itoa(start.Day()),
				Start: start,
				End:   start.AddDate(0, 0, 1),
			})
		}
	case PeriodAll:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for month := 0; month < 12; month++ {
			start := monthStart.AddDate(0, month-11, 0)
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan"),
				Start: start,
				End:   start.AddDate(0, 1, 0),
			})
		}
	}

	for _, session := range sessions {
		if session.Type != model.SessionTypeFocus {
			continue
		}
		completed := time.UnixMilli(session.CompletedAt)
		for i := range buckets {
			if !completed.Before(buckets[i].Start) && completed.Before(buckets[i].End) {
				buckets[i].Sessions++
				buckets[i].Minutes += session.Duration
				break
			}
		}
	}

	return buckets
}

// Summarize computes the rollup for a period ending now.
func Summarize(sessions []model.Session, period Period, now time.Time) Rollup {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	periodStart := periodStart(sessions, period, now, todayStart)

	var r Rollup
	var oldest int64
	for _, session := range sessions {
		if session.Type != model.SessionTypeFocus {
			continue
		}
		r.TotalSessions++
		r.TotalMinutes += session.Duration
		if oldest == 0 || session.CompletedAt < oldest {
			oldest = session.CompletedAt
		}

		completed := time.UnixMilli(session.CompletedAt)
		if !completed.Before(todayStart) {
			r.TodaySessions++
			r.TodayMinutes += session.Duration
		}
		if !completed.Before(periodStart) {
			r.PeriodSessions++
			r.PeriodMinutes += session.Duration
		}
	}

	if r.PeriodSessions > 0 {
		days := daysInPeriod(period, now, oldest)
		r.AveragePerDay = int(float64(r.PeriodMinutes)/float64(days) + 0.5)
	}
	return r
}

// TotalPages reports how many chart pages the bucket list spans.
func TotalPages(buckets []Bucket) int {
	if len(buckets) == 0 {
		return 1
	}
	return (len(buckets) + PageSize - 1) / PageSize
}

// Page returns one fixed-size window into the bucket list. Out-of-range
// page indexes are clamped.
func Page(buckets []Bucket, page int) []Bucket {
	last := TotalPages(buckets) - 1
	if page < 0 {
		page = 0
	}
	if page > last {
		page = last
	}
	start := page * PageSize
	end := start + PageSize
	if end > len(buckets) {
		end = len(buckets)
	}
	return buckets[start:end]
}

func periodStart(sessions []model.Session, period Period, now, todayStart time.Time) time.Time {
	switch period {
	case PeriodDay:
		return todayStart
	case PeriodWeek:
		// Same window as the week buckets, so the chart bars and the
		// period total agree.
		return startOfWeek(now)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.UnixMilli(0)
	}
}

func daysInPeriod(period Period, now time.Time, oldestMilli int64) int {
	switch period {
	case PeriodDay:
		return 1
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		if oldestMilli == 0 {
			return 1
		}
		days := int(now.Sub(time.UnixMilli(oldestMilli)).Hours()/24) + 1
		if days < 1 {
			return 1
		}
		return days
	}
}

// startOfWeek returns midnight of the Monday of now's week.
func startOfWeek(now time.Time) time.Time {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(dayStart.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return dayStart.AddDate(0, 0, 1-weekday)
}

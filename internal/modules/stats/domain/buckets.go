package domain

import (
	"sort"
	"time"
)

type Bucket struct {
	Label   string
	Start   time.Time
	End     time.Time
	Minutes int
}

type TypeShare struct {
	Type    string
	Minutes int
}

// AgendaEntry is the slice of an agenda item the ledger reads.
type AgendaEntry struct {
	Type        string
	IsCompleted bool
}

type ScheduledStudy struct {
	Total     int
	Completed int
	Ratio     float64
}

const TypeStudy = "study"

// Weekly returns seven day buckets for the week containing now, starting on
// Sunday.
func Weekly(records []SessionRecord, now time.Time) []Bucket {
	today := Day(now)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	buckets := make([]Bucket, 7)
	for i := range buckets {
		from := start.AddDate(0, 0, i)
		buckets[i] = Bucket{Label: from.Format("Mon"), Start: from, End: from.AddDate(0, 0, 1)}
	}
	fill(buckets, records, now.Location())
	return buckets
}

// Monthly returns six calendar month buckets ending with the month of now.
func Monthly(records []SessionRecord, now time.Time) []Bucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]Bucket, 6)
	for i := range buckets {
		from := first.AddDate(0, i-5, 0)
		buckets[i] = Bucket{Label: from.Format("Jan"), Start: from, End: from.AddDate(0, 1, 0)}
	}
	fill(buckets, records, now.Location())
	return buckets
}

func fill(buckets []Bucket, records []SessionRecord, loc *time.Location) {
	for _, r := range records {
		if !r.Completed {
			continue
		}
		at := r.StartTime.In(loc)
		for i := range buckets {
			if !at.Before(buckets[i].Start) && at.Before(buckets[i].End) {
				buckets[i].Minutes += r.DurationMinutes
				break
			}
		}
	}
}

// TypeDistribution sums completed minutes per type, largest first.
func TypeDistribution(records []SessionRecord) []TypeShare {
	totals := map[string]int{}
	for _, r := range records {
		if r.Completed {
			totals[r.Type] += r.DurationMinutes
		}
	}
	out := make([]TypeShare, 0, len(totals))
	for t, m := range totals {
		out = append(out, TypeShare{Type: t, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func Scheduled(entries []AgendaEntry) ScheduledStudy {
	out := ScheduledStudy{}
	for _, e := range entries {
		if e.Type != TypeStudy {
			continue
		}
		out.Total++
		if e.IsCompleted {
			out.Completed++
		}
	}
	if out.Total > 0 {
		out.Ratio = float64(out.Completed) / float64(out.Total)
	}
	return out
}

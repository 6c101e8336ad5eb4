package usecase

import (
	"time"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

// HeatmapDays is how many days before today the heatmap reaches back.
const HeatmapDays = 365

// WindowStart returns the first instant of the trailing window that ends on
// today's UTC calendar day: midnight UTC, HeatmapDays days earlier.
func WindowStart(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -HeatmapDays)
}

// BuildHeatmap expands the histogram into one entry per UTC day from
// WindowStart(now) through now's day, ascending.
func BuildHeatmap(daily domain.DailyCommits, now time.Time, generatedAt string) domain.Heatmap {
	start := WindowStart(now)
	data := make([]domain.HeatmapEntry, 0, HeatmapDays+1)
	for i := 0; i <= HeatmapDays; i++ {
		day := start.AddDate(0, 0, i).Format(domain.DateLayout)
		count := daily[day]
		data = append(data, domain.HeatmapEntry{
			Date:  day,
			Count: count,
			Level: CommitLevel(count),
		})
	}
	return domain.Heatmap{
		Data:         data,
		TotalCommits: daily.Total(),
		GeneratedAt:  generatedAt,
	}
}

// CommitLevel buckets a day's commit count into an intensity level 0-4.
func CommitLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count < 3:
		return 1
	case count < 6:
		return 2
	case count < 10:
		return 3
	default:
		return 4
	}
}

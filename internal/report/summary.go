package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

// topLanguages is how many languages the console summary lists.
const topLanguages = 10

// PrintSummary renders the run's counters and its largest languages as tables.
func PrintSummary(w io.Writer, result *domain.Result) {
	totals := tablewriter.NewWriter(w)
	totals.SetHeader([]string{"Metric", "Value"})
	s := result.Report.Stats
	totals.AppendBulk([][]string{
		{"Total commits", strconv.Itoa(s.TotalCommits)},
		{"Last year commits", strconv.Itoa(s.LastYearCommits)},
		{"Repositories", strconv.Itoa(s.TotalRepos)},
		{"Stars", strconv.Itoa(s.TotalStars)},
		{"Forks", strconv.Itoa(s.TotalForks)},
		{"Active days", strconv.Itoa(result.Commits.ActiveDays)},
		{"Max commits per day", strconv.Itoa(result.Commits.MaxCommitsPerDay)},
		{"Avg commits per active day", strconv.FormatFloat(result.Commits.AvgCommitsPerActiveDay, 'f', 2, 64)},
	})
	totals.Render()

	if len(result.Languages) == 0 {
		return
	}
	names := make([]string, 0, len(result.Languages))
	for name := range result.Languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := result.Languages[names[i]], result.Languages[names[j]]
		if a.Bytes != b.Bytes {
			return a.Bytes > b.Bytes
		}
		return names[i] < names[j]
	})
	if len(names) > topLanguages {
		names = names[:topLanguages]
	}

	languages := tablewriter.NewWriter(w)
	languages.SetHeader([]string{"Language", "Bytes", "Share"})
	for _, name := range names {
		share := result.Languages[name]
		languages.Append([]string{name, strconv.Itoa(share.Bytes), share.Percentage + "%"})
	}
	languages.Render()
}

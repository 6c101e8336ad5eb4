// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// DateLayout is the layout of every calendar-day key (UTC).
const DateLayout = "2006-01-02"

// User is the profile summary of the target account.
type User struct {
	Login       string `json:"-"`
	Name        string `json:"name"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Repository is a repository visible to the authenticated identity.
type Repository struct {
	Owner      string
	Name       string
	Fork       bool
	Stars      int
	Forks      int
	Language   string
	Visibility string
}

// FullName returns "owner/name".
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// DailyCommits maps a UTC calendar day (YYYY-MM-DD) to a commit count.
type DailyCommits map[string]int

// DayKey normalizes t to its UTC calendar day key.
func DayKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Merge returns a new histogram holding the per-day sum of d and other.
// Neither input is modified.
func (d DailyCommits) Merge(other DailyCommits) DailyCommits {
	merged := make(DailyCommits, len(d)+len(other))
	for day, count := range d {
		merged[day] += count
	}
	for day, count := range other {
		merged[day] += count
	}
	return merged
}

// Total returns the sum of all counts.
func (d DailyCommits) Total() int {
	total := 0
	for _, count := range d {
		total += count
	}
	return total
}

// LanguageBytes maps a language name to a byte count.
type LanguageBytes map[string]int

// Merge returns a new map holding the per-language sum of l and other.
func (l LanguageBytes) Merge(other LanguageBytes) LanguageBytes {
	merged := make(LanguageBytes, len(l)+len(other))
	for lang, bytes := range l {
		merged[lang] += bytes
	}
	for lang, bytes := range other {
		merged[lang] += bytes
	}
	return merged
}

// LanguageShare is one language's accumulated size and its share of all bytes.
// Percentage is formatted with two decimals, e.g. "42.17".
type LanguageShare struct {
	Bytes      int    `json:"bytes"`
	Percentage string `json:"percentage"`
}

// RepoCommitStats holds the commit counts collected for a single repository.
type RepoCommitStats struct {
	TotalCommits    int
	LastYearCommits int
	DailyCommits    DailyCommits
}

// CommitStats is the running aggregate over all non-fork repositories.
type CommitStats struct {
	TotalCommits    int
	LastYearCommits int
	DailyCommits    DailyCommits

	// Derived from DailyCommits once aggregation is done.
	ActiveDays             int
	MaxCommitsPerDay       int
	AvgCommitsPerActiveDay float64
	CommitFrequency        float64
}

// Merge folds one repository's result into the aggregate and returns the new aggregate.
func (s CommitStats) Merge(repo RepoCommitStats) CommitStats {
	return CommitStats{
		TotalCommits:    s.TotalCommits + repo.TotalCommits,
		LastYearCommits: s.LastYearCommits + repo.LastYearCommits,
		DailyCommits:    s.DailyCommits.Merge(repo.DailyCommits),
	}
}

// HeatmapEntry is one calendar day of the heatmap.
type HeatmapEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Heatmap is the document written to commit-heatmap.json.
type Heatmap struct {
	Data         []HeatmapEntry `json:"data"`
	TotalCommits int            `json:"total_commits"`
	GeneratedAt  string         `json:"generated_at"`
}

// Summary holds the aggregate counters of the report.
type Summary struct {
	TotalCommits    int `json:"total_commits"`
	TotalRepos      int `json:"total_repos"`
	TotalStars      int `json:"total_stars"`
	TotalForks      int `json:"total_forks"`
	LastYearCommits int `json:"last_year_commits"`
}

// StatsReport is the document written to github-stats.json.
type StatsReport struct {
	User        User    `json:"user"`
	Stats       Summary `json:"stats"`
	LastUpdated string  `json:"last_updated"`
	// LastUpdatedLocal keeps the historical key name; the zone is configurable.
	LastUpdatedLocal string `json:"last_updated_beijing"`
}

// Result bundles everything produced by one run.
type Result struct {
	Report    *StatsReport
	Heatmap   Heatmap
	Commits   CommitStats
	Languages map[string]LanguageShare
}

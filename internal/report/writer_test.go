package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

func sampleResult() *domain.Result {
	return &domain.Result{
		Report: &domain.StatsReport{
			User:             domain.User{Login: "octocat", Name: "The Octocat & Co", PublicRepos: 8, Followers: 20, Following: 1},
			Stats:            domain.Summary{TotalCommits: 42, TotalRepos: 3, TotalStars: 7, TotalForks: 5, LastYearCommits: 5},
			LastUpdated:      "2024-06-01",
			LastUpdatedLocal: "2024/06/01",
		},
		Heatmap: domain.Heatmap{
			Data: []domain.HeatmapEntry{
				{Date: "2024-05-31", Count: 3, Level: 2},
				{Date: "2024-06-01", Count: 2, Level: 1},
			},
			TotalCommits: 5,
			GeneratedAt:  "2024-06-01",
		},
		Commits: domain.CommitStats{ActiveDays: 2, MaxCommitsPerDay: 3, AvgCommitsPerActiveDay: 2.5},
		Languages: map[string]domain.LanguageShare{
			"Go":    {Bytes: 300, Percentage: "75.00"},
			"Shell": {Bytes: 100, Percentage: "25.00"},
		},
	}
}

func TestTimestamps(t *testing.T) {
	cst := time.FixedZone("CST", 8*60*60)
	date, local := Timestamps(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), cst)
	assert.Equal(t, "2024-01-02", date)
	assert.Equal(t, "2024/01/02", local)
}

func TestWriter_Write(t *testing.T) {
	t.Run("writes both documents with the expected keys", func(t *testing.T) {
		dir := t.TempDir()
		w := &Writer{Dir: dir, StatsFile: "github-stats.json", HeatmapFile: "commit-heatmap.json"}
		require.NoError(t, w.Write(sampleResult()))

		raw, err := os.ReadFile(filepath.Join(dir, "github-stats.json"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), "\n  \"user\": {\n    \"name\": \"The Octocat & Co\",")

		var stats map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &stats))
		assert.ElementsMatch(t, []string{"user", "stats", "last_updated", "last_updated_beijing"}, keys(stats))
		assert.ElementsMatch(t, []string{"name", "public_repos", "followers", "following"}, keys(stats["user"].(map[string]interface{})))
		assert.Equal(t, map[string]interface{}{
			"total_commits":     42.0,
			"total_repos":       3.0,
			"total_stars":       7.0,
			"total_forks":       5.0,
			"last_year_commits": 5.0,
		}, stats["stats"])

		raw, err = os.ReadFile(filepath.Join(dir, "commit-heatmap.json"))
		require.NoError(t, err)
		var heatmap domain.Heatmap
		require.NoError(t, json.Unmarshal(raw, &heatmap))
		assert.Equal(t, sampleResult().Heatmap, heatmap)

		_, err = os.Stat(filepath.Join(dir, "languages.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("overwrites previous output and writes optional documents", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "github-stats.json"), bytes.Repeat([]byte("x"), 10000), 0o644))

		w := &Writer{
			Dir:           dir,
			StatsFile:     "github-stats.json",
			HeatmapFile:   "commit-heatmap.json",
			LanguagesFile: "languages.json",
			ChartFile:     "commits.html",
		}
		require.NoError(t, w.Write(sampleResult()))

		raw, err := os.ReadFile(filepath.Join(dir, "github-stats.json"))
		require.NoError(t, err)
		assert.True(t, json.Valid(raw))

		raw, err = os.ReadFile(filepath.Join(dir, "languages.json"))
		require.NoError(t, err)
		var languages map[string]domain.LanguageShare
		require.NoError(t, json.Unmarshal(raw, &languages))
		assert.Equal(t, sampleResult().Languages, languages)

		raw, err = os.ReadFile(filepath.Join(dir, "commits.html"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Commit activity")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 4, "no temp files may be left behind")
	})

	t.Run("creates the output directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "out")
		w := &Writer{Dir: dir, StatsFile: "s.json", HeatmapFile: "h.json"}
		require.NoError(t, w.Write(sampleResult()))
		assert.FileExists(t, filepath.Join(dir, "s.json"))
		assert.FileExists(t, filepath.Join(dir, "h.json"))
	})
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

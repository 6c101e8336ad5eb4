package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchUser(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockFetcher) FetchRepositories(ctx context.Context) ([]*domain.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Repository), args.Error(1)
}

func (m *mockFetcher) FetchContributions(ctx context.Context, owner, repo, login string) (int, bool, error) {
	args := m.Called(ctx, owner, repo, login)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *mockFetcher) FetchCommitDates(ctx context.Context, owner, repo, author string, since time.Time, maxPages int) ([]time.Time, error) {
	args := m.Called(ctx, owner, repo, author, since, maxPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockFetcher) FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBytes, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.LanguageBytes), args.Error(1)
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// at returns n copies of the instant described by value (RFC 3339).
func at(t *testing.T, value string, n int) []time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = ts
	}
	return dates
}

func TestAggregator_Generate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	oneYearAgo := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)
	user := &domain.User{Login: "octocat", Name: "The Octocat", PublicRepos: 2, Followers: 10, Following: 3}
	repos := []*domain.Repository{
		{Owner: "octocat", Name: "repo-a", Stars: 5, Forks: 1},
		{Owner: "octocat", Name: "upstream-fork", Fork: true, Stars: 2, Forks: 4},
	}

	testCases := []struct {
		name        string
		userErr     error
		reposErr    error
		expectError bool
	}{
		{name: "happy path - aggregates commits, languages and totals"},
		{name: "error case - user lookup fails", userErr: errors.New("user not found"), expectError: true},
		{name: "error case - repository listing fails", reposErr: errors.New("bad credentials"), expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			fetcher := new(mockFetcher)

			if tc.userErr != nil {
				fetcher.On("FetchUser", mock.Anything, "octocat").Return(nil, tc.userErr)
				fetcher.On("FetchRepositories", mock.Anything).Return(repos, nil).Maybe()
			} else if tc.reposErr != nil {
				fetcher.On("FetchUser", mock.Anything, "octocat").Return(user, nil).Maybe()
				fetcher.On("FetchRepositories", mock.Anything).Return(nil, tc.reposErr)
			} else {
				fetcher.On("FetchUser", mock.Anything, "octocat").Return(user, nil)
				fetcher.On("FetchRepositories", mock.Anything).Return(repos, nil)
				fetcher.On("FetchContributions", mock.Anything, "octocat", "repo-a", "octocat").Return(42, true, nil)
				dates := append(at(t, "2024-01-01T09:00:00Z", 3), at(t, "2024-01-02T18:00:00Z", 2)...)
				fetcher.On("FetchCommitDates", mock.Anything, "octocat", "repo-a", "octocat", oneYearAgo, recentMaxPages).Return(dates, nil)
				fetcher.On("FetchLanguages", mock.Anything, "octocat", "repo-a").Return(domain.LanguageBytes{"Go": 300, "Shell": 100}, nil)
			}

			aggregator := NewAggregator(fetcher, Options{Now: func() time.Time { return now }}, discardLogger())
			result, err := aggregator.Generate(ctx, "octocat")

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				fetcher.AssertExpectations(t)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, &domain.StatsReport{
				User: *user,
				Stats: domain.Summary{
					TotalCommits:    42,
					TotalRepos:      1,
					TotalStars:      7,
					TotalForks:      5,
					LastYearCommits: 5,
				},
				LastUpdated:      "2024-06-01",
				LastUpdatedLocal: "2024/06/01",
			}, result.Report)

			assert.Equal(t, domain.DailyCommits{"2024-01-01": 3, "2024-01-02": 2}, result.Commits.DailyCommits)
			assert.Equal(t, map[string]domain.LanguageShare{
				"Go":    {Bytes: 300, Percentage: "75.00"},
				"Shell": {Bytes: 100, Percentage: "25.00"},
			}, result.Languages)

			assert.Len(t, result.Heatmap.Data, HeatmapDays+1)
			assert.Equal(t, 5, result.Heatmap.TotalCommits)
			assert.Equal(t, "2024-06-01", result.Heatmap.GeneratedAt)

			fetcher.AssertExpectations(t)
			fetcher.AssertNotCalled(t, "FetchContributions", mock.Anything, "octocat", "upstream-fork", mock.Anything)
			fetcher.AssertNotCalled(t, "FetchLanguages", mock.Anything, "octocat", "upstream-fork")
		})
	}
}

func TestAggregator_GenerateUsesReportLocation(t *testing.T) {
	// 20:00 UTC is already the next day at UTC+8.
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	fetcher := new(mockFetcher)
	fetcher.On("FetchUser", mock.Anything, "octocat").Return(&domain.User{Login: "octocat"}, nil)
	fetcher.On("FetchRepositories", mock.Anything).Return([]*domain.Repository{}, nil)

	aggregator := NewAggregator(fetcher, Options{
		Location: time.FixedZone("CST", 8*60*60),
		Now:      func() time.Time { return now },
	}, discardLogger())
	result, err := aggregator.Generate(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-02", result.Report.LastUpdated)
	assert.Equal(t, "2024/01/02", result.Report.LastUpdatedLocal)
	assert.Equal(t, "2024-01-02", result.Heatmap.GeneratedAt)
	assert.Empty(t, result.Languages)
	assert.Zero(t, result.Report.Stats)
	// Heatmap days are UTC calendar days.
	assert.Equal(t, "2024-01-01", result.Heatmap.Data[len(result.Heatmap.Data)-1].Date)
}

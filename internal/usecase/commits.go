package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
	"github.com/naka-gawa/github-profile-stats/internal/gateway"
)

const (
	// recentMaxPages caps the since-filtered listing at 1000 commits per repository.
	recentMaxPages = 10
	// fallbackMaxPages caps the unfiltered listing at 500 commits per repository.
	fallbackMaxPages = 5
)

// CommitAggregator collects commit counts and the daily commit histogram of
// one user across repositories.
type CommitAggregator struct {
	fetcher gateway.Fetcher
	pacer   *Pacer
	logger  *logrus.Logger
}

// NewCommitAggregator creates a new CommitAggregator. delay is the pacing
// interval between repositories.
func NewCommitAggregator(fetcher gateway.Fetcher, delay time.Duration, logger *logrus.Logger) *CommitAggregator {
	return &CommitAggregator{
		fetcher: fetcher,
		pacer:   NewPacer(delay),
		logger:  logger,
	}
}

// AggregateCommits walks the non-fork repositories in order and folds each
// repository's counts into the result. Per-repository failures never abort the
// run; only a cancelled context does.
func (a *CommitAggregator) AggregateCommits(ctx context.Context, repos []*domain.Repository, login string, oneYearAgo time.Time) (domain.CommitStats, error) {
	acc := domain.CommitStats{DailyCommits: domain.DailyCommits{}}
	for _, repo := range repos {
		if repo.Fork {
			a.logger.WithField("repo", repo.FullName()).Debug("Skipping forked repository")
			continue
		}
		if err := a.pacer.Wait(ctx); err != nil {
			return domain.CommitStats{}, fmt.Errorf("commit aggregation interrupted: %w", err)
		}
		a.logger.WithField("repo", repo.FullName()).Debug("Processing repository")
		acc = acc.Merge(a.repoCommitStats(ctx, repo, login, oneYearAgo))
	}
	if err := ctx.Err(); err != nil {
		return domain.CommitStats{}, fmt.Errorf("commit aggregation interrupted: %w", err)
	}
	return withDerivedMetrics(acc), nil
}

// repoCommitStats reads the all-time total from the contributor list and the
// recent histogram from the since-filtered commit listing. When either call
// fails it falls back to splitting an unfiltered listing by date.
func (a *CommitAggregator) repoCommitStats(ctx context.Context, repo *domain.Repository, login string, oneYearAgo time.Time) domain.RepoCommitStats {
	result, err := a.primaryCommitStats(ctx, repo, login, oneYearAgo)
	if err == nil {
		return result
	}
	log := a.logger.WithField("repo", repo.FullName())
	log.WithError(err).Warn("Error getting commit stats, falling back to commit listing")

	result, err = a.fallbackCommitStats(ctx, repo, login, oneYearAgo)
	if err != nil {
		log.WithError(err).Warn("Fallback method also failed")
		return domain.RepoCommitStats{DailyCommits: domain.DailyCommits{}}
	}
	return result
}

func (a *CommitAggregator) primaryCommitStats(ctx context.Context, repo *domain.Repository, login string, oneYearAgo time.Time) (domain.RepoCommitStats, error) {
	result := domain.RepoCommitStats{DailyCommits: domain.DailyCommits{}}

	total, found, err := a.fetcher.FetchContributions(ctx, repo.Owner, repo.Name, login)
	if err != nil {
		return domain.RepoCommitStats{}, err
	}
	if found {
		result.TotalCommits = total
	}

	dates, err := a.fetcher.FetchCommitDates(ctx, repo.Owner, repo.Name, login, oneYearAgo, recentMaxPages)
	if err != nil {
		return domain.RepoCommitStats{}, err
	}
	for _, d := range dates {
		result.DailyCommits[domain.DayKey(d)]++
		result.LastYearCommits++
	}
	return result, nil
}

func (a *CommitAggregator) fallbackCommitStats(ctx context.Context, repo *domain.Repository, login string, oneYearAgo time.Time) (domain.RepoCommitStats, error) {
	dates, err := a.fetcher.FetchCommitDates(ctx, repo.Owner, repo.Name, login, time.Time{}, fallbackMaxPages)
	if err != nil {
		return domain.RepoCommitStats{}, err
	}
	result := domain.RepoCommitStats{DailyCommits: domain.DailyCommits{}}
	for _, d := range dates {
		result.TotalCommits++
		if !d.Before(oneYearAgo) {
			result.DailyCommits[domain.DayKey(d)]++
			result.LastYearCommits++
		}
	}
	return result, nil
}

// withDerivedMetrics fills the activity metrics computed from the histogram.
// They are all zero when there is no active day.
func withDerivedMetrics(s domain.CommitStats) domain.CommitStats {
	s.ActiveDays = len(s.DailyCommits)
	if s.ActiveDays == 0 {
		return s
	}
	counts := make(stats.Float64Data, 0, len(s.DailyCommits))
	for _, c := range s.DailyCommits {
		counts = append(counts, float64(c))
	}
	if peak, err := counts.Max(); err == nil {
		s.MaxCommitsPerDay = int(peak)
	}
	s.AvgCommitsPerActiveDay = round2(float64(s.LastYearCommits) / float64(s.ActiveDays))
	if mean, err := counts.Mean(); err == nil {
		s.CommitFrequency = round2(mean)
	}
	return s
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}

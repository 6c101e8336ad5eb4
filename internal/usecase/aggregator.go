// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
	"github.com/naka-gawa/github-profile-stats/internal/gateway"
	"github.com/naka-gawa/github-profile-stats/internal/report"
)

// Options tunes an Aggregator.
type Options struct {
	// CommitDelay paces commit aggregation, one repository per interval.
	CommitDelay time.Duration
	// LanguageDelay paces language aggregation, one repository per interval.
	LanguageDelay time.Duration
	// Location is the zone of the report timestamps. Defaults to UTC.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Aggregator is the use case for generating the GitHub stats report.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher   gateway.Fetcher
	commits   *CommitAggregator
	languages *LanguageAggregator
	location  *time.Location
	now       func() time.Time
	logger    *logrus.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, opts Options, logger *logrus.Logger) *Aggregator {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		fetcher:   fetcher,
		commits:   NewCommitAggregator(fetcher, opts.CommitDelay, logger),
		languages: NewLanguageAggregator(fetcher, opts.LanguageDelay, logger),
		location:  opts.Location,
		now:       opts.Now,
		logger:    logger,
	}
}

// Generate performs the main business logic.
// Failing to resolve the user or to list repositories aborts the run; failures
// scoped to a single repository are absorbed by the commit and language aggregators.
func (a *Aggregator) Generate(ctx context.Context, login string) (*domain.Result, error) {
	a.logger.WithField("login", login).Info("Usecase: Starting data aggregation...")
	now := a.now()

	var user *domain.User
	var repos []*domain.Repository

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		user, err = a.fetcher.FetchUser(egCtx, login)
		return err
	})
	eg.Go(func() error {
		var err error
		repos, err = a.fetcher.FetchRepositories(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.WithField("repositories", len(repos)).Info("Usecase: Found repositories")

	// The histogram only ever holds days inside the heatmap window.
	oneYearAgo := WindowStart(now)

	var commits domain.CommitStats
	var languages map[string]domain.LanguageShare

	eg, egCtx = errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		commits, err = a.commits.AggregateCommits(egCtx, repos, login, oneYearAgo)
		return err
	})
	eg.Go(func() error {
		var err error
		languages, err = a.languages.AggregateLanguages(egCtx, repos)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	date, local := report.Timestamps(now, a.location)
	result := &domain.Result{
		Report: &domain.StatsReport{
			User:             *user,
			Stats:            summarize(repos, commits),
			LastUpdated:      date,
			LastUpdatedLocal: local,
		},
		Heatmap:   BuildHeatmap(commits.DailyCommits, now, date),
		Commits:   commits,
		Languages: languages,
	}

	a.logger.WithFields(logrus.Fields{
		"total_commits":     commits.TotalCommits,
		"last_year_commits": commits.LastYearCommits,
		"active_days":       commits.ActiveDays,
		"languages":         len(languages),
	}).Info("Usecase: Aggregation complete.")
	return result, nil
}

// summarize counts non-fork repositories; stars and forks are summed over
// every listed repository, forks included.
func summarize(repos []*domain.Repository, commits domain.CommitStats) domain.Summary {
	s := domain.Summary{
		TotalCommits:    commits.TotalCommits,
		LastYearCommits: commits.LastYearCommits,
	}
	for _, r := range repos {
		if !r.Fork {
			s.TotalRepos++
		}
		s.TotalStars += r.Stars
		s.TotalForks += r.Forks
	}
	return s
}

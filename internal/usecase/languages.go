package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
	"github.com/naka-gawa/github-profile-stats/internal/gateway"
)

// LanguageAggregator sums language byte counts across repositories.
type LanguageAggregator struct {
	fetcher gateway.Fetcher
	pacer   *Pacer
	logger  *logrus.Logger
}

// NewLanguageAggregator creates a new LanguageAggregator.
func NewLanguageAggregator(fetcher gateway.Fetcher, delay time.Duration, logger *logrus.Logger) *LanguageAggregator {
	return &LanguageAggregator{
		fetcher: fetcher,
		pacer:   NewPacer(delay),
		logger:  logger,
	}
}

// AggregateLanguages returns every language's byte total over the non-fork
// repositories with its share of all bytes. Repositories whose language call
// fails are skipped.
func (a *LanguageAggregator) AggregateLanguages(ctx context.Context, repos []*domain.Repository) (map[string]domain.LanguageShare, error) {
	acc := domain.LanguageBytes{}
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		if err := a.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("language aggregation interrupted: %w", err)
		}
		languages, err := a.fetcher.FetchLanguages(ctx, repo.Owner, repo.Name)
		if err != nil {
			a.logger.WithField("repo", repo.FullName()).WithError(err).Debug("Skipping languages")
			continue
		}
		acc = acc.Merge(languages)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("language aggregation interrupted: %w", err)
	}
	return LanguageShares(acc), nil
}

// LanguageShares converts byte totals to percentages of the grand total,
// formatted with two decimals.
func LanguageShares(bytes domain.LanguageBytes) map[string]domain.LanguageShare {
	shares := make(map[string]domain.LanguageShare, len(bytes))
	values := make(stats.Float64Data, 0, len(bytes))
	for _, b := range bytes {
		values = append(values, float64(b))
	}
	total, err := values.Sum()
	if err != nil || total <= 0 {
		for lang, b := range bytes {
			shares[lang] = domain.LanguageShare{Bytes: b, Percentage: "0.00"}
		}
		return shares
	}
	for lang, b := range bytes {
		shares[lang] = domain.LanguageShare{
			Bytes:      b,
			Percentage: strconv.FormatFloat(float64(b)/total*100, 'f', 2, 64),
		}
	}
	return shares
}

// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-profile-stats/internal/domain"
)

// PerPage is the page size used for every paginated REST call.
const PerPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchUser(ctx context.Context, login string) (*domain.User, error)
	FetchRepositories(ctx context.Context) ([]*domain.Repository, error)
	// FetchContributions returns login's lifetime contribution count on a repository.
	// found is false when login is not among the contributors.
	FetchContributions(ctx context.Context, owner, repo, login string) (count int, found bool, err error)
	// FetchCommitDates pages through commits authored by author and returns their author dates.
	// A zero since disables the date filter. At most maxPages pages of PerPage commits are read.
	FetchCommitDates(ctx context.Context, owner, repo, author string, since time.Time, maxPages int) ([]time.Time, error)
	FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBytes, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *logrus.Logger
}

// userQuery fetches the profile counters of a single user.
type userQuery struct {
	User struct {
		Login        string
		Name         string
		Repositories struct {
			TotalCount int
		} `graphql:"repositories(privacy: PUBLIC, ownerAffiliations: [OWNER])"`
		Followers struct {
			TotalCount int
		}
		Following struct {
			TotalCount int
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *logrus.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchUser(ctx context.Context, login string) (*domain.User, error) {
	g.logger.WithField("login", login).Debug("Fetching user profile using GraphQL API...")
	var q userQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to query user %q with GraphQL API: %w", login, err)
	}
	return &domain.User{
		Login:       q.User.Login,
		Name:        q.User.Name,
		PublicRepos: q.User.Repositories.TotalCount,
		Followers:   q.User.Followers.TotalCount,
		Following:   q.User.Following.TotalCount,
	}, nil
}

func (g *GitHubGateway) FetchRepositories(ctx context.Context) ([]*domain.Repository, error) {
	g.logger.Debug("Fetching repositories of the authenticated user...")
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Type:        "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: PerPage},
	}
	var repos []*domain.Repository
	for {
		page, resp, err := g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
		}
		for _, r := range page {
			repos = append(repos, &domain.Repository{
				Owner:      r.GetOwner().GetLogin(),
				Name:       r.GetName(),
				Fork:       r.GetFork(),
				Stars:      r.GetStargazersCount(),
				Forks:      r.GetForksCount(),
				Language:   r.GetLanguage(),
				Visibility: r.GetVisibility(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of repositories...")
	}
	g.logger.WithField("count", len(repos)).Debug("Completed fetching repositories.")
	return repos, nil
}

func (g *GitHubGateway) FetchContributions(ctx context.Context, owner, repo, login string) (int, bool, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: PerPage}}
	for {
		contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return 0, false, fmt.Errorf("failed to list contributors of %s/%s: %w", owner, repo, err)
		}
		for _, c := range contributors {
			// Logins are case-insensitive on GitHub.
			if strings.EqualFold(c.GetLogin(), login) {
				return c.GetContributions(), true, nil
			}
		}
		if resp.NextPage == 0 {
			return 0, false, nil
		}
		opts.Page = resp.NextPage
	}
}

func (g *GitHubGateway) FetchCommitDates(ctx context.Context, owner, repo, author string, since time.Time, maxPages int) ([]time.Time, error) {
	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       since,
		ListOptions: github.ListOptions{PerPage: PerPage},
	}
	var dates []time.Time
	for page := 1; page <= maxPages; page++ {
		opts.Page = page
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			// GitHub answers 409 Conflict for a repository without any commit.
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return dates, nil
			}
			return nil, fmt.Errorf("failed to list commits of %s/%s (page %d): %w", owner, repo, page, err)
		}
		for _, c := range commits {
			dates = append(dates, c.GetCommit().GetAuthor().GetDate().Time)
		}
		if len(commits) < PerPage || page == maxPages {
			break
		}
		g.logger.WithField("repo", owner+"/"+repo).Debugf("  Fetching page %d of commits...", page+1)
	}
	return dates, nil
}

func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBytes, error) {
	languages, _, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages of %s/%s: %w", owner, repo, err)
	}
	return domain.LanguageBytes(languages), nil
}

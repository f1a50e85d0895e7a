package forge

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v38/github"
	"golang.org/x/oauth2"
)

// For mocking in tests
var newGitHubClient = func(token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return github.NewClient(tc)
}

// GitHubClient talks to the GitHub REST API using a personal access token.
type GitHubClient struct {
	gh *github.Client
}

// NewGitHubClient returns a client authenticated with token.
func NewGitHubClient(token string) *GitHubClient {
	return &GitHubClient{gh: newGitHubClient(token)}
}

func (c *GitHubClient) Exists(ctx context.Context, owner, name string) (bool, *Repo, error) {
	repo, err := c.Get(ctx, owner, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, repo, nil
}

func (c *GitHubClient) Get(ctx context.Context, owner, name string) (*Repo, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, mapGitHubError(err)
	}
	return githubRepo(repo), nil
}

func (c *GitHubClient) Create(ctx context.Context, name, description string, private bool) (*Repo, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.String(name),
		Description: github.String(description),
		Private:     github.Bool(private),
		AutoInit:    github.Bool(false),
	})
	if err != nil {
		return nil, mapGitHubError(err)
	}
	return githubRepo(repo), nil
}

func (c *GitHubClient) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", mapGitHubError(err)
	}
	return user.GetLogin(), nil
}

func githubRepo(r *github.Repository) *Repo {
	return &Repo{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		HTMLURL:       r.GetHTMLURL(),
		CloneURL:      r.GetCloneURL(),
		DefaultBranch: r.GetDefaultBranch(),
	}
}

// mapGitHubError translates a go-github error into a forge reason.
func mapGitHubError(err error) error {
	var er *github.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil {
		// Transport-level failure (timeout, connection refused).
		return err
	}

	switch er.Response.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusUnprocessableEntity:
		for _, e := range er.Errors {
			if e.Code == "already_exists" {
				return ErrAlreadyExists
			}
		}
	}
	return &APIError{StatusCode: er.Response.StatusCode, Body: er.Message}
}

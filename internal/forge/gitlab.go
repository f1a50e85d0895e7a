package forge

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// For mocking in tests
var newGitLabClient = func(token, baseURL string) (*gitlab.Client, error) {
	return gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
}

// GitLabClient talks to a GitLab instance using a personal access token.
type GitLabClient struct {
	gl *gitlab.Client
}

// NewGitLabClient returns a client for the instance at baseURL.
func NewGitLabClient(token, baseURL string) (*GitLabClient, error) {
	gl, err := newGitLabClient(token, baseURL)
	if err != nil {
		return nil, err
	}
	return &GitLabClient{gl: gl}, nil
}

func (c *GitLabClient) Exists(ctx context.Context, owner, name string) (bool, *Repo, error) {
	repo, err := c.Get(ctx, owner, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, repo, nil
}

func (c *GitLabClient) Get(ctx context.Context, owner, name string) (*Repo, error) {
	project, resp, err := c.gl.Projects.GetProject(owner+"/"+name, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, mapGitLabError(resp, err)
	}
	return gitlabRepo(project), nil
}

func (c *GitLabClient) Create(ctx context.Context, name, description string, private bool) (*Repo, error) {
	visibility := gitlab.PublicVisibility
	if private {
		visibility = gitlab.PrivateVisibility
	}

	project, resp, err := c.gl.Projects.CreateProject(&gitlab.CreateProjectOptions{
		Name:                 gitlab.String(name),
		Description:          gitlab.String(description),
		Visibility:           gitlab.Visibility(visibility),
		InitializeWithReadme: gitlab.Bool(false),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if strings.Contains(err.Error(), "has already been taken") {
			return nil, ErrAlreadyExists
		}
		return nil, mapGitLabError(resp, err)
	}
	return gitlabRepo(project), nil
}

func (c *GitLabClient) AuthenticatedUser(ctx context.Context) (string, error) {
	user, resp, err := c.gl.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return "", mapGitLabError(resp, err)
	}
	return user.Username, nil
}

func gitlabRepo(p *gitlab.Project) *Repo {
	owner := ""
	if p.Namespace != nil {
		owner = p.Namespace.FullPath
	}
	return &Repo{
		Owner:         owner,
		Name:          p.Path,
		Description:   p.Description,
		Private:       p.Visibility == gitlab.PrivateVisibility,
		HTMLURL:       p.WebURL,
		CloneURL:      p.HTTPURLToRepo,
		DefaultBranch: p.DefaultBranch,
	}
}

func mapGitLabError(resp *gitlab.Response, err error) error {
	if resp == nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusForbidden:
		return ErrPermissionDenied
	}
	return &APIError{StatusCode: resp.StatusCode, Body: err.Error()}
}

// Package forge wraps the hosting service REST APIs (GitHub and GitLab).
//
// Every call is a single synchronous request with a caller-supplied
// context deadline. There are no retries: a failure is classified into one
// of a small set of reasons and surfaced immediately.
package forge

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Provider identifies the hosting service.
type Provider int

const (
	GitHub Provider = iota
	GitLab
)

func (p Provider) String() string {
	if p == GitLab {
		return "gitlab"
	}
	return "github"
}

// Repo is a reference to a hosted repository.
type Repo struct {
	Owner         string
	Name          string
	Description   string
	Private       bool
	HTMLURL       string
	CloneURL      string
	DefaultBranch string
}

// FullName returns the owner/name path of the repository.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Failure reasons. API errors unwrap to one of these where the status code
// maps cleanly; everything else is an *APIError.
var (
	ErrNotFound         = errors.New("repository not found or not accessible")
	ErrAuthFailed       = errors.New("authentication failed - check your personal access token")
	ErrPermissionDenied = errors.New("permission denied - token needs the 'repo' scope")
	ErrAlreadyExists    = errors.New("repository already exists")
)

// APIError is a non-2xx response that does not map to a known reason.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error: %d", e.StatusCode)
	}
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

// Client is the hosting service surface the upload workflow needs.
type Client interface {
	// Exists reports whether owner/name exists and is accessible. A plain
	// 404 is (false, nil, nil); auth and transport problems are errors.
	Exists(ctx context.Context, owner, name string) (bool, *Repo, error)

	// Get fetches repository metadata. A missing repository is ErrNotFound.
	Get(ctx context.Context, owner, name string) (*Repo, error)

	// Create creates a repository under the authenticated user.
	Create(ctx context.Context, name, description string, private bool) (*Repo, error)

	// AuthenticatedUser returns the login the token belongs to.
	AuthenticatedUser(ctx context.Context) (string, error)
}

// ParseRepoURL extracts owner and name from a repository web or clone URL.
// Only github.com and gitlab.com hosts are accepted.
func ParseRepoURL(raw string) (*Repo, Provider, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, GitHub, errors.New("empty repository URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, GitHub, fmt.Errorf("invalid repository URL: %w", err)
	}

	var provider Provider
	switch strings.TrimPrefix(u.Hostname(), "www.") {
	case "github.com":
		provider = GitHub
	case "gitlab.com":
		provider = GitLab
	default:
		return nil, GitHub, fmt.Errorf("unsupported host %q: expected github.com or gitlab.com", u.Hostname())
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, provider, errors.New("invalid repository URL: expected owner/repo path")
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	owner := strings.Join(parts[:len(parts)-1], "/")

	return &Repo{
		Owner:   owner,
		Name:    name,
		HTMLURL: fmt.Sprintf("https://%s/%s/%s", strings.TrimPrefix(u.Hostname(), "www."), owner, name),
	}, provider, nil
}

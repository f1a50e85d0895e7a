// Package upload sequences the hosting API and the git driver into the
// publish workflow.
//
// The workflow is linear: Validating -> (Creating | Verifying) ->
// Preparing -> Staging -> Committing -> Pushing -> Done. The first failing
// step short-circuits the rest and its reason becomes the terminal result.
// At most one workflow runs at a time; starting a second while one is in
// flight returns ErrBusy.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/forge"
	"github.com/gitship/gitship/internal/gitx"
)

// Mode selects between creating a repository and using an existing one.
type Mode int

const (
	NewRepository Mode = iota
	ExistingRepository
)

// Step identifies where in the workflow a progress report comes from.
type Step int

const (
	StepValidating Step = iota
	StepCreating
	StepVerifying
	StepPreparing
	StepStaging
	StepCommitting
	StepPushing
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepValidating:
		return "validating"
	case StepCreating:
		return "creating"
	case StepVerifying:
		return "verifying"
	case StepPreparing:
		return "preparing"
	case StepStaging:
		return "staging"
	case StepCommitting:
		return "committing"
	case StepPushing:
		return "pushing"
	default:
		return "done"
	}
}

// Progress is a state-change notification for the presentation layer.
type Progress struct {
	Step    Step
	Message string
}

// Result is the terminal outcome of one workflow run.
type Result struct {
	OK      bool
	Message string
	RepoURL string
}

// Request carries everything one run needs.
type Request struct {
	Mode     Mode
	Provider forge.Provider

	Username string
	Token    string

	// RepoName is used in new-repository mode. RepoURL is used in
	// existing-repository mode and overrides Provider when it parses.
	RepoName string
	RepoURL  string

	ProjectDir    string
	CommitMessage string
	Selection     gitx.Selection
	Private       bool
	Description   string
}

// ErrBusy is returned when a workflow is already in flight.
var ErrBusy = errors.New("an upload is already running")

const defaultCommitMessage = "Initial commit"

// Workflow runs upload requests, one at a time.
type Workflow struct {
	cfg     *config.Config
	log     *logrus.Logger
	running atomic.Bool

	// Seams for tests.
	newClient func(req Request) (forge.Client, error)
	locateGit func() (string, error)
	newDriver func(gitPath, dir string) *gitx.Driver
}

// New returns a workflow wired to the real forge clients and git driver.
func New(cfg *config.Config, log *logrus.Logger) *Workflow {
	w := &Workflow{cfg: cfg, log: log}
	w.newClient = func(req Request) (forge.Client, error) {
		if req.Provider == forge.GitLab {
			return forge.NewGitLabClient(req.Token, cfg.GitLabBaseURL)
		}
		return forge.NewGitHubClient(req.Token), nil
	}
	w.locateGit = gitx.LocateExecutable
	w.newDriver = func(gitPath, dir string) *gitx.Driver {
		// Git gets double the API timeout; clones and pushes move data.
		return gitx.NewDriver(gitPath, dir, 2*cfg.Timeout(), log)
	}
	return w
}

// Busy reports whether a workflow run is in flight.
func (w *Workflow) Busy() bool {
	return w.running.Load()
}

// Start runs the workflow on a background goroutine, emitting progress on
// progress and exactly one Result on done. ErrBusy if one is in flight.
func (w *Workflow) Start(req Request, progress chan<- Progress, done chan<- Result) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	go func() {
		defer w.running.Store(false)
		res := w.run(req, func(p Progress) {
			progress <- p
		})
		done <- res
	}()
	return nil
}

// Run executes the workflow synchronously. Used by the non-interactive
// command; the TUI goes through Start.
func (w *Workflow) Run(req Request) Result {
	if !w.running.CompareAndSwap(false, true) {
		return failure(ErrBusy.Error())
	}
	defer w.running.Store(false)
	return w.run(req, func(p Progress) {
		w.log.WithField("step", p.Step.String()).Info(p.Message)
	})
}

func (w *Workflow) run(req Request, emit func(Progress)) (res Result) {
	// No crash path is silent: anything unexpected becomes a failure
	// result instead of taking the UI down.
	defer func() {
		if r := recover(); r != nil {
			w.log.Errorf("workflow panic: %v", r)
			res = failure(fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	emit(Progress{StepValidating, "Validating inputs..."})
	owner, name, err := w.validate(&req)
	if err != nil {
		return failure(err.Error())
	}

	client, err := w.newClient(req)
	if err != nil {
		return failure(fmt.Sprintf("failed to create API client: %v", err))
	}

	gitPath, err := w.locateGit()
	if err != nil {
		return failure(err.Error())
	}
	w.log.WithField("git", gitPath).Info("located git executable")

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.Timeout())
	defer cancel()

	driver := w.newDriver(gitPath, req.ProjectDir)
	webURL := repoWebURL(req.Provider, owner, name)

	switch req.Mode {
	case NewRepository:
		emit(Progress{StepCreating, fmt.Sprintf("Creating repository %q...", name)})
		repo, err := client.Create(ctx, name, req.Description, req.Private)
		if err != nil {
			if errors.Is(err, forge.ErrAlreadyExists) {
				return failure(fmt.Sprintf("repository %q already exists", name))
			}
			return failure(fmt.Sprintf("failed to create repository: %v", err))
		}
		if repo.HTMLURL != "" {
			webURL = repo.HTMLURL
		}
		w.log.WithField("repo", repo.FullName()).Info("repository created")

		emit(Progress{StepPreparing, "Initializing git repository..."})
		if err := driver.Init(); err != nil {
			return failure(err.Error())
		}

	case ExistingRepository:
		emit(Progress{StepVerifying, fmt.Sprintf("Verifying repository %s/%s...", owner, name)})
		ok, repo, err := client.Exists(ctx, owner, name)
		if err != nil {
			return failure(fmt.Sprintf("failed to verify repository: %v", err))
		}
		if !ok {
			return failure(fmt.Sprintf("repository %s/%s not found or not accessible", owner, name))
		}
		if repo.HTMLURL != "" {
			webURL = repo.HTMLURL
		}

		emit(Progress{StepPreparing, "Preparing local repository..."})
		if !gitx.IsRepository(req.ProjectDir) {
			if err := w.adopt(gitPath, req, owner, name); err != nil {
				return failure(err.Error())
			}
		}
	}

	if err := driver.ConfigureIdentity(req.Username, committerEmail(req)); err != nil {
		return failure(err.Error())
	}
	if written, err := gitx.WriteIgnoreFile(req.ProjectDir); err != nil {
		return failure(fmt.Sprintf("failed to write ignore file: %v", err))
	} else if written {
		w.log.Info("wrote .gitignore to keep credentials out of the commit")
	}

	emit(Progress{StepStaging, "Staging files..."})
	if err := driver.Stage(req.Selection); err != nil {
		return failure(err.Error())
	}

	emit(Progress{StepCommitting, "Committing..."})
	pending, err := driver.HasPendingChanges()
	if err != nil {
		return failure(err.Error())
	}
	if !pending {
		return failure("nothing to commit - no changes found in the selected directory")
	}
	if err := driver.Commit(req.CommitMessage); err != nil {
		return failure(err.Error())
	}

	emit(Progress{StepPushing, "Pushing to remote..."})
	branch := w.cfg.DefaultBranch
	if req.Mode == NewRepository {
		if err := driver.SetBranch(branch); err != nil {
			return failure(err.Error())
		}
		// Token rides in the remote URL for the push only; the ignore
		// rules keep config.ini itself out of the commit.
		if err := driver.AddRemote(authRemoteURL(req.Provider, req.Username, req.Token, owner, name)); err != nil {
			return failure(err.Error())
		}
		if err := driver.Push(branch, true); err != nil {
			return failure(err.Error())
		}
	} else {
		if err := driver.Push(branch, false); err != nil {
			return failure(err.Error())
		}
	}

	emit(Progress{StepDone, "Upload complete"})
	return Result{
		OK:      true,
		Message: fmt.Sprintf("Project successfully uploaded to %s", webURL),
		RepoURL: webURL,
	}
}

// validate checks the request and resolves the target owner and name.
func (w *Workflow) validate(req *Request) (owner, name string, err error) {
	if req.Username == "" {
		return "", "", errors.New("please enter your username")
	}
	if req.Token == "" {
		return "", "", errors.New("please enter your personal access token")
	}
	if err := config.ValidateProjectDir(req.ProjectDir); err != nil {
		return "", "", err
	}
	if req.CommitMessage == "" {
		req.CommitMessage = defaultCommitMessage
	}

	switch req.Mode {
	case NewRepository:
		if req.RepoName == "" {
			return "", "", errors.New("please enter a repository name")
		}
		req.RepoName = config.CleanRepoName(req.RepoName)
		return req.Username, req.RepoName, nil
	default:
		if req.RepoURL == "" {
			if req.RepoName == "" {
				return "", "", errors.New("please enter a repository URL or name")
			}
			return req.Username, req.RepoName, nil
		}
		ref, provider, err := forge.ParseRepoURL(req.RepoURL)
		if err != nil {
			return "", "", err
		}
		req.Provider = provider
		return ref.Owner, ref.Name, nil
	}
}

// adopt puts an un-versioned project directory under version control of
// the existing remote: clone into a scratch directory, then move the
// fresh .git into the project. The scratch directory is removed before
// the workflow reaches its terminal state, on every path.
func (w *Workflow) adopt(gitPath string, req Request, owner, name string) error {
	tmp, err := os.MkdirTemp("", "gitship-clone-")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			w.log.WithError(rmErr).Warn("failed to remove temporary clone directory")
		}
	}()

	cloner := w.newDriver(gitPath, tmp)
	if err := cloner.Clone(authRemoteURL(req.Provider, req.Username, req.Token, owner, name), "checkout"); err != nil {
		return err
	}

	src := filepath.Join(tmp, "checkout", ".git")
	dst := filepath.Join(req.ProjectDir, ".git")
	if err := moveDir(src, dst); err != nil {
		return fmt.Errorf("failed to adopt repository metadata: %w", err)
	}
	return nil
}

func committerEmail(req Request) string {
	host := "github.com"
	if req.Provider == forge.GitLab {
		host = "gitlab.com"
	}
	return fmt.Sprintf("%s@%s", req.Username, host)
}

func repoWebURL(provider forge.Provider, owner, name string) string {
	host := "github.com"
	if provider == forge.GitLab {
		host = "gitlab.com"
	}
	return fmt.Sprintf("https://%s/%s/%s", host, owner, name)
}

// authRemoteURL embeds credentials in the remote URL for the duration of
// the push. The URL lives only in local git config, never in a tracked file.
func authRemoteURL(provider forge.Provider, username, token, owner, name string) string {
	if provider == forge.GitLab {
		return fmt.Sprintf("https://oauth2:%s@gitlab.com/%s/%s.git", token, owner, name)
	}
	return fmt.Sprintf("https://%s:%s@github.com/%s/%s.git", username, token, owner, name)
}

func failure(message string) Result {
	return Result{OK: false, Message: message}
}

// Package gitx drives the git executable as a subprocess.
//
// git is treated as an opaque external command: every operation is a
// blocking invocation with a timeout, and a non-zero exit is classified
// into a user-facing reason by matching the combined output against known
// substrings. Matching on output text breaks with localized git builds;
// known limitation.
package gitx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Failure reasons recognized in git output.
var (
	ErrExecutableNotFound  = errors.New("git is not found - install git or check your PATH")
	ErrAuthFailed          = errors.New("git authentication failed - check your personal access token")
	ErrRepoNotFound        = errors.New("remote repository not found")
	ErrPermissionDenied    = errors.New("permission denied - token needs write access")
	ErrPasswordAuthRemoved = errors.New("password authentication is no longer supported - use a personal access token")
)

// CommandError wraps a failed git invocation with its raw output.
type CommandError struct {
	Command string
	Output  string
	Reason  error
	Err     error
}

func (e *CommandError) Error() string {
	if e.Reason != nil {
		return e.Reason.Error()
	}
	if e.Output != "" {
		return fmt.Sprintf("command '%s' failed: %v\noutput: %s", e.Command, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("command '%s' failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	if e.Reason != nil {
		return e.Reason
	}
	return e.Err
}

// classify maps combined git output to a known reason, or nil when the
// output matches nothing we recognize.
func classify(output string) error {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "invalid username or password"):
		return ErrAuthFailed
	case strings.Contains(lower, "repository not found"):
		return ErrRepoNotFound
	case strings.Contains(lower, "permission denied"):
		return ErrPermissionDenied
	case strings.Contains(lower, "support for password authentication was removed"):
		return ErrPasswordAuthRemoved
	}
	return nil
}

// SelectionMode says which files a staging pass picks up.
type SelectionMode int

const (
	// SelectAll stages everything under the project root that the ignore
	// rules allow.
	SelectAll SelectionMode = iota
	// SelectModified stages only already-tracked files with changes.
	SelectModified
	// SelectPaths stages exactly the listed relative paths.
	SelectPaths
)

// Selection is the staging policy for a commit.
type Selection struct {
	Mode  SelectionMode
	Paths []string
}

// Driver issues git commands against a single local directory.
type Driver struct {
	gitPath string
	dir     string
	runner  Runner
	timeout time.Duration
	log     *logrus.Logger
}

// NewDriver returns a driver using the real git executable at gitPath.
func NewDriver(gitPath, dir string, timeout time.Duration, log *logrus.Logger) *Driver {
	return NewDriverWithRunner(gitPath, dir, timeout, log, execRunner{})
}

// NewDriverWithRunner is NewDriver with an injected command runner.
func NewDriverWithRunner(gitPath, dir string, timeout time.Duration, log *logrus.Logger, runner Runner) *Driver {
	return &Driver{gitPath: gitPath, dir: dir, timeout: timeout, log: log, runner: runner}
}

// Dir returns the directory the driver operates on.
func (d *Driver) Dir() string {
	return d.dir
}

func (d *Driver) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	out, err := d.runner.Run(ctx, d.dir, d.gitPath, args...)
	if err != nil {
		cmdErr := &CommandError{
			Command: "git " + strings.Join(args, " "),
			Output:  out,
			Reason:  classify(out),
			Err:     err,
		}
		d.log.WithField("command", cmdErr.Command).Warn(cmdErr.Error())
		return out, cmdErr
	}
	return out, nil
}

// Init initializes a repository in the driver's directory.
func (d *Driver) Init() error {
	_, err := d.run("init")
	return err
}

// ConfigureIdentity sets the repo-local committer name and email.
func (d *Driver) ConfigureIdentity(name, email string) error {
	if _, err := d.run("config", "user.name", name); err != nil {
		return err
	}
	_, err := d.run("config", "user.email", email)
	return err
}

// Stage applies the selection policy.
func (d *Driver) Stage(sel Selection) error {
	var args []string
	switch sel.Mode {
	case SelectModified:
		args = []string{"add", "-u"}
	case SelectPaths:
		if len(sel.Paths) == 0 {
			return errors.New("no paths selected to stage")
		}
		args = append([]string{"add", "--"}, sel.Paths...)
	default:
		args = []string{"add", "."}
	}
	_, err := d.run(args...)
	return err
}

// HasPendingChanges reports whether anything is staged or pending per
// `git status --porcelain`.
func (d *Driver) HasPendingChanges() (bool, error) {
	out, err := d.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit records the staged changes.
func (d *Driver) Commit(message string) error {
	_, err := d.run("commit", "-m", message)
	return err
}

// SetBranch force-renames the current branch.
func (d *Driver) SetBranch(name string) error {
	_, err := d.run("branch", "-M", name)
	return err
}

// AddRemote registers url as the origin remote.
func (d *Driver) AddRemote(url string) error {
	_, err := d.run("remote", "add", "origin", url)
	return err
}

// Push uploads the branch. With setUpstream the branch is pushed with -u
// so later plain pushes need no destination.
func (d *Driver) Push(branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u", "origin", branch)
	}
	_, err := d.run(args...)
	return err
}

// Clone clones url into dest. The command runs in the driver's directory,
// so a relative dest lands under it.
func (d *Driver) Clone(url, dest string) error {
	_, err := d.run("clone", url, dest)
	return err
}

// IsRepository reports whether path already carries git metadata.
func IsRepository(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

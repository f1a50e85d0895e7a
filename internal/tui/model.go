// Package tui is the interactive front end.
//
// A single bubbletea model collects credentials and the upload target,
// hands the request to the upload workflow on a background goroutine, and
// renders progress and the terminal outcome. All workflow notifications
// arrive as tea messages, so the model itself never touches shared state.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/forge"
	"github.com/gitship/gitship/internal/gitx"
	"github.com/gitship/gitship/internal/upload"
)

// For mocking in tests
var newTeaProgram = tea.NewProgram

const (
	fieldUsername = iota
	fieldToken
	fieldProjectDir
	fieldRepo
	fieldCount
)

const maxLogLines = 8

type phase int

const (
	phaseForm phase = iota
	phaseRunning
	phaseDone
)

type (
	progressMsg upload.Progress
	resultMsg   upload.Result
	authMsg     struct {
		login string
		err   error
	}
	savedMsg struct{ err error }
)

// Model is the main application model.
type Model struct {
	cfg      *config.Config
	log      *logrus.Logger
	workflow *upload.Workflow

	inputs    []textinput.Model
	focus     int
	mode      upload.Mode
	selection gitx.SelectionMode
	private   bool

	phase    phase
	spin     spinner.Model
	progress string
	logLines []string
	result   upload.Result

	progressCh chan upload.Progress
	doneCh     chan upload.Result

	// Seam for tests; the default builds a real forge client.
	authCheck func(username, token string) tea.Cmd
}

// NewModel builds the form pre-filled from saved credentials.
func NewModel(cfg *config.Config, log *logrus.Logger, wf *upload.Workflow) Model {
	inputs := make([]textinput.Model, fieldCount)

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 40
	username.SetValue(cfg.Credentials.Username)
	username.Focus()
	inputs[fieldUsername] = username

	token := textinput.New()
	token.Placeholder = "personal access token"
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '*'
	token.CharLimit = 120
	token.Width = 40
	token.SetValue(cfg.Credentials.Token)
	inputs[fieldToken] = token

	dir := textinput.New()
	dir.Placeholder = "/path/to/project"
	dir.CharLimit = 250
	dir.Width = 50
	inputs[fieldProjectDir] = dir

	repo := textinput.New()
	repo.Placeholder = "repository name (or URL in existing mode)"
	repo.CharLimit = 200
	repo.Width = 50
	inputs[fieldRepo] = repo

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		cfg:        cfg,
		log:        log,
		workflow:   wf,
		inputs:     inputs,
		spin:       sp,
		progressCh: make(chan upload.Progress, 8),
		doneCh:     make(chan upload.Result, 1),
	}
	m.authCheck = m.defaultAuthCheck
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		m.progress = msg.Message
		m.appendLog(fmt.Sprintf("[%s] %s", msg.Step.String(), msg.Message))
		return m, waitForProgress(m.progressCh)

	case resultMsg:
		m.phase = phaseDone
		m.result = upload.Result(msg)
		if msg.OK {
			m.appendLog("upload succeeded")
		} else {
			m.appendLog("upload failed: " + msg.Message)
		}
		return m, nil

	case authMsg:
		if msg.err != nil {
			m.appendLog("auth test failed: " + msg.err.Error())
		} else {
			m.appendLog("auth test passed, logged in as " + msg.login)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.appendLog("failed to save credentials: " + msg.err.Error())
		} else {
			m.appendLog("credentials saved to " + config.DefaultFile)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseRunning:
		// In-flight workflow cannot be cancelled; only quitting the whole
		// program is allowed, and the worker dies with the process.
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil

	case phaseDone:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		}
		if msg.String() == "r" {
			m.phase = phaseForm
			m.progress = ""
			return m, nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case tea.KeyEnter:
		return m.startUpload()
	}

	switch msg.String() {
	case "ctrl+n":
		if m.mode == upload.NewRepository {
			m.mode = upload.ExistingRepository
		} else {
			m.mode = upload.NewRepository
		}
		return m, nil
	case "ctrl+f":
		// Explicit path selection is flag-only; the form offers the two
		// policies that need no extra input.
		if m.selection == gitx.SelectAll {
			m.selection = gitx.SelectModified
		} else {
			m.selection = gitx.SelectAll
		}
		return m, nil
	case "ctrl+p":
		m.private = !m.private
		return m, nil
	case "ctrl+t":
		username := strings.TrimSpace(m.inputs[fieldUsername].Value())
		token := strings.TrimSpace(m.inputs[fieldToken].Value())
		if username == "" || token == "" {
			m.appendLog("enter username and token before testing auth")
			return m, nil
		}
		m.appendLog("testing authentication...")
		return m, m.authCheck(username, token)
	case "ctrl+s":
		return m, m.saveCredentials()
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	req := m.buildRequest()

	err := m.workflow.Start(req, m.progressCh, m.doneCh)
	if err != nil {
		// Busy means a run is in flight; the second click is a no-op.
		m.appendLog(err.Error())
		return m, nil
	}

	m.phase = phaseRunning
	m.progress = "Starting upload..."
	return m, tea.Batch(m.spin.Tick, waitForProgress(m.progressCh), waitForResult(m.doneCh))
}

func (m Model) buildRequest() upload.Request {
	req := upload.Request{
		Mode:       m.mode,
		Username:   strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Token:      strings.TrimSpace(m.inputs[fieldToken].Value()),
		ProjectDir: strings.TrimSpace(m.inputs[fieldProjectDir].Value()),
		Selection:  gitx.Selection{Mode: m.selection},
		Private:    m.private,
	}

	target := strings.TrimSpace(m.inputs[fieldRepo].Value())
	if m.mode == upload.ExistingRepository && strings.Contains(target, "/") {
		req.RepoURL = target
	} else {
		req.RepoName = target
	}
	return req
}

func (m Model) saveCredentials() tea.Cmd {
	creds := config.Credentials{
		Username: strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Token:    strings.TrimSpace(m.inputs[fieldToken].Value()),
	}
	return func() tea.Msg {
		return savedMsg{err: m.cfg.SaveCredentials(creds)}
	}
}

func (m Model) defaultAuthCheck(username, token string) tea.Cmd {
	timeout := m.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		client := forge.NewGitHubClient(token)
		login, err := client.AuthenticatedUser(ctx)
		if err != nil {
			return authMsg{err: err}
		}
		if !strings.EqualFold(login, username) {
			return authMsg{err: fmt.Errorf("token belongs to %q, not %q", login, username)}
		}
		return authMsg{login: login}
	}
}

func waitForProgress(ch <-chan upload.Progress) tea.Cmd {
	return func() tea.Msg {
		return progressMsg(<-ch)
	}
}

func waitForResult(ch <-chan upload.Result) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(<-ch)
	}
}

// Run starts the interactive program.
func Run(cfg *config.Config, log *logrus.Logger, wf *upload.Workflow) error {
	p := newTeaProgram(NewModel(cfg, log, wf))
	_, err := p.Run()
	return err
}

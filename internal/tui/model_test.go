package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/gitx"
	"github.com/gitship/gitship/internal/logging"
	"github.com/gitship/gitship/internal/upload"
)

func newTestModel() Model {
	cfg := &config.Config{
		Credentials:    config.Credentials{Username: "alice", Token: "tok"},
		DefaultBranch:  "main",
		TimeoutSeconds: 5,
	}
	log := logging.Discard()
	return NewModel(cfg, log, upload.New(cfg, log))
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelPrefillsSavedCredentials(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, "alice", m.inputs[fieldUsername].Value())
	assert.Equal(t, "tok", m.inputs[fieldToken].Value())
	assert.Equal(t, fieldUsername, m.focus)
}

func TestTabMovesFocus(t *testing.T) {
	m := newTestModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, fieldToken, m.focus)

	prev, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = prev.(Model)
	assert.Equal(t, fieldUsername, m.focus)
}

func TestModeAndSelectionToggles(t *testing.T) {
	m := newTestModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = next.(Model)
	assert.Equal(t, upload.ExistingRepository, m.mode)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m = next.(Model)
	assert.Equal(t, gitx.SelectModified, m.selection)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m = next.(Model)
	assert.Equal(t, gitx.SelectAll, m.selection)
}

func TestBuildRequestUsesURLForExistingMode(t *testing.T) {
	m := newTestModel()
	m.mode = upload.ExistingRepository
	m.inputs[fieldRepo].SetValue("https://github.com/alice/proj")

	req := m.buildRequest()
	assert.Equal(t, "https://github.com/alice/proj", req.RepoURL)
	assert.Empty(t, req.RepoName)
}

func TestBuildRequestUsesNameForNewMode(t *testing.T) {
	m := newTestModel()
	m.inputs[fieldRepo].SetValue("proj")
	m.inputs[fieldProjectDir].SetValue("/tmp/proj")

	req := m.buildRequest()
	assert.Equal(t, "proj", req.RepoName)
	assert.Empty(t, req.RepoURL)
	assert.Equal(t, "/tmp/proj", req.ProjectDir)
}

func TestProgressAndResultMessages(t *testing.T) {
	m := newTestModel()
	m.phase = phaseRunning

	next, cmd := m.Update(progressMsg{Step: upload.StepStaging, Message: "Staging files..."})
	m = next.(Model)
	assert.Equal(t, "Staging files...", m.progress)
	assert.NotNil(t, cmd, "must keep listening for progress")

	next, _ = m.Update(resultMsg{OK: true, Message: "done", RepoURL: "https://github.com/a/p"})
	m = next.(Model)
	assert.Equal(t, phaseDone, m.phase)
	assert.True(t, m.result.OK)
}

func TestLogLinesAreBounded(t *testing.T) {
	m := newTestModel()
	for i := 0; i < maxLogLines*2; i++ {
		m.appendLog(fmt.Sprintf("line %d", i))
	}
	assert.Len(t, m.logLines, maxLogLines)
	assert.Equal(t, fmt.Sprintf("line %d", maxLogLines*2-1), m.logLines[len(m.logLines)-1])
}

func TestRunningPhaseIgnoresFormKeys(t *testing.T) {
	m := newTestModel()
	m.phase = phaseRunning

	next, cmd := m.Update(keyMsg("x"))
	m = next.(Model)
	assert.Equal(t, phaseRunning, m.phase)
	assert.Nil(t, cmd)
}

func TestViewRendersForm(t *testing.T) {
	m := newTestModel()
	out := m.View()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Username")
	assert.Contains(t, out, "new repository")
	assert.Contains(t, out, "all files")
}

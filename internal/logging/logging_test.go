package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, path, err := Setup(dir, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "gitship_"))

	log.Info("hello from the test")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello from the test")
	assert.Contains(t, string(content), "logging initialized")
}

func TestSetupDuplicatesToExtraWriter(t *testing.T) {
	var buf strings.Builder
	log, _, err := Setup(filepath.Join(t.TempDir(), "logs"), &buf)
	require.NoError(t, err)

	log.Warn("duplicated line")
	assert.Contains(t, buf.String(), "duplicated line")
}

func TestDiscardNeverPanics(t *testing.T) {
	Discard().Error("goes nowhere")
}

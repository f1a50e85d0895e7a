package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/forge"
	"github.com/gitship/gitship/internal/gitx"
	"github.com/gitship/gitship/internal/upload"
)

func TestBuildRequest(t *testing.T) {
	cfg := &config.Config{}

	req, err := buildRequest(cfg, uploadFlags{
		mode:     "new",
		provider: "github",
		user:     "alice",
		token:    "tok",
		repo:     "proj",
		dir:      "/tmp/proj",
		selects:  "all",
	})
	require.NoError(t, err)
	assert.Equal(t, upload.NewRepository, req.Mode)
	assert.Equal(t, forge.GitHub, req.Provider)
	assert.Equal(t, gitx.SelectAll, req.Selection.Mode)
}

func TestBuildRequestExistingGitLab(t *testing.T) {
	req, err := buildRequest(&config.Config{}, uploadFlags{
		mode:     "existing",
		provider: "gitlab",
		user:     "alice",
		token:    "tok",
		url:      "https://gitlab.com/group/proj",
		dir:      "/tmp/proj",
		selects:  "modified",
	})
	require.NoError(t, err)
	assert.Equal(t, upload.ExistingRepository, req.Mode)
	assert.Equal(t, forge.GitLab, req.Provider)
	assert.Equal(t, gitx.SelectModified, req.Selection.Mode)
}

func TestBuildRequestPathsSelection(t *testing.T) {
	req, err := buildRequest(&config.Config{}, uploadFlags{
		mode:     "new",
		provider: "github",
		selects:  "paths",
		paths:    []string{"a.txt", "b.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, gitx.SelectPaths, req.Selection.Mode)
	assert.Equal(t, []string{"a.txt", "b.txt"}, req.Selection.Paths)

	_, err = buildRequest(&config.Config{}, uploadFlags{
		mode: "new", provider: "github", selects: "paths",
	})
	assert.Error(t, err)
}

func TestBuildRequestFallsBackToSavedCredentials(t *testing.T) {
	cfg := &config.Config{
		Credentials: config.Credentials{Username: "saved-user", Token: "saved-token"},
	}

	req, err := buildRequest(cfg, uploadFlags{
		mode: "new", provider: "github", selects: "all",
	})
	require.NoError(t, err)
	assert.Equal(t, "saved-user", req.Username)
	assert.Equal(t, "saved-token", req.Token)
}

func TestBuildRequestRejectsBadFlags(t *testing.T) {
	_, err := buildRequest(&config.Config{}, uploadFlags{mode: "sideways", provider: "github", selects: "all"})
	assert.Error(t, err)

	_, err = buildRequest(&config.Config{}, uploadFlags{mode: "new", provider: "sourcehut", selects: "all"})
	assert.Error(t, err)

	_, err = buildRequest(&config.Config{}, uploadFlags{mode: "new", provider: "github", selects: "everything"})
	assert.Error(t, err)
}

func TestRootCommandHasUploadSubcommand(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "upload")
}

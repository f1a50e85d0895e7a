package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.ini"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com", cfg.APIBaseURL)
	assert.Equal(t, "main", cfg.DefaultBranch)
	assert.Equal(t, 800, cfg.WindowWidth)
	assert.Equal(t, 600, cfg.WindowHeight)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.True(t, cfg.Credentials.Empty())
}

func TestSaveAndReloadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")

	cfg, err := Load(path)
	require.NoError(t, err)

	creds := Credentials{Username: "alice", Token: "ghp_secret123"}
	require.NoError(t, cfg.SaveCredentials(creds))

	// The file must never contain the clear-text token.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ghp_secret123")
	assert.Contains(t, string(raw), base64.StdEncoding.EncodeToString([]byte("ghp_secret123")))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, creds, reloaded.Credentials)
}

func TestSaveCredentialsRequiresBoth(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.ini"))
	require.NoError(t, err)

	assert.Error(t, cfg.SaveCredentials(Credentials{Username: "alice"}))
	assert.Error(t, cfg.SaveCredentials(Credentials{Token: "tok"}))
}

func TestDecodeGarbageYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := "[github]\nusername_encoded = !!not-base64!!\ntoken_encoded = ???\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Credentials.Empty())
}

func TestCleanRepoName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "my-project", "my-project"},
		{"spaces become hyphens", "my cool app", "my-cool-app"},
		{"leading dot stripped", ".hidden", "hidden"},
		{"trailing hyphens stripped", "proj---", "proj"},
		{"unicode squashed", "prójēct", "pr-j-ct"},
		{"empty falls back", "", "my-project"},
		{"only invalid falls back", "!!!", "my-project"},
		{"long name capped", strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanRepoName(tc.in))
		})
	}
}

func TestValidateProjectDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0o644))

	empty := t.TempDir()

	file := filepath.Join(dir, "hello.txt")

	assert.NoError(t, ValidateProjectDir(dir))
	assert.Error(t, ValidateProjectDir(""))
	assert.Error(t, ValidateProjectDir(filepath.Join(dir, "missing")))
	assert.Error(t, ValidateProjectDir(file))
	assert.Error(t, ValidateProjectDir(empty))
}

func TestTimeoutFallback(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 0}
	assert.Equal(t, "30s", cfg.Timeout().String())

	cfg.TimeoutSeconds = 10
	assert.Equal(t, "10s", cfg.Timeout().String())
}

// Package config loads and persists gitship settings from an INI file.
//
// The file holds window and timeout defaults plus the saved credentials.
// Credentials are base64-encoded before they touch disk. That is
// obfuscation, not encryption: it keeps the token out of casual view and
// out of grep, nothing more.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultFile is the config file name, relative to the working directory.
const DefaultFile = "config.ini"

const maxRepoNameLength = 100

// Credentials is a username plus personal access token pair.
type Credentials struct {
	Username string
	Token    string
}

// Empty reports whether either half of the pair is missing.
func (c Credentials) Empty() bool {
	return c.Username == "" || c.Token == ""
}

// Config is the loaded application configuration.
type Config struct {
	Credentials Credentials

	APIBaseURL    string
	GitLabBaseURL string
	DefaultBranch string

	WindowWidth  int
	WindowHeight int

	TimeoutSeconds int

	path string
	v    *viper.Viper
}

// Load reads the config file at path. A missing file is not an error;
// defaults are returned and the file is created on the first save.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	v.SetDefault("github.api_base_url", "https://api.github.com")
	v.SetDefault("gitlab.base_url", "https://gitlab.com")
	v.SetDefault("application.default_branch", "main")
	v.SetDefault("application.window_width", 800)
	v.SetDefault("application.window_height", 600)
	v.SetDefault("launch.timeout_seconds", 30)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg := &Config{
		APIBaseURL:     v.GetString("github.api_base_url"),
		GitLabBaseURL:  v.GetString("gitlab.base_url"),
		DefaultBranch:  v.GetString("application.default_branch"),
		WindowWidth:    v.GetInt("application.window_width"),
		WindowHeight:   v.GetInt("application.window_height"),
		TimeoutSeconds: v.GetInt("launch.timeout_seconds"),
		path:           path,
		v:              v,
	}

	cfg.Credentials = Credentials{
		Username: decode(v.GetString("github.username_encoded")),
		Token:    decode(v.GetString("github.token_encoded")),
	}

	return cfg, nil
}

// Timeout returns the configured network/subprocess timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SaveCredentials writes the given pair back to the config file in
// obfuscated form. The rest of the file is preserved.
func (c *Config) SaveCredentials(creds Credentials) error {
	if creds.Empty() {
		return errors.New("both username and token are required")
	}

	c.v.Set("github.username_encoded", encode(creds.Username))
	c.v.Set("github.token_encoded", encode(creds.Token))

	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}

	c.Credentials = creds
	return nil
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// decode reverses encode. Garbage in the file yields an empty string
// rather than an error; the user just re-enters credentials.
func decode(s string) string {
	if s == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(b)
}

var repoNameInvalid = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// CleanRepoName rewrites name into something the hosting service accepts:
// invalid characters become hyphens, leading/trailing hyphens and dots are
// stripped, and the result is capped at 100 characters.
func CleanRepoName(name string) string {
	cleaned := repoNameInvalid.ReplaceAllString(name, "-")
	cleaned = strings.Trim(cleaned, "-.")
	if len(cleaned) > maxRepoNameLength {
		cleaned = cleaned[:maxRepoNameLength]
	}
	if cleaned == "" {
		return "my-project"
	}
	return cleaned
}

// ValidateProjectDir checks that path points at a usable project folder.
func ValidateProjectDir(path string) error {
	if path == "" {
		return errors.New("no project folder selected")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("cannot read directory: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("directory is empty: %s", path)
	}
	return nil
}

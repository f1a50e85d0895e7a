package gitx

import (
	"os"
	"path/filepath"
)

// ignoreTemplate keeps the credential-bearing config file, logs, and
// common build leftovers out of any commit. The .gitignore itself is
// committed; config.ini must never be.
const ignoreTemplate = `# Configuration files with credentials
config.ini
*.ini

# Log files
logs/
*.log

# IDE files
.vscode/
.idea/

# OS files
.DS_Store
Thumbs.db

# Build artifacts
dist/
build/
*.zip

# Environment variables
.env
.env.local
`

// WriteIgnoreFile writes the standard ignore rules into dir unless a
// .gitignore is already present. Reports whether a file was written.
func WriteIgnoreFile(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(ignoreTemplate), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

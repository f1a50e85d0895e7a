package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/forge"
	"github.com/gitship/gitship/internal/gitx"
	"github.com/gitship/gitship/internal/logging"
	"github.com/gitship/gitship/internal/upload"
)

type uploadFlags struct {
	mode     string
	provider string
	user     string
	token    string
	repo     string
	url      string
	dir      string
	message  string
	selects  string
	paths    []string
	private  bool
	save     bool
}

func newUploadCommand() *cobra.Command {
	flags := uploadFlags{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a folder without the interactive UI",
		Example: `  # Create a new repository and push the folder
  gitship upload -d ./myproject -r myproject -u alice -t <token>

  # Push changed files to an existing repository
  gitship upload --mode existing --url https://github.com/alice/myproject \
      -d ./myproject -u alice -t <token> --select modified`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(flags)
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "new", "Upload mode (new or existing)")
	cmd.Flags().StringVarP(&flags.provider, "provider", "p", "github", "Hosting provider (github or gitlab)")
	cmd.Flags().StringVarP(&flags.user, "user", "u", "", "Account username")
	cmd.Flags().StringVarP(&flags.token, "token", "t", "", "Personal access token")
	cmd.Flags().StringVarP(&flags.repo, "repo", "r", "", "Repository name")
	cmd.Flags().StringVar(&flags.url, "url", "", "Repository URL (existing mode)")
	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "", "Project folder to upload")
	cmd.Flags().StringVarP(&flags.message, "message", "m", "", "Commit message (default: Initial commit)")
	cmd.Flags().StringVar(&flags.selects, "select", "all", "Files to stage (all, modified, or paths)")
	cmd.Flags().StringSliceVar(&flags.paths, "paths", nil, "Relative paths to stage with --select paths")
	cmd.Flags().BoolVar(&flags.private, "private", false, "Create the repository as private")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Save credentials to config.ini after a successful run")

	return cmd
}

func runUpload(flags uploadFlags) error {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return err
	}

	// Non-interactive runs log to the terminal as well as the file.
	log, _, err := logging.Setup("logs", os.Stderr)
	if err != nil {
		log = logging.Discard()
	}

	req, err := buildRequest(cfg, flags)
	if err != nil {
		return err
	}

	result := upload.New(cfg, log).Run(req)
	if !result.OK {
		return errors.New(result.Message)
	}

	fmt.Println(result.Message)

	if flags.save {
		creds := config.Credentials{Username: req.Username, Token: req.Token}
		if err := cfg.SaveCredentials(creds); err != nil {
			log.WithError(err).Warn("failed to save credentials")
		}
	}
	return nil
}

func buildRequest(cfg *config.Config, flags uploadFlags) (upload.Request, error) {
	req := upload.Request{
		Username:      flags.user,
		Token:         flags.token,
		RepoName:      flags.repo,
		RepoURL:       flags.url,
		ProjectDir:    flags.dir,
		CommitMessage: flags.message,
		Private:       flags.private,
	}

	// Saved credentials fill anything the flags left out.
	if req.Username == "" {
		req.Username = cfg.Credentials.Username
	}
	if req.Token == "" {
		req.Token = cfg.Credentials.Token
	}

	switch strings.ToLower(flags.mode) {
	case "new":
		req.Mode = upload.NewRepository
	case "existing":
		req.Mode = upload.ExistingRepository
	default:
		return req, fmt.Errorf("invalid mode %q: use new or existing", flags.mode)
	}

	switch strings.ToLower(flags.provider) {
	case "github":
		req.Provider = forge.GitHub
	case "gitlab":
		req.Provider = forge.GitLab
	default:
		return req, fmt.Errorf("invalid provider %q: use github or gitlab", flags.provider)
	}

	switch strings.ToLower(flags.selects) {
	case "all":
		req.Selection = gitx.Selection{Mode: gitx.SelectAll}
	case "modified":
		req.Selection = gitx.Selection{Mode: gitx.SelectModified}
	case "paths":
		if len(flags.paths) == 0 {
			return req, errors.New("--select paths requires --paths")
		}
		req.Selection = gitx.Selection{Mode: gitx.SelectPaths, Paths: flags.paths}
	default:
		return req, fmt.Errorf("invalid selection %q: use all, modified, or paths", flags.selects)
	}

	return req, nil
}

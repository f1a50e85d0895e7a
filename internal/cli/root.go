// Package cli defines the cobra command surface.
//
// The bare `gitship` command opens the interactive TUI; `gitship upload`
// runs the same workflow non-interactively from flags.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitship/gitship/internal/config"
	"github.com/gitship/gitship/internal/logging"
	"github.com/gitship/gitship/internal/tui"
	"github.com/gitship/gitship/internal/upload"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRootCommand builds the root command and its subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitship",
		Short: "Publish a local folder to GitHub or GitLab",
		Long: `gitship creates (or locates) a repository on a hosting service and
pushes a local folder's contents to it, driving the git executable
underneath. Run without arguments for the interactive UI.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return tui.Run(cfg, log, upload.New(cfg, log))
		},
	}

	rootCmd.AddCommand(newUploadCommand())
	return rootCmd
}

// bootstrap loads the config file and sets up file logging.
func bootstrap() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		return nil, nil, err
	}
	log, _, err := logging.Setup("logs", nil)
	if err != nil {
		// A broken log directory should not keep the tool from working.
		log = logging.Discard()
	}
	return cfg, log, nil
}

// Execute runs the root command and translates errors to exit codes.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

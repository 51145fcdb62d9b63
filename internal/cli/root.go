package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/ShelfPlan/internal/project"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the planogram CLI with ctx and returns an error if any
// command fails.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the planogram command tree.
//
// Logging goes to the command's error writer at info level, or debug level
// with --verbose (-v). The logger is attached to the command context and
// retrieved with loggerFromContext.
func NewRootCommand() *cobra.Command {
	var verbose bool
	e := &env{}

	root := &cobra.Command{
		Use:          "planogram",
		Short:        "planogram places products on promo rack shelves",
		Long:         `planogram checks and builds promo rack layouts from a product catalog. Products are placed left to right on each shelf, separated by the rack's inter-product gap and kept inside its edge margins.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("planogram %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&e.configDir, "config-dir", project.DefaultConfigDir(), "directory holding settings, custom templates and the catalog")
	root.PersistentFlags().StringVar(&e.catalogPath, "catalog", "", "catalog file (CSV, XLSX or JSON) to use instead of the stored catalog")

	root.AddCommand(newTemplatesCmd(e))
	root.AddCommand(newCatalogCmd(e))
	root.AddCommand(newCheckCmd(e))
	root.AddCommand(newFillCmd(e))
	root.AddCommand(newCompareCmd(e))

	return root
}

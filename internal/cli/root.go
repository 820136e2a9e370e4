// Package cli implements the slowly command line. With no subcommand it opens
// the terminal UI.
package cli

import (
	"fmt"
	"os"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/config"
	"github.com/spf13/cobra"
)

// globals are the persistent flags shared by every command
type globals struct {
	configPath string
	memory     bool
	theme      string
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "slowly",
		Short: "slowly - a gentle personal task tracker",
		Long: `slowly keeps a calm list of what you mean to do, lets you close work
out with a short retrospective, and shows what you finished day by day.

Run without arguments to open the terminal UI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVar(&g.memory, "memory", false, "keep everything in memory (nothing is saved)")
	root.Flags().StringVar(&g.theme, "theme", "", "color theme (nord, gruvbox)")

	root.AddCommand(
		newAddCmd(g),
		newLsCmd(g),
		newShowCmd(g),
		newDoneCmd(g),
		newFixCmd(g),
		newRmCmd(g),
		newHistoryCmd(g),
		newTagCmd(g),
		newQuoteCmd(g),
		newExportCmd(g),
		newImportCmd(g),
		newServeCmd(g),
		newVersionCmd(version),
	)
	return root
}

// Execute runs the root command
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, Red("Error:"), err)
		os.Exit(1)
	}
}

// open loads configuration and opens the application. One-shot commands do
// not take the instance lock so they can run beside the UI.
func (g *globals) open(cmd *cobra.Command, lock bool) (*app.App, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.theme != "" {
		cfg.Theme = g.theme
	}

	a, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: g.configPath,
		Lock:       lock,
		Memory:     g.memory,
	})
	if err != nil {
		return nil, err
	}

	if err := a.Sync(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

package main

import (
	"context"
	"os"
	"os/signal"

	"sonar-report/cmd/sonar-report/profile"
	"sonar-report/pkg/lib"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Shared flags, bound to the root persistent flags so all subcommands inherit them.
var (
	flagProfile string
	flagNoColor bool
)

func main() {
	root := &cobra.Command{
		Use:   "sonar-report",
		Short: "Render SonarQube vulnerabilities into an HTML (and PDF) report",
		Long: `sonar-report fetches the VULNERABILITY issues of one project from a
SonarQube server, sorts them by severity and writes an HTML report to
Output/<timestamp>-<project>/, optionally printed to PDF with a headless
Chrome or Chromium.

Get started:
  sonar-report init       Create a profile interactively
  sonar-report projects   List projects visible to your token
  sonar-report            Generate the report
  sonar-report browse     Browse the sorted issues in the terminal`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lib.SetNoColor(flagNoColor)
		},
	}

	root.PersistentFlags().StringVar(&flagProfile, "profile", profile.DefaultPath, "Profile file (.json, .yaml or .yml)")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	bindGenerate(root)
	root.AddCommand(newInitCommand())
	root.AddCommand(newProjectsCommand())
	root.AddCommand(newBrowseCommand())

	root.SilenceErrors = true
	root.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		lib.Exit(err)
	}
}

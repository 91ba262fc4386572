package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sonar-report/cmd/sonar-report/profile"
	"sonar-report/cmd/sonar-report/report"
	"sonar-report/cmd/sonar-report/sonar"
	"sonar-report/pkg/lib"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCommand() *cobra.Command {
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the sorted vulnerabilities in the terminal",
		Long: "Fetch the project's vulnerabilities, sort them like the report does and\n" +
			"show them in an interactive table. Nothing is written to disk.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := profile.Load(flagProfile)
			if err != nil {
				return err
			}
			client := sonar.NewClient(cfg.ServerURL, cfg.Token, cfg.UserToken, cfg.HTTPTimeout)
			issues, err := client.FetchVulnerabilities(cmd.Context(), cfg.ProjectKey)
			if errors.Is(err, sonar.ErrNoIssues) {
				lib.Stderr.Warn("no vulnerabilities found for %s", cfg.ProjectKey)
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetching vulnerabilities: %w", err)
			}

			res := report.Build(issues)
			if noTUI {
				printRecords(os.Stdout, cfg.ProjectKey, res)
				return nil
			}
			p := tea.NewProgram(newBrowseModel(cfg.ProjectKey, res), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print a plain table instead of the interactive view")
	return cmd
}

func printRecords(w io.Writer, projectKey string, res report.Result) {
	fmt.Fprintf(w, "Project:  %s\n", projectKey)
	fmt.Fprintf(w, "Vulnerabilities: %d (critical %d, major %d, minor %d)\n\n",
		res.Counts.Total(), res.Counts.Critical, res.Counts.Major, res.Counts.Minor)
	fmt.Fprintf(w, "%-9s %-22s %-6s %s\n", "SEVERITY", "RULE", "LINE", "COMPONENT")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, r := range res.Records {
		fmt.Fprintf(w, "%-9s %-22s %-6s %s\n", r.Severity, r.Rule, r.Line, r.Component)
	}
}

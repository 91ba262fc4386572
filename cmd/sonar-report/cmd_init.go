package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"sonar-report/cmd/sonar-report/profile"
	"sonar-report/pkg/lib"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a profile interactively",
		Long: "Ask for the server, project and tokens and write them to the profile\n" +
			"file (--profile, default profile.json). The format follows the file\n" +
			"extension: .json, .yaml or .yml.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(flagProfile); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", flagProfile)
				}
			}

			f := &profile.File{SonarURL: "http://localhost:9000"}
			if err := newProfileForm(f).Run(); err != nil {
				return err
			}
			if _, err := profile.Resolve(f); err != nil {
				return err
			}
			if err := profile.Save(flagProfile, f); err != nil {
				return err
			}
			lib.Stderr.Success("profile written to %s", flagProfile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing profile")
	return cmd
}

func newProfileForm(f *profile.File) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SonarQube URL").
				Value(&f.SonarURL).
				Validate(validateServerURL),
			huh.NewInput().
				Title("Project key").
				Value(&f.ProjectName).
				Validate(required("project key")),
			huh.NewInput().
				Title("Branch").
				Description("Leave empty for the main branch").
				Value(&f.ProjectBranch),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Global or project analysis token").
				Description("Used for the issue search and the quality gate badge").
				EchoMode(huh.EchoModePassword).
				Value(&f.GlobalToken).
				Validate(required("token")),
			huh.NewInput().
				Title("User token").
				Description("Used to issue the badge token").
				EchoMode(huh.EchoModePassword).
				Value(&f.UserToken).
				Validate(required("user token")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Report file name").
				Description("Leave empty for <project>_report.html").
				Value(&f.ReportName).
				Validate(func(s string) error {
					if s != "" && !strings.HasSuffix(strings.ToLower(s), ".html") {
						return errors.New("must end in .html")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Export a PDF as well?").
				Value(&f.ExportPDF),
			huh.NewInput().
				Title("Chrome/Chromium executable").
				Description("Optional; standard install locations are tried otherwise").
				Value(&f.ChromePath),
		),
	)
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateServerURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an absolute http(s) URL")
	}
	return nil
}

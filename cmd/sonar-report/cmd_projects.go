package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sonar-report/cmd/sonar-report/profile"
	"sonar-report/cmd/sonar-report/sonar"
	"sonar-report/pkg/lib"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

func newProjectsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects visible to the profile's token",
		Long: "List the projects on the server. With --pick, choose one in a fuzzy\n" +
			"finder and store its key as project_name in the profile.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := profile.Read(flagProfile)
			if err != nil {
				return err
			}
			if f.SonarURL == "" || f.PrimaryToken() == "" {
				return errors.New("the profile needs sonar_url and global_token or project_token")
			}
			timeout, err := f.HTTPTimeout()
			if err != nil {
				return err
			}
			client := sonar.NewClient(f.SonarURL, f.PrimaryToken(), f.UserToken, timeout)

			projects, err := client.FetchProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch projects: %w", err)
			}
			if len(projects) == 0 {
				lib.Stderr.Warn("no projects visible to this token")
				return nil
			}

			if !pick {
				printProjects(projects, f.ProjectName)
				return nil
			}

			key, err := pickProject(projects)
			if err != nil {
				return err
			}
			f.ProjectName = key
			if err := profile.Save(flagProfile, f); err != nil {
				return err
			}
			lib.Stderr.Success("project_name set to %s in %s", key, flagProfile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "Select a project interactively and save it to the profile")
	return cmd
}

func printProjects(projects []sonar.Project, current string) {
	width := len("KEY")
	for _, p := range projects {
		width = max(width, len(p.Key))
	}
	fmt.Fprintf(os.Stdout, "  %-*s  %s\n", width, "KEY", "NAME")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", width+24))
	for _, p := range projects {
		marker := " "
		if p.Key == current {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %-*s  %s\n", marker, width, p.Key, p.Name)
	}
}

// pickProject lets the user fuzzy-search the project list and returns the
// chosen key.
func pickProject(projects []sonar.Project) (string, error) {
	idx, err := fuzzyfinder.Find(
		projects,
		func(i int) string {
			return projects[i].Key + "  " + projects[i].Name
		},
		fuzzyfinder.WithPromptString("Select project: "),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.New("no project selected")
		}
		return "", err
	}
	return projects[idx].Key, nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/integrations/github"
	"github.com/matzehuels/relfetch/pkg/release"
)

// changelogCommand creates the "changelog" command.
func (c *CLI) changelogCommand() *cobra.Command {
	var current string
	cmd := &cobra.Command{
		Use:   "changelog <owner/repo>",
		Short: "Print the release notes of every release newer than the installed version",
		Long: `Print the release notes of every release newer than the installed version.

The installed version is given without the "v" prefix. It must appear on the
first page of the repository's releases; older versions are reported as not
found rather than guessed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), func(svc *services) error {
				version, err := installedVersion(current, svc)
				if err != nil {
					return err
				}
				notes, err := release.Changelog(cmd.Context(), svc.github, repo, version)
				if err != nil {
					return err
				}
				printNotes(notes)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "installed version (default: the recorded installed version)")
	return cmd
}

// checkCommand creates the "check" command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		current string
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "check <owner/repo>",
		Short: "Report whether a newer release than the installed version exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), func(svc *services) error {
				version, err := installedVersion(current, svc)
				if err != nil {
					return err
				}
				if save {
					if err := svc.state.SetInstalledVersion(version); err != nil {
						return err
					}
				}

				latest, err := svc.github.LatestRelease(cmd.Context(), repo)
				if err != nil {
					return err
				}
				newer, err := release.IsNewer(latest.Tag, version)
				if errors.Is(err, errors.ErrCodeInvalidTag) {
					printWarning("Latest release %s is not a semantic version; compare manually", latest.Tag)
					return nil
				}
				if err != nil {
					return err
				}
				if !newer {
					printSuccess("Up to date %s", styleDim.Render("("+version+")"))
					return nil
				}
				printInfo("Update available: %s %s %s", styleDim.Render(version), iconArrow, styleTag.Render(latest.Tag))
				printDetail("relfetch changelog %s --current %s", repo, version)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "installed version (default: the recorded installed version)")
	cmd.Flags().BoolVar(&save, "save", false, "record --current as the installed version")
	return cmd
}

// installedVersion returns flag, or the recorded installed version when the
// flag is empty.
func installedVersion(flag string, svc *services) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := svc.state.InstalledVersion(); v != "" {
		return v, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "no installed version: pass --current or run check --current <version> --save")
}

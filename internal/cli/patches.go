package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/integrations/github"
	"github.com/matzehuels/relfetch/pkg/patches"
)

// patchesCommand creates the "patches" command.
func (c *CLI) patchesCommand() *cobra.Command {
	var (
		directURL string
		reuse     bool
		pkg       string
		version   string
		all       bool
	)
	cmd := &cobra.Command{
		Use:   "patches [owner/repo] [tag]",
		Short: "List the patches of a catalog release",
		Long: `List the patches of a catalog release.

Without a tag the latest release is used. The resolved catalog URL is
recorded so --reuse can skip the release lookup next time.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, tag, err := repoAndTag(args, c.settings.PatchesRepo)
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), func(svc *services) error {
				if directURL == "" && reuse {
					directURL = svc.state.PatchesDownloadURL()
				}
				list, err := svc.patches.Load(cmd.Context(), repo, tag, directURL)
				if err != nil {
					return err
				}
				shown := patches.Filter(list, pkg, version, all)
				for _, p := range shown {
					printPatch(p)
				}
				printDetail("%d of %d patches", len(shown), len(list))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&directURL, "url", "", "download the catalog from this URL instead of resolving a release")
	cmd.Flags().BoolVar(&reuse, "reuse", false, "use the last recorded catalog URL")
	cmd.Flags().StringVar(&pkg, "package", "", "only patches compatible with this app package")
	cmd.Flags().StringVar(&version, "app-version", "", "with --package, only patches supporting this app version")
	cmd.Flags().BoolVar(&all, "all", false, "include patches excluded by default")
	return cmd
}

// integrationsCommand creates the "integrations" command.
func (c *CLI) integrationsCommand() *cobra.Command {
	var (
		directURL string
		reuse     bool
	)
	cmd := &cobra.Command{
		Use:   "integrations [owner/repo] [tag]",
		Short: "Download the integrations binary of a release",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, tag, err := repoAndTag(args, c.settings.IntegrationsRepo)
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), func(svc *services) error {
				if directURL == "" && reuse {
					directURL = svc.state.IntegrationsDownloadURL()
				}
				spin := newSpinner(cmd.Context(), "Fetching integrations")
				spin.Start()
				path, err := svc.patches.Integrations(cmd.Context(), repo, tag, directURL)
				spin.Stop()
				if err != nil {
					return err
				}
				printSuccess("Integrations ready")
				printFile(path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&directURL, "url", "", "download from this URL instead of resolving a release")
	cmd.Flags().BoolVar(&reuse, "reuse", false, "use the last recorded integrations URL")
	return cmd
}

func repoAndTag(args []string, defaultRepo string) (repo, tag string, err error) {
	repo = defaultRepo
	if len(args) > 0 {
		repo = args[0]
	}
	if len(args) > 1 {
		tag = args[1]
	}
	repo, err = github.ParseRepoRef(repo)
	return repo, tag, err
}

func printPatch(p patches.Patch) {
	name := styleHighlight.Render(p.Name)
	if p.Excluded {
		name += " " + styleDim.Render("(excluded)")
	}
	fmt.Fprintln(stdout, styleDim.Render(iconBullet)+" "+name)
	if p.Description != "" {
		printDetail("%s", p.Description)
	}
	for _, cp := range p.CompatiblePackages {
		versions := "any version"
		if len(cp.Versions) > 0 {
			versions = strings.Join(cp.Versions, ", ")
		}
		printDetail("%s: %s", cp.Name, versions)
	}
}

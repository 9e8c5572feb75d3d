package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/commits"
	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/integrations/github"
)

// commitsCommand creates the "commits" command.
func (c *CLI) commitsCommand() *cobra.Command {
	var (
		since string
		days  int
	)
	cmd := &cobra.Command{
		Use:   "commits <package-id> [owner/repo]",
		Short: "List patch source commits for an app package",
		Long: `List patch source commits for an app package, newest first.

Only commits touching the package's patch directory are listed. Packages
without a known directory are rejected; add them under [package_paths] in
the settings file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := c.settings.PatchesRepo
			if len(args) == 2 {
				repo = args[1]
			}
			repo, err := github.ParseRepoRef(repo)
			if err != nil {
				return err
			}

			from := time.Now().AddDate(0, 0, -days)
			if since != "" {
				from, err = time.Parse(time.RFC3339, since)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "--since must be RFC 3339")
				}
			}

			return c.withServices(cmd.Context(), func(svc *services) error {
				entries, err := svc.commits.Since(cmd.Context(), args[0], repo, from)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("No commits since %s", from.Format(time.DateOnly))
					return nil
				}
				for _, line := range commits.Lines(entries) {
					printPlain(line)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only commits at or after this RFC 3339 time")
	cmd.Flags().IntVar(&days, "days", 30, "look back this many days when --since is not set")
	return cmd
}

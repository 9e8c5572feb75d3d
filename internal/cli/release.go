package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/integrations/github"
	"github.com/matzehuels/relfetch/pkg/release"
)

// latestCommand creates the "latest" command.
func (c *CLI) latestCommand() *cobra.Command {
	var notes bool
	cmd := &cobra.Command{
		Use:   "latest <owner/repo>",
		Short: "Show the newest release of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showRelease(cmd, args[0], notes, func(gh *github.Client, repo string) (*release.Release, error) {
				return gh.LatestRelease(cmd.Context(), repo)
			})
		},
	}
	cmd.Flags().BoolVar(&notes, "notes", false, "print the release notes")
	return cmd
}

// releaseCommand creates the "release" command.
func (c *CLI) releaseCommand() *cobra.Command {
	var notes bool
	cmd := &cobra.Command{
		Use:   "release <owner/repo> <tag>",
		Short: "Show the release with an exact tag",
		Long:  `Show the release with an exact tag. The tag is passed to the feed verbatim, so include any prefix the repository uses (for example "v1.2.0").`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showRelease(cmd, args[0], notes, func(gh *github.Client, repo string) (*release.Release, error) {
				return gh.ReleaseByTag(cmd.Context(), repo, args[1])
			})
		},
	}
	cmd.Flags().BoolVar(&notes, "notes", false, "print the release notes")
	return cmd
}

// trackCommand creates the "track" command.
func (c *CLI) trackCommand() *cobra.Command {
	var notes bool
	cmd := &cobra.Command{
		Use:   "track <owner/repo> <track>",
		Short: "Show the newest release on a named track",
		Long: `Show the newest release on a named track.

The "stable" track is the repository's latest full release. Any other name
selects the newest release whose tag carries that prerelease identifier,
so "dev" matches "v2.1.0-dev.3".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showRelease(cmd, args[0], notes, func(gh *github.Client, repo string) (*release.Release, error) {
				return gh.LatestNamedRelease(cmd.Context(), repo, args[1])
			})
		},
	}
	cmd.Flags().BoolVar(&notes, "notes", false, "print the release notes")
	return cmd
}

func (c *CLI) showRelease(cmd *cobra.Command, ref string, notes bool, lookup func(*github.Client, string) (*release.Release, error)) error {
	repo, err := github.ParseRepoRef(ref)
	if err != nil {
		return err
	}
	return c.withServices(cmd.Context(), func(svc *services) error {
		prog := newProgress(c.Logger)
		rel, err := lookup(svc.github, repo)
		if err != nil {
			return err
		}
		prog.done("resolved release", "repo", repo, "tag", rel.Tag)

		printRelease(rel)
		if notes {
			printNotes(rel)
		}
		return nil
	})
}

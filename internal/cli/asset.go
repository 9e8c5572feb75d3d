package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/integrations/github"
	"github.com/matzehuels/relfetch/pkg/release"
)

// assetCommand creates the "asset" command.
func (c *CLI) assetCommand() *cobra.Command {
	var printURL bool
	cmd := &cobra.Command{
		Use:   "asset <owner/repo> <tag> <suffix>",
		Short: "Download the first asset of a release whose name ends with suffix",
		Long: `Download the first asset of a release whose name ends with suffix.

Use "latest" as the tag for the newest release. Downloads are kept in the
cache directory; asking for the same asset again reuses the local file.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}
			tag, suffix := args[1], args[2]

			return c.withServices(cmd.Context(), func(svc *services) error {
				var rel *release.Release
				if tag == "latest" {
					rel, err = svc.github.LatestRelease(cmd.Context(), repo)
				} else {
					rel, err = svc.github.ReleaseByTag(cmd.Context(), repo, tag)
				}
				if err != nil {
					return err
				}

				asset, ok := release.SelectAsset(rel, suffix)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "release %s has no asset ending in %q", rel.Tag, suffix)
				}
				if printURL {
					printPlain(asset.DownloadURL)
					return nil
				}

				cached := svc.files.Cached(asset.DownloadURL)
				spin := newSpinner(cmd.Context(), fmt.Sprintf("Downloading %s", asset.Name))
				spin.Start()
				path, err := svc.files.Fetch(cmd.Context(), asset.DownloadURL)
				spin.Stop()
				if err != nil {
					return err
				}

				if cached {
					printSuccess("%s %s", asset.Name, styleDim.Render("(cached)"))
				} else {
					printSuccess("Downloaded %s", asset.Name)
				}
				printFile(path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&printURL, "url", false, "print the download URL instead of downloading")
	return cmd
}

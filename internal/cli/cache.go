package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/filecache"
	"github.com/matzehuels/relfetch/pkg/integrations"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every downloaded asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.fileCache()
			if err != nil {
				return err
			}
			count, err := store.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached files", count)
			printDetail("Directory: %s", store.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the download cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			printPlain(dir)
			return nil
		},
	}
}

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.settings.CacheDir != "" {
		return c.settings.CacheDir, nil
	}
	return filecache.DefaultDir()
}

func (c *CLI) fileCache() (*filecache.Store, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	return filecache.New(dir, integrations.NewHTTPClient(), c.Logger)
}

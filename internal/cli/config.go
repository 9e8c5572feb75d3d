package cli

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relfetch/pkg/config"
)

// configCommand creates the "config" command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective settings and recorded state",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.SettingsPath()
				if err != nil {
					return err
				}
				path = p
			}
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			state, err := config.NewFileStore("")
			if err != nil {
				return err
			}

			s := c.settings
			printKeyValue("settings", path)
			printKeyValue("api", s.APIURL)
			printKeyValue("cache ttl", s.CacheTTL().Round(time.Second).String())
			printKeyValue("cache dir", dir)
			printKeyValue("redis", orNone(s.RedisURL))
			printKeyValue("patches", s.PatchesRepo)
			printKeyValue("integrations", s.IntegrationsRepo)
			printKeyValue("user agent", s.UserAgent)
			if len(s.PackagePaths) > 0 {
				ids := slices.Sorted(maps.Keys(s.PackagePaths))
				printKeyValue("packages", strings.Join(ids, ", "))
			}

			printKeyValue("state", state.Path())
			printKeyValue("installed", orNone(state.InstalledVersion()))
			if u := state.PatchesDownloadURL(); u != "" {
				printLink("catalog", u)
			}
			if u := state.IntegrationsDownloadURL(); u != "" {
				printLink("binary", u)
			}
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

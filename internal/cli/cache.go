package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart and ephemeris cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached chart and ephemeris answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			switch ch := ch.(type) {
			case *cache.RedisCache:
				if expired {
					printInfo("Redis expires entries on its own")
					return nil
				}
				if err := ch.Clear(ctx); err != nil {
					return err
				}
				printSuccess("Cleared redis cache")
				printDetail("Address: %s", c.cfg.Cache.RedisAddr)
			case *cache.FileCache:
				if _, err := os.Stat(ch.Dir()); os.IsNotExist(err) {
					printInfo("Cache is empty")
					return nil
				}
				if expired {
					n, err := ch.Prune()
					if err != nil {
						return err
					}
					printSuccess("Removed %d expired entries", n)
					return nil
				}
				if err := ch.Clear(); err != nil {
					return err
				}
				printSuccess("Cleared file cache")
				printDetail("Directory: %s", ch.Dir())
			default:
				printInfo("Caching is disabled (backend %q)", c.cfg.Cache.Backend)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.BackendRedis {
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+c.cfg.Cache.RedisAddr)
				return nil
			}
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

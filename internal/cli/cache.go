package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/laddergrid/pkg/cache"
	"github.com/matzehuels/laddergrid/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local conversion cache",
		Long: `Manage the local file cache of conversion results.

The Redis backend is managed with Redis itself; these commands only touch
the file cache directory.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached conversion results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sweepCache("Cleared", (*cache.FileCache).Clear)
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and corrupt cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sweepCache("Pruned", (*cache.FileCache).Prune)
		},
	}
}

func (c *CLI) sweepCache(verb string, sweep func(*cache.FileCache) (int, error)) error {
	if c.Config.Cache.Backend != config.BackendFile {
		printInfo("Cache backend is %s; nothing to do", c.Config.Cache.Backend)
		return nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := sweep(fc)
	if err != nil {
		return err
	}
	printSuccess("%s %d cached entries", verb, n)
	printDetail("Directory: %s", dir)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

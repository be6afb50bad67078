package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the export cache",
		Long: `Rendered exports are cached on disk, keyed by graph content and export
options. Synthesis is never cached.`,
	}
	cmd.AddCommand(
		c.cacheAction("clear", "Remove every cached export", func(w io.Writer, fc *cache.FileCache) error {
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess(w, "Cleared %d cached entries", n)
			return nil
		}),
		c.cacheAction("prune", "Remove expired and unreadable entries", func(w io.Writer, fc *cache.FileCache) error {
			n, err := fc.Prune()
			if err != nil {
				return err
			}
			printSuccess(w, "Pruned %d entries", n)
			return nil
		}),
		c.cacheAction("stats", "Show cache size", func(w io.Writer, fc *cache.FileCache) error {
			u, err := fc.Usage()
			if err != nil {
				return err
			}
			printKeyValue(w, "Entries", fmt.Sprint(u.Entries))
			printKeyValue(w, "Expired", fmt.Sprint(u.Expired))
			printKeyValue(w, "Size", formatBytes(u.Bytes))
			return nil
		}),
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// cacheAction builds a subcommand that runs fn against the configured cache
// directory. A directory that was never created reports an empty cache.
func (c *CLI) cacheAction(use, short string, fn func(io.Writer, *cache.FileCache) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !dirExists(dir) {
				printInfo(out, "Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fn(out, fc); err != nil {
				return err
			}
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

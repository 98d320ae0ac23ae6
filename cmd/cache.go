package cmd

import (
	"fmt"

	"github.com/skybrowse/skyview/internal/log"
	"github.com/skybrowse/skyview/pkg/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheCmd groups the cache maintenance commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local image cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	Run: func(cmd *cobra.Command, args []string) {
		c := openCache()
		count, totalBytes, err := c.Stats()
		if err != nil {
			log.LogFatal(err)
		}
		fmt.Printf("Cache directory: %s\n", c.Dir())
		fmt.Printf("  Files: %d\n", count)
		fmt.Printf("  Size:  %.1f MB\n", float64(totalBytes)/(1024*1024))
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local image cache",
	Run: func(cmd *cobra.Command, args []string) {
		c := openCache()
		count, totalBytes, err := c.Stats()
		if err != nil {
			log.LogFatal(err)
		}
		if count == 0 {
			fmt.Println("Cache is empty.")
			return
		}
		fmt.Printf("Cache: %d files, %.1f MB in %s\n",
			count, float64(totalBytes)/(1024*1024), c.Dir())
		removed, err := c.Clear()
		if err != nil {
			log.LogFatal(err)
		}
		fmt.Printf("Removed %d cached images.\n", removed)
	},
}

func openCache() *cache.Cache {
	dir := viper.GetString("cache-dir")
	if dir == "" {
		dir = cache.DefaultDir()
	}
	return cache.New(dir)
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

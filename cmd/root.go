// Package cmd contains code for the `skyview` CLI tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/skybrowse/skyview/internal/log"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skyview",
	Short: "Browse astronomical sky images from the terminal",
	Long: heredoc.Doc(`
		skyview fetches sky survey cutout images for celestial positions.

		Examples:

		  # Fetch an image of NGC 788
		  skyview show NGC 788

		  # Fetch a grid of targets from a catalog
		  skyview batch --file catalog.csv --fov 3
	`),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.LogError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skyview.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "d", false, "Use verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.LogFatal(err)
		}

		// Search config in home directory with name ".skyview" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".skyview")
	}

	viper.SetDefault("survey", "ls-dr10")
	viper.SetDefault("workers", 3)
	viper.SetDefault("blank-threshold", 10.0)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

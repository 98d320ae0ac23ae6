package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/skybrowse/skyview/internal/log"
	"github.com/spf13/cobra"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Resolve an object name to RA/Dec",
	Example: heredoc.Doc(`
		skyview resolve "NGC 788"

		skyview resolve M31
	`),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("requires an object name")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		ra, dec, err := newResolver().ResolveName(name)
		if err != nil {
			log.LogFatal(err)
		}
		fmt.Printf("%s -> RA=%.6f, Dec=%.6f\n", name, ra, dec)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

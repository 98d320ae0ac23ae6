package cmd

import (
	"fmt"

	"github.com/skybrowse/skyview/pkg/surveys"
	"github.com/spf13/cobra"
)

// surveysCmd represents the surveys command
var surveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "List available surveys with coverage details",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available surveys (sorted by fallback priority):")
		fmt.Println()
		for _, s := range surveys.Default().All() {
			marker := ""
			if s.Name == surveys.DefaultSurvey {
				marker = " <- default"
			}
			bands := ""
			if s.Bands != "" {
				bands = fmt.Sprintf("  bands=%s", s.Bands)
			}
			fmt.Printf("  %-15s pixscale=%.3f\"/px  dec=[%+.0f,%+.0f]%s%s\n",
				s.Name, s.DefaultPixScale, s.DecMin, s.DecMax, bands, marker)
		}
	},
}

func init() {
	rootCmd.AddCommand(surveysCmd)
}

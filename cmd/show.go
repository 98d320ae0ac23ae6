package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/disintegration/imaging"
	"github.com/skybrowse/skyview/internal/log"
	"github.com/skybrowse/skyview/pkg/overlay"
	"github.com/skybrowse/skyview/pkg/skyview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [target]",
	Short: "Fetch a sky image at a position",
	Long: heredoc.Doc(`
		Fetch a sky cutout image for a target and save it to a file.

		The target can be an object name (NGC 788, M31), decimal degree
		coordinates (30.28 -23.5), or a sexagesimal pair
		("10:00:00 +02:12:00").
	`),
	Example: heredoc.Doc(`
		skyview show NGC 788

		skyview show 30.28 -23.5

		skyview show NGC 788 -s sdss -f 3.0

		skyview show NGC 788 -o ngc788.jpg
	`),
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("requires a target name or coordinates")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		target := strings.Join(args, " ")

		survey, err := cmd.Flags().GetString("survey")
		log.DieOnError(err)
		if survey == "" {
			survey = viper.GetString("survey")
		}
		fov, err := cmd.Flags().GetFloat64("fov")
		log.DieOnError(err)
		size, err := cmd.Flags().GetInt("size")
		log.DieOnError(err)
		fallback, err := cmd.Flags().GetBool("fallback")
		log.DieOnError(err)
		output, err := cmd.Flags().GetString("output")
		log.DieOnError(err)
		noAnnotate, err := cmd.Flags().GetBool("no-annotate")
		log.DieOnError(err)

		resolver := newResolver()
		ra, dec, err := resolver.ParseCoordinates(target)
		if err != nil {
			log.LogFatal(err)
		}
		fmt.Printf("%s -> RA=%.5f, Dec=%.5f\n", target, ra, dec)

		client := newClient(resolver)
		cut, err := client.Fetch(skyview.CutoutRequest{
			RA:            ra,
			Dec:           dec,
			Survey:        survey,
			SizePixels:    size,
			FOVArcmin:     fov,
			AllowFallback: fallback,
			Timeout:       viper.GetDuration("timeout"),
		})
		if err != nil {
			log.LogFatal(err)
		}

		img := cut.Image
		if !noAnnotate {
			img = overlay.Annotate(img, fov, true, false)
		}

		if output == "" {
			output = filepath.Join(os.TempDir(),
				fmt.Sprintf("skyview_%s.jpg", safeFilename(target)))
		}
		if err := imaging.Save(img, output, imaging.JPEGQuality(92)); err != nil {
			log.LogFatal(err)
		}
		fmt.Printf("Saved %s image to %s\n", cut.Survey, output)
	},
}

// safeFilename strips characters that don't belong in a filename.
func safeFilename(label string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "(", "", ")", "", ",", "_", ":", "")
	return replacer.Replace(label)
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("survey", "s", "", "Survey layer, or \"auto\" for automatic fallback")
	showCmd.Flags().Float64P("fov", "f", 1.0, "Field of view in arcmin")
	showCmd.Flags().Int("size", 0, "Image size in pixels (prefer --fov)")
	showCmd.Flags().Bool("fallback", false, "Try other surveys if the image is blank")
	showCmd.Flags().StringP("output", "o", "", "Save image to this file")
	showCmd.Flags().Bool("no-annotate", false, "Skip the scale bar overlay")
}

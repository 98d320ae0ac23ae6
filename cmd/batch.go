package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/disintegration/imaging"
	"github.com/skybrowse/skyview/internal/log"
	"github.com/skybrowse/skyview/pkg/catalog"
	"github.com/skybrowse/skyview/pkg/overlay"
	"github.com/skybrowse/skyview/pkg/skyview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [targets...]",
	Short: "Fetch sky images for many targets",
	Long: heredoc.Doc(`
		Fetch cutout images for a list of targets concurrently, and save
		them into a directory.  Targets are object names given as
		arguments, or coordinates loaded from a CSV/TSV catalog file.
	`),
	Example: heredoc.Doc(`
		skyview batch "NGC 788" "M31" "NGC 1275"

		skyview batch --file catalog.csv --ra-col RA --dec-col DEC

		skyview batch --file sources.csv --fov 3 -o gallery/
	`),
	Run: func(cmd *cobra.Command, args []string) {
		catalogPath, err := cmd.Flags().GetString("file")
		if err != nil {
			log.LogFatal(err)
		}
		raCol, _ := cmd.Flags().GetString("ra-col")
		decCol, _ := cmd.Flags().GetString("dec-col")
		nameCol, _ := cmd.Flags().GetString("name-col")
		survey, _ := cmd.Flags().GetString("survey")
		fov, _ := cmd.Flags().GetFloat64("fov")
		size, _ := cmd.Flags().GetInt("size")
		limit, _ := cmd.Flags().GetInt("limit")
		outdir, _ := cmd.Flags().GetString("output")
		workers, _ := cmd.Flags().GetInt("workers")
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			log.LogFatal(err)
		}

		if survey == "" {
			survey = viper.GetString("survey")
		}
		if workers == 0 {
			workers = viper.GetInt("workers")
		}

		var targets []skyview.Target
		if catalogPath != "" {
			targets, err = catalog.Load(catalogPath, catalog.Options{
				RACol:   raCol,
				DecCol:  decCol,
				NameCol: nameCol,
				Limit:   limit,
			})
			if err != nil {
				log.LogFatal(err)
			}
		} else if len(args) > 0 {
			for _, name := range args {
				targets = append(targets, skyview.NamedTarget{Name: name})
			}
		} else {
			log.LogFatalf("Provide targets or --file. See: skyview batch --help")
		}

		if outdir == "" {
			outdir, err = os.MkdirTemp("", "skyview_batch_")
			if err != nil {
				log.LogFatal(err)
			}
		} else if err := os.MkdirAll(outdir, 0755); err != nil {
			log.LogFatal(err)
		}

		resolver := newResolver()
		client := newClient(resolver)

		results := client.FetchBatch(targets, skyview.BatchOptions{
			Survey:     survey,
			FOVArcmin:  fov,
			SizePixels: size,
			Workers:    workers,
			Timeout:    viper.GetDuration("timeout"),
		}, getReporter(verbose))

		saved, failed := 0, 0
		for _, result := range results {
			if result.Err != nil {
				failed++
				continue
			}
			img := overlay.Annotate(result.Cutout.Image, fov, true, false)
			name := fmt.Sprintf("%03d_%s.jpg", result.Index+1, safeFilename(result.Label))
			if err := imaging.Save(img, filepath.Join(outdir, name), imaging.JPEGQuality(95)); err != nil {
				log.LogErrorf("Error saving %s: %v", name, err)
				failed++
				continue
			}
			saved++
		}

		fmt.Printf("%d images saved to %s", saved, outdir)
		if failed > 0 {
			fmt.Printf(" (%d failed)", failed)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("file", "f", "", "CSV/TSV file with coordinates")
	batchCmd.Flags().String("ra-col", "ra", "RA column name")
	batchCmd.Flags().String("dec-col", "dec", "Dec column name")
	batchCmd.Flags().String("name-col", "", "Name/label column")
	batchCmd.Flags().StringP("survey", "s", "", "Survey layer, or \"auto\"")
	batchCmd.Flags().Float64("fov", 1.0, "Field of view in arcmin")
	batchCmd.Flags().Int("size", 0, "Force image size in pixels")
	batchCmd.Flags().IntP("limit", "n", catalog.DefaultLimit, "Max targets to load from file")
	batchCmd.Flags().StringP("output", "o", "", "Directory to save images in")
	batchCmd.Flags().Int("workers", 0, "Concurrent downloads (keep low to avoid rate limits)")
}

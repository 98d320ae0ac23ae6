package cmd

import (
	"github.com/jwalton/go-supportscolor"
	"github.com/skybrowse/skyview/cmd/reporters"
	"github.com/skybrowse/skyview/pkg/resolve"
	"github.com/skybrowse/skyview/pkg/skyview"
	"github.com/spf13/viper"
)

func getReporter(verbose bool) skyview.ProgressReporter {
	if verbose || !supportscolor.Stdout().SupportsColor {
		return reporters.NewVerboseReporter()
	}
	return reporters.NewProgressBarReporter()
}

// newResolver builds the shared Sesame name resolver.
func newResolver() *resolve.Resolver {
	return resolve.New()
}

// newClient builds a skyview client from the viper configuration.
func newClient(resolver *resolve.Resolver) *skyview.Client {
	options := []skyview.Option{
		skyview.WithResolver(resolver),
		skyview.WithBlankThreshold(viper.GetFloat64("blank-threshold")),
	}
	if dir := viper.GetString("cache-dir"); dir != "" {
		options = append(options, skyview.WithCacheDir(dir))
	}
	return skyview.New(options...)
}

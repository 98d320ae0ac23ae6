package surveys

import "fmt"

// panstarrsCutoutURL builds a request against the MAST fitscut service,
// which serves PanSTARRS color cutouts with a query shape unlike the
// legacysurvey viewer.  The pixel scale is fixed server-side, so the
// pixscale parameter is not part of the query.
func panstarrsCutoutURL(s *Survey, ra, dec float64, size int, pixscale float64) string {
	return fmt.Sprintf(
		"%s?ra=%g&dec=%g&size=%d&format=jpg&output_size=%d&autoscale=99.5&filter=color",
		s.BaseURL, ra, dec, size, size)
}

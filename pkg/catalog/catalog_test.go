package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrowse/skyview/pkg/skyview"
)

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCatalog(t, "targets.csv",
		"ra,dec\n30.28,-23.5\n150.0,2.2\n")

	targets, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, targets, 2)

	first, ok := targets[0].(skyview.CoordinateTarget)
	require.True(t, ok)
	assert.Equal(t, 30.28, first.RA)
	assert.Equal(t, -23.5, first.Dec)
}

func TestLoadTSV(t *testing.T) {
	path := writeCatalog(t, "targets.tsv",
		"ra\tdec\tname\n30.28\t-23.5\tNGC 788\n")

	targets, err := Load(path, Options{NameCol: "name"})
	require.NoError(t, err)
	require.Len(t, targets, 1)

	target := targets[0].(skyview.CoordinateTarget)
	assert.Equal(t, "NGC 788", target.Label)
}

func TestLoadCaseInsensitiveColumns(t *testing.T) {
	path := writeCatalog(t, "targets.csv",
		"RA, Dec, Name\n30.28, -23.5, NGC 788\n")

	targets, err := Load(path, Options{NameCol: "name"})
	require.NoError(t, err)
	require.Len(t, targets, 1)

	target := targets[0].(skyview.CoordinateTarget)
	assert.Equal(t, 30.28, target.RA)
	assert.Equal(t, "NGC 788", target.Label)
}

func TestLoadCustomColumns(t *testing.T) {
	path := writeCatalog(t, "targets.csv",
		"objid,RAJ2000,DEJ2000\n1,30.28,-23.5\n")

	targets, err := Load(path, Options{RACol: "RAJ2000", DecCol: "DEJ2000"})
	require.NoError(t, err)
	require.Len(t, targets, 1)
}

func TestLoadLimit(t *testing.T) {
	content := "ra,dec\n"
	for i := 0; i < 10; i++ {
		content += "30.0,-23.0\n"
	}
	path := writeCatalog(t, "targets.csv", content)

	targets, err := Load(path, Options{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, targets, 3)
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeCatalog(t, "targets.csv", "x,y\n1,2\n")

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "ra" not found`)
}

func TestLoadBadValue(t *testing.T) {
	path := writeCatalog(t, "targets.csv", "ra,dec\nnot-a-number,-23.5\n")

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeCatalog(t, "targets.fits", "whatever")

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	assert.Error(t, err)
}

// Package cache implements the on-disk cutout cache.  Each cached image is
// a single file named deterministically from the request parameters; the
// presence of the file on disk is the source of truth, there is no index.
//
// The cache is purely an optimization: removing it never changes which
// images are obtainable, only how fast they arrive.
package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"os"
	"path/filepath"
)

const partialSuffix = ".part"

// Cache is a file-per-image disk cache rooted at a single directory.
// Concurrent Puts to different keys never contend; a Put/Get race on the
// same key is resolved by write-then-rename, so readers never observe a
// partially written file.
type Cache struct {
	dir string
}

// New returns a cache rooted at dir.  The directory is created lazily on
// the first Put.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// DefaultDir returns the standard cache location (~/.cache/skyview on
// Linux).  Falls back to the system temp directory if the user cache
// directory cannot be determined.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "skyview")
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// cacheKey digests the rounded request parameters into a short stable hash.
// Coordinates are rounded to 6 decimal places and the pixel scale to 4, so
// float noise below those thresholds maps to the same key.
func cacheKey(ra, dec float64, survey string, size int, pixscale float64) string {
	// Field names are in alphabetical order so the serialized form is
	// canonical.
	params, _ := json.Marshal(struct {
		Dec      float64 `json:"dec"`
		PixScale float64 `json:"pixscale"`
		RA       float64 `json:"ra"`
		Size     int     `json:"size"`
		Survey   string  `json:"survey"`
	}{
		Dec:      roundTo(dec, 6),
		PixScale: roundTo(pixscale, 4),
		RA:       roundTo(ra, 6),
		Size:     size,
		Survey:   survey,
	})
	sum := md5.Sum(params)
	return hex.EncodeToString(sum[:])[:12]
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Filename returns the cache filename for a request.  The human-readable
// prefix makes the cache directory browsable; the hash makes it unique.
func Filename(ra, dec float64, survey string, size int, pixscale float64) string {
	return fmt.Sprintf("%s_%.4f_%.4f_%s.jpg",
		survey, ra, dec, cacheKey(ra, dec, survey, size, pixscale))
}

func (c *Cache) path(ra, dec float64, survey string, size int, pixscale float64) string {
	return filepath.Join(c.dir, Filename(ra, dec, survey, size, pixscale))
}

// Get returns the cached image bytes for a request, or ok=false on a miss.
// A corrupt or unreadable cached file is evicted and reported as a miss
// rather than surfaced as an error.
func (c *Cache) Get(ra, dec float64, survey string, size int, pixscale float64) (data []byte, ok bool) {
	path := c.path(ra, dec, survey, size, pixscale)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		_ = os.Remove(path)
		return nil, false
	}
	return data, true
}

// Put stores image bytes for a request and returns the file path.  The data
// is written to a temporary file and renamed into place, so a concurrent
// Get never sees a torn write.  Re-putting the same key overwrites silently.
func (c *Cache) Put(ra, dec float64, survey string, size int, pixscale float64, data []byte) (string, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}
	path := c.path(ra, dec, survey, size, pixscale)
	if err := os.WriteFile(path+partialSuffix, data, 0644); err != nil {
		return "", fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(path+partialSuffix, path); err != nil {
		return "", fmt.Errorf("publishing cache file: %w", err)
	}
	return path, nil
}

// Clear deletes all cached images and returns the number of files removed.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Stats returns the number of cached files and their total size in bytes.
func (c *Cache) Stats() (count int, totalBytes int64, err error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		totalBytes += info.Size()
	}
	return count, totalBytes, nil
}

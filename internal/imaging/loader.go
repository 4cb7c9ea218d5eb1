package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/diagram-tools-mcp/internal/arrow"
)

// entry is one cached diagram image and, once requested, its grayscale form.
type entry struct {
	img  image.Image
	gray *image.Gray
}

// ImageCache keeps decoded diagram images in memory, keyed by file path, so that
// repeated tool calls on the same photo do not decode it again.
//
// Images are decoded with EXIF auto-orientation applied: detections from a phone
// photo are expressed in the upright frame, and every later step (arrow
// resolution, rendering) must see the same frame.
//
// ImageCache is safe for concurrent use.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]*entry),
	}
}

// Load returns the image at path, decoding and caching it on first use.
//
// Supported formats are PNG, JPEG and GIF. The path string is the cache key, so
// two spellings of the same file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// LoadGray returns the 8-bit grayscale form of the image at path, as used by
// arrow endpoint resolution. The conversion is cached alongside the image.
func (c *ImageCache) LoadGray(path string) (*image.Gray, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	gray := e.gray
	c.mu.RUnlock()
	if gray != nil {
		return gray, nil
	}

	gray = arrow.Grayscale(e.img)
	c.mu.Lock()
	e.gray = gray
	c.mu.Unlock()
	return gray, nil
}

func (c *ImageCache) load(path string) (*entry, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		return e, nil
	}
	e := &entry{img: img}
	c.entries[path] = e
	return e, nil
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

// Evict drops the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// ImageInfo describes a diagram image file.
type ImageInfo struct {
	// Width and Height are the upright dimensions in pixels, i.e. after EXIF
	// orientation. Detection boxes must be given in this frame.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", judged by file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the image at path through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult holds the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the upright dimensions of the image at path.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

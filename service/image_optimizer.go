package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/models"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	dataURLPrefix = "data:image/jpeg;base64,"
)

// OptimizeImage optimizes an image by converting to JPEG and resizing
// imageData: raw image bytes (PNG, JPEG, etc.)
// size: "thumb" or "medium"
// Returns optimized JPEG image bytes
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	log.Debugf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	var maxDim, quality int
	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	case "medium":
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Warnf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	// Fit keeps the aspect ratio and never upscales
	var resized image.Image = img
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		resized = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		log.Debugf("🔄 Resizing image: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), resized.Bounds().Dx(), resized.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(err, "failed to encode to JPEG")
	}

	log.Debugf("✓ Image optimized: size=%s, quality=%d, output_size=%d bytes", size, quality, buf.Len())
	return buf.Bytes(), nil
}

// DataURL embeds JPEG bytes as a data URL
func DataURL(jpegData []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(jpegData)
}

// ProductImageUpdater is the part of the product repository the image
// service needs
type ProductImageUpdater interface {
	Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error)
}

// ImageService attaches optimized photos to products. Optimized copies are
// also written to a cache directory so they can be reused outside the store.
type ImageService struct {
	products ProductImageUpdater
	cacheDir string
}

// NewImageService creates a new ImageService
func NewImageService(products ProductImageUpdater, cacheDir string) *ImageService {
	return &ImageService{products: products, cacheDir: cacheDir}
}

// CachePath returns the cache file path for a product photo
func (s *ImageService) CachePath(productID, size string) string {
	return filepath.Join(s.cacheDir, fmt.Sprintf("product_%s_%s.jpg", productID, size))
}

// SetProductImage reads the photo at path, shrinks it to a thumbnail and
// stores it on the product as a data URL
func (s *ImageService) SetProductImage(ctx context.Context, productID, path string) (*models.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}

	optimized, err := OptimizeImage(raw, "thumb")
	if err != nil {
		log.Errorf("❌ SetProductImage: %v", err)
		return nil, err
	}

	if s.cacheDir != "" {
		if err := saveToCache(s.CachePath(productID, "thumb"), optimized); err != nil {
			log.Warnf("⚠️  SetProductImage: %v", err)
		}
	}

	dataURL := DataURL(optimized)
	return s.products.Update(ctx, productID, models.ProductUpdate{Image: &dataURL})
}

// ClearProductImage removes the photo from a product
func (s *ImageService) ClearProductImage(ctx context.Context, productID string) (*models.Product, error) {
	empty := ""
	if s.cacheDir != "" {
		os.Remove(s.CachePath(productID, "thumb"))
	}
	return s.products.Update(ctx, productID, models.ProductUpdate{Image: &empty})
}

func saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create cache directory")
	}
	if err := os.WriteFile(cachePath, imageData, 0o644); err != nil {
		return errors.Wrap(err, "failed to write to cache")
	}
	log.Debugf("✓ Image cached: %s", cachePath)
	return nil
}

// Package catalog creates and maintains products. Product creation spans
// two systems that cannot share a transaction — the database and blob
// storage — so it runs as an ordered sequence where every uploaded blob
// arms a compensating delete, executed in reverse on any later failure.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/Pushparaj13811/cladily-api/storage"
	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("invalid product input")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryInUse     = errors.New("category still has products")
	ErrProductNotFound   = errors.New("product not found")
	ErrImageUploadFailed = errors.New("image upload failed")
	ErrPersistence       = errors.New("persistence failure")
)

type Writer struct {
	db    *gorm.DB
	blobs storage.BlobStore

	uploadTimeout time.Duration
	commitTimeout time.Duration
}

func NewWriter(db *gorm.DB, blobs storage.BlobStore, uploadTimeout, commitTimeout time.Duration) *Writer {
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}
	if commitTimeout <= 0 {
		commitTimeout = 10 * time.Second
	}
	return &Writer{db: db, blobs: blobs, uploadTimeout: uploadTimeout, commitTimeout: commitTimeout}
}

type ImageInput struct {
	FileName string
	AltText  string
	Data     io.Reader
}

type VariantInput struct {
	Size  string  `json:"size"`
	Color string  `json:"color"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type CreateProductInput struct {
	Name        string
	Description string
	CategoryID  uint
	Images      []ImageInput
	Colors      []string // one per image
	Variants    []VariantInput
	Tags        []string
}

func (in CreateProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case in.CategoryID == 0:
		return fmt.Errorf("%w: category_id is required", ErrValidation)
	case len(in.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrValidation)
	case len(in.Images) != len(in.Colors):
		return fmt.Errorf("%w: need exactly one color per image", ErrValidation)
	case len(in.Variants) == 0:
		return fmt.Errorf("%w: at least one variant is required", ErrValidation)
	}
	for _, v := range in.Variants {
		if strings.TrimSpace(v.Size) == "" || strings.TrimSpace(v.Color) == "" {
			return fmt.Errorf("%w: variant size and color are required", ErrValidation)
		}
		if v.Price <= 0 {
			return fmt.Errorf("%w: variant price must be positive", ErrValidation)
		}
		if v.Stock < 0 {
			return fmt.Errorf("%w: variant stock cannot be negative", ErrValidation)
		}
	}
	return nil
}

// compensation is one undo action armed by a completed step.
type compensation struct {
	name   string
	action func() error
}

// compensate runs armed actions in reverse. Failures are logged, never
// returned: the original error must reach the caller unmasked.
func compensate(comps []compensation) {
	for i := len(comps) - 1; i >= 0; i-- {
		if err := comps[i].action(); err != nil {
			log.Printf("⚠️ compensation %q failed: %v", comps[i].name, err)
		}
	}
}

// CreateProduct writes the product, its images, variants and tags as one
// logical unit. Database rows ride a single transaction; blob uploads
// happen outside it. On any failure after the first upload, both
// rollbacks fire: the transaction aborts AND every uploaded blob is
// deleted. No partially created product is ever visible.
func (w *Writer) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var category models.Category
	if err := w.db.WithContext(ctx).First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: fetch category: %v", ErrPersistence, err)
	}

	tx := w.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrPersistence, tx.Error)
	}

	product := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
	}
	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: create product: %v", ErrPersistence, err)
	}

	var comps []compensation
	urls := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		uctx, cancel := context.WithTimeout(ctx, w.uploadTimeout)
		url, err := w.blobs.Upload(uctx, img.FileName, img.Data)
		cancel()
		if err != nil {
			compensate(comps)
			tx.Rollback()
			return nil, fmt.Errorf("%w: %s: %v", ErrImageUploadFailed, img.FileName, err)
		}
		urls = append(urls, url)
		comps = append(comps, compensation{
			name:   "delete blob " + url,
			action: func() error { return w.blobs.Delete(context.Background(), url) },
		})
	}

	for i, url := range urls {
		image := models.ProductImage{
			ProductID: product.ID,
			URL:       url,
			Color:     in.Colors[i],
			AltText:   in.Images[i].AltText,
			IsPrimary: i == 0, // first image is primary, by position
		}
		if err := tx.Create(&image).Error; err != nil {
			compensate(comps)
			tx.Rollback()
			return nil, fmt.Errorf("%w: create image row: %v", ErrPersistence, err)
		}
	}

	for _, v := range in.Variants {
		variant := models.ProductVariant{
			ProductID: product.ID,
			Size:      v.Size,
			Color:     v.Color,
			Price:     v.Price,
			Stock:     v.Stock,
		}
		if err := tx.Create(&variant).Error; err != nil {
			compensate(comps)
			tx.Rollback()
			return nil, fmt.Errorf("%w: create variant: %v", ErrPersistence, err)
		}
	}

	for _, name := range in.Tags {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := tx.Create(&models.ProductTag{ProductID: product.ID, Name: name}).Error; err != nil {
			compensate(comps)
			tx.Rollback()
			return nil, fmt.Errorf("%w: create tag: %v", ErrPersistence, err)
		}
	}

	// A commit failure only rolls back rows; the blobs written above
	// still need their own cleanup.
	if err := w.commit(tx); err != nil {
		compensate(comps)
		return nil, fmt.Errorf("%w: commit: %v", ErrPersistence, err)
	}

	return w.GetProduct(ctx, product.ID)
}

// commit waits out the transaction commit up to the configured bound. A
// stalled commit is a persistence failure; the caller reclaims the blobs.
func (w *Writer) commit(tx *gorm.DB) error {
	done := make(chan error, 1)
	go func() { done <- tx.Commit().Error }()
	select {
	case err := <-done:
		return err
	case <-time.After(w.commitTimeout):
		return fmt.Errorf("commit timed out after %s", w.commitTimeout)
	}
}

// GetProduct returns the denormalized product view: category, images,
// variants and tags, fully present or not at all.
func (w *Writer) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := w.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Preload("Variants").
		Preload("Tags").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: fetch product: %v", ErrPersistence, err)
	}
	return &product, nil
}

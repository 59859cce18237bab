package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Pushparaj13811/cladily-api/models"
	"gorm.io/gorm"
)

// UpdateProductInput carries optional field updates. Images, variants and
// tags are deliberately absent: they only change through creation.
type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category_id"`
}

func (w *Writer) UpdateProduct(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error) {
	db := w.db.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: fetch product: %v", ErrPersistence, err)
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		var category models.Category
		if err := db.First(&category, *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("%w: fetch category: %v", ErrPersistence, err)
		}
		updates["category_id"] = *in.CategoryID
	}

	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("%w: update product: %v", ErrPersistence, err)
		}
	}
	return w.GetProduct(ctx, id)
}

// DeleteProduct soft-deletes the product and its variants so existing
// cart lines degrade to omitted view lines instead of breaking. Image
// blobs are reclaimed best-effort after the rows are gone.
func (w *Writer) DeleteProduct(ctx context.Context, id uint) error {
	db := w.db.WithContext(ctx)

	var product models.Product
	if err := db.Preload("Images").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("%w: fetch product: %v", ErrPersistence, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return fmt.Errorf("%w: delete product: %v", ErrPersistence, err)
	}

	for _, img := range product.Images {
		if err := w.blobs.Delete(ctx, img.URL); err != nil {
			log.Printf("⚠️ failed to delete image blob %s: %v", img.URL, err)
		}
	}
	return nil
}

type ListOptions struct {
	Search   string
	Page     int
	PageSize int
}

// ListProducts returns a page of products with their primary display data.
func (w *Writer) ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		opts.PageSize = 20
	}

	q := w.db.WithContext(ctx).Model(&models.Product{})
	if opts.Search != "" {
		q = q.Where("name LIKE ?", "%"+opts.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count products: %v", ErrPersistence, err)
	}

	var products []models.Product
	err := q.
		Preload("Category").
		Preload("Images").
		Preload("Variants").
		Preload("Tags").
		Order("created_at DESC").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list products: %v", ErrPersistence, err)
	}
	return products, total, nil
}

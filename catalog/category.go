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

func (w *Writer) CreateCategory(ctx context.Context, name string, image *ImageInput) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	var imageURL string
	if image != nil {
		uctx, cancel := context.WithTimeout(ctx, w.uploadTimeout)
		url, err := w.blobs.Upload(uctx, image.FileName, image.Data)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrImageUploadFailed, image.FileName, err)
		}
		imageURL = url
	}

	category := models.Category{Name: name, Image: imageURL}
	if err := w.db.WithContext(ctx).Create(&category).Error; err != nil {
		// The row never landed, so the uploaded image must not linger.
		if imageURL != "" {
			compensate([]compensation{{
				name:   "delete blob " + imageURL,
				action: func() error { return w.blobs.Delete(context.Background(), imageURL) },
			}})
		}
		return nil, fmt.Errorf("%w: create category: %v", ErrPersistence, err)
	}
	return &category, nil
}

func (w *Writer) UpdateCategory(ctx context.Context, id uint, name string, image *ImageInput) (*models.Category, error) {
	db := w.db.WithContext(ctx)

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: fetch category: %v", ErrPersistence, err)
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	if image != nil {
		uctx, cancel := context.WithTimeout(ctx, w.uploadTimeout)
		url, err := w.blobs.Upload(uctx, image.FileName, image.Data)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrImageUploadFailed, image.FileName, err)
		}
		if category.Image != "" {
			if err := w.blobs.Delete(ctx, category.Image); err != nil {
				log.Printf("⚠️ failed to delete old category image %s: %v", category.Image, err)
			}
		}
		category.Image = url
	}

	if err := db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("%w: update category: %v", ErrPersistence, err)
	}
	return &category, nil
}

// DeleteCategory refuses while products still reference the category;
// catalog cleanup must happen first.
func (w *Writer) DeleteCategory(ctx context.Context, id uint) error {
	db := w.db.WithContext(ctx)

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("%w: fetch category: %v", ErrPersistence, err)
	}

	var count int64
	if err := db.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: count products: %v", ErrPersistence, err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := db.Delete(&category).Error; err != nil {
		return fmt.Errorf("%w: delete category: %v", ErrPersistence, err)
	}

	if category.Image != "" {
		if err := w.blobs.Delete(ctx, category.Image); err != nil {
			log.Printf("⚠️ failed to delete category image %s: %v", category.Image, err)
		}
	}
	return nil
}

func (w *Writer) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := w.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrPersistence, err)
	}
	return categories, nil
}

func (w *Writer) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := w.db.WithContext(ctx).Preload("Products").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("%w: fetch category: %v", ErrPersistence, err)
	}
	return &category, nil
}

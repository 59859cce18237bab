package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeBlobStore records uploads and deletes; failAfter caps how many
// uploads succeed before the store starts erroring.
type fakeBlobStore struct {
	mu        sync.Mutex
	failAfter int // 0 means never fail
	uploads   []string
	deleted   []string
}

func (f *fakeBlobStore) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && len(f.uploads) >= f.failAfter {
		return "", errors.New("blob store unavailable")
	}
	_, _ = io.Copy(io.Discard, r)
	url := fmt.Sprintf("/uploads/%d_%s", len(f.uploads), name)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func newTestWriter(t *testing.T, blobs *fakeBlobStore) (*Writer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductVariant{},
		&models.ProductTag{},
	))
	require.NoError(t, db.Create(&models.Category{Name: "tees"}).Error)

	return NewWriter(db, blobs, 5*time.Second, 5*time.Second), db
}

func productInput(imageCount int) CreateProductInput {
	in := CreateProductInput{
		Name:        "classic tee",
		Description: "plain cotton tee",
		CategoryID:  1,
		Variants: []VariantInput{
			{Size: "M", Color: "black", Price: 999, Stock: 50},
			{Size: "L", Color: "black", Price: 999, Stock: 20},
		},
		Tags: []string{"cotton", "basics"},
	}
	for i := 0; i < imageCount; i++ {
		in.Images = append(in.Images, ImageInput{
			FileName: fmt.Sprintf("img%d.jpg", i),
			AltText:  "tee",
			Data:     strings.NewReader("jpegbytes"),
		})
		in.Colors = append(in.Colors, "black")
	}
	return in
}

func TestCreateProduct(t *testing.T) {
	blobs := &fakeBlobStore{}
	writer, _ := newTestWriter(t, blobs)

	product, err := writer.CreateProduct(context.Background(), productInput(2))
	require.NoError(t, err)

	assert.Equal(t, "classic tee", product.Name)
	assert.Equal(t, "tees", product.Category.Name)
	require.Len(t, product.Images, 2)
	assert.True(t, product.Images[0].IsPrimary, "first image is primary")
	assert.False(t, product.Images[1].IsPrimary)
	assert.Len(t, product.Variants, 2)
	assert.Len(t, product.Tags, 2)
	assert.Empty(t, blobs.deleted)
}

func TestCreateProductUploadFailureLeavesNothing(t *testing.T) {
	blobs := &fakeBlobStore{failAfter: 2}
	writer, db := newTestWriter(t, blobs)

	// Third upload fails: the transaction aborts and the two blobs that
	// did land are deleted again.
	_, err := writer.CreateProduct(context.Background(), productInput(3))
	require.ErrorIs(t, err, ErrImageUploadFailed)

	for _, model := range []any{&models.Product{}, &models.ProductImage{}, &models.ProductVariant{}, &models.ProductTag{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
	assert.ElementsMatch(t, blobs.uploads, blobs.deleted, "every uploaded blob must be reclaimed")
}

func TestCreateProductValidation(t *testing.T) {
	writer, _ := newTestWriter(t, &fakeBlobStore{})

	cases := map[string]func(*CreateProductInput){
		"missing name":     func(in *CreateProductInput) { in.Name = " " },
		"missing images":   func(in *CreateProductInput) { in.Images = nil; in.Colors = nil },
		"color per image":  func(in *CreateProductInput) { in.Colors = in.Colors[:1] },
		"missing variants": func(in *CreateProductInput) { in.Variants = nil },
		"free variant":     func(in *CreateProductInput) { in.Variants[0].Price = 0 },
		"negative stock":   func(in *CreateProductInput) { in.Variants[0].Stock = -1 },
		"missing category": func(in *CreateProductInput) { in.CategoryID = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := productInput(2)
			mutate(&in)
			_, err := writer.CreateProduct(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	writer, _ := newTestWriter(t, &fakeBlobStore{})

	in := productInput(1)
	in.CategoryID = 42
	_, err := writer.CreateProduct(context.Background(), in)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteProductRemovesVariantsFromSale(t *testing.T) {
	blobs := &fakeBlobStore{}
	writer, db := newTestWriter(t, blobs)

	product, err := writer.CreateProduct(context.Background(), productInput(1))
	require.NoError(t, err)

	require.NoError(t, writer.DeleteProduct(context.Background(), product.ID))

	_, err = writer.GetProduct(context.Background(), product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var liveVariants int64
	require.NoError(t, db.Model(&models.ProductVariant{}).Where("product_id = ?", product.ID).Count(&liveVariants).Error)
	assert.Zero(t, liveVariants, "soft-deleted variants must not be visible")

	assert.ElementsMatch(t, blobs.uploads, blobs.deleted)
}

func TestDeleteCategoryInUse(t *testing.T) {
	writer, _ := newTestWriter(t, &fakeBlobStore{})

	_, err := writer.CreateProduct(context.Background(), productInput(1))
	require.NoError(t, err)

	err = writer.DeleteCategory(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCategoryInUse)
}

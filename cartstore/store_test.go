package cartstore

import (
	"context"
	"testing"

	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and
	// serializes writers, matching postgres row-level behaviour closely
	// enough for these tests.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartLine{},
	))
	return db
}

func seedVariant(t *testing.T, db *gorm.DB, price float64, stock int) models.ProductVariant {
	t.Helper()
	var category models.Category
	err := db.FirstOrCreate(&category, models.Category{Name: "tees"}).Error
	require.NoError(t, err)

	product := models.Product{Name: "classic tee", Description: "plain cotton tee", CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)

	variant := models.ProductVariant{ProductID: product.ID, Size: "M", Color: "black", Price: price, Stock: stock}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func TestGetOrCreateConcurrent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := store.GetOrCreate(context.Background(), owner)
			return err
		})
	}
	require.NoError(t, g.Wait())

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("owner_key = ?", owner.Key()).Count(&count).Error)
	assert.Equal(t, int64(1), count, "concurrent first access must yield exactly one cart")
}

func TestAddLineIncrementsAndEnforcesCeiling(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	cart, err := store.AddLine(context.Background(), owner, variant.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	// 3 + 3 would land past the ceiling: rejected, nothing written.
	_, err = store.AddLine(context.Background(), owner, variant.ID, 3)
	require.ErrorIs(t, err, ErrQuantityLimitExceeded)

	cart, err = store.GetOrCreate(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity, "failed add must leave the line untouched")

	// 3 + 2 lands exactly on the ceiling.
	cart, err = store.AddLine(context.Background(), owner, variant.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, MaxLineQuantity, cart.Lines[0].Quantity)
}

func TestAddLineRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := store.AddLine(context.Background(), owner, variant.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = store.AddLine(context.Background(), owner, variant.ID, MaxLineQuantity+1)
	assert.ErrorIs(t, err, ErrQuantityLimitExceeded)

	_, err = store.AddLine(context.Background(), owner, 9999, 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestSetLineQuantity(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	cart, err := store.SetLineQuantity(context.Background(), owner, variant.ID, 4)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 4, cart.Lines[0].Quantity)

	_, err = store.SetLineQuantity(context.Background(), owner, variant.ID, MaxLineQuantity+2)
	require.ErrorIs(t, err, ErrQuantityLimitExceeded)

	// Zero is removal; the cart row itself survives empty.
	cart, err = store.SetLineQuantity(context.Background(), owner, variant.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("owner_key = ?", owner.Key()).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemoveLineIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := store.AddLine(context.Background(), owner, variant.ID, 2)
	require.NoError(t, err)

	cart, err := store.RemoveLine(context.Background(), owner, variant.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	// Removing again, and removing a variant never added, both succeed.
	_, err = store.RemoveLine(context.Background(), owner, variant.ID)
	assert.NoError(t, err)
	_, err = store.RemoveLine(context.Background(), owner, 9999)
	assert.NoError(t, err)
}

func TestClearKeepsCartRow(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := store.AddLine(context.Background(), owner, variant.ID, 2)
	require.NoError(t, err)
	require.NoError(t, store.Clear(context.Background(), owner))

	cart, err := store.GetOrCreate(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestMergeSumsAndClamps(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	guest := models.GuestOwner("guest_abc")
	user := models.UserOwner("user_1")

	a := seedVariant(t, db, 999, 50)
	b := seedVariant(t, db, 499, 50)

	_, err := store.AddLine(context.Background(), user, a.ID, 3)
	require.NoError(t, err)
	_, err = store.AddLine(context.Background(), user, b.ID, 2)
	require.NoError(t, err)
	_, err = store.AddLine(context.Background(), guest, a.ID, 4)
	require.NoError(t, err)

	require.NoError(t, store.Merge(context.Background(), guest, user))

	cart, err := store.GetOrCreate(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)

	byVariant := map[uint]int{}
	for _, l := range cart.Lines {
		byVariant[l.VariantID] = l.Quantity
	}
	// 3 + 4 clamps to the ceiling rather than failing; the untouched line rides along.
	assert.Equal(t, MaxLineQuantity, byVariant[a.ID])
	assert.Equal(t, 2, byVariant[b.ID])

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("owner_key = ?", guest.Key()).Count(&count).Error)
	assert.Equal(t, int64(0), count, "source cart must be gone after merge")
}

func TestMergeMissingSourceIsNoop(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	require.NoError(t, store.Merge(context.Background(), models.GuestOwner("never_seen"), models.UserOwner("user_1")))
}

func TestViewOmitsDeletedVariants(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	owner := models.GuestOwner("guest_abc")

	live := seedVariant(t, db, 999, 50)
	doomed := seedVariant(t, db, 499, 50)

	_, err := store.AddLine(context.Background(), owner, live.ID, 2)
	require.NoError(t, err)
	_, err = store.AddLine(context.Background(), owner, doomed.ID, 1)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.ProductVariant{}, doomed.ID).Error)

	detail, err := store.View(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, live.ID, detail.Lines[0].VariantID)
	assert.InDelta(t, 1998.0, detail.Subtotal, 0.001)
}

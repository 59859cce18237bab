package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestResolver(t *testing.T) (*Resolver, *cartstore.Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartLine{},
	))

	carts := cartstore.NewStore(db)
	return NewResolver(db, carts), carts, db
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: id, Email: id + "@example.com"}).Error)
}

func seedVariant(t *testing.T, db *gorm.DB) models.ProductVariant {
	t.Helper()
	var category models.Category
	require.NoError(t, db.FirstOrCreate(&category, models.Category{Name: "tees"}).Error)
	product := models.Product{Name: "classic tee", Description: "plain cotton tee", CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)
	variant := models.ProductVariant{ProductID: product.ID, Size: "M", Color: "black", Price: 999, Stock: 50}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func TestResolveUserWinsOverGuest(t *testing.T) {
	resolver, _, db := newTestResolver(t)
	seedUser(t, db, "user_1")

	res, err := resolver.Resolve(context.Background(), "user_1", "guest_abc")
	require.NoError(t, err)
	assert.Equal(t, "user:user_1", res.Owner.Key())
	assert.Empty(t, res.MintedGuestID)
}

func TestResolveUnknownUser(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	_, err := resolver.Resolve(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, ErrIdentity)
}

func TestResolveGuestPassthrough(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	res, err := resolver.Resolve(context.Background(), "", "guest_abc")
	require.NoError(t, err)
	assert.Equal(t, "guest:guest_abc", res.Owner.Key())
	assert.Empty(t, res.MintedGuestID)
}

func TestResolveMintsGuestWhenAnonymous(t *testing.T) {
	resolver, _, db := newTestResolver(t)

	res, err := resolver.Resolve(context.Background(), "", "")
	require.NoError(t, err)
	require.NotEmpty(t, res.MintedGuestID)
	assert.True(t, strings.HasPrefix(res.MintedGuestID, "guest_"))
	assert.Equal(t, "guest:"+res.MintedGuestID, res.Owner.Key())

	var guest models.GuestUser
	require.NoError(t, db.First(&guest, "id = ?", res.MintedGuestID).Error)
	assert.True(t, guest.ExpiresAt.After(time.Now()))
}

func TestMergeOnLogin(t *testing.T) {
	resolver, carts, db := newTestResolver(t)
	seedUser(t, db, "user_1")
	variant := seedVariant(t, db)

	guestID, err := resolver.MintGuest(context.Background())
	require.NoError(t, err)

	_, err = carts.AddLine(context.Background(), models.GuestOwner(guestID), variant.ID, 2)
	require.NoError(t, err)

	require.NoError(t, resolver.MergeOnLogin(context.Background(), guestID, "user_1"))

	cart, err := carts.GetOrCreate(context.Background(), models.UserOwner("user_1"))
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)

	var count int64
	require.NoError(t, db.Model(&models.GuestUser{}).Where("id = ?", guestID).Count(&count).Error)
	assert.Equal(t, int64(0), count, "guest identity must be retired after merge")
}

func TestMergeOnLoginWithoutGuest(t *testing.T) {
	resolver, _, _ := newTestResolver(t)
	assert.NoError(t, resolver.MergeOnLogin(context.Background(), "", "user_1"))
}

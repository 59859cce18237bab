package checkout

import (
	"context"
	"testing"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/Pushparaj13811/cladily-api/orders"
	"github.com/Pushparaj13811/cladily-api/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// declineAll rejects every authorization attempt.
type declineAll struct{}

func (declineAll) Authorize(context.Context, string, string, float64) (bool, error) {
	return false, nil
}

func newTestMachine(t *testing.T, gateway payments.Gateway) (*Machine, *cartstore.Store, *gorm.DB) {
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
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartLine{},
		&models.CheckoutSession{},
		&models.Order{},
		&models.OrderItem{},
	))

	carts := cartstore.NewStore(db)
	finalizer := orders.NewFinalizer(db, carts, orders.DefaultTaxRate)
	return NewMachine(db, carts, finalizer, gateway), carts, db
}

func seedVariant(t *testing.T, db *gorm.DB, price float64, stock int) models.ProductVariant {
	t.Helper()
	var category models.Category
	require.NoError(t, db.FirstOrCreate(&category, models.Category{Name: "tees"}).Error)
	product := models.Product{Name: "classic tee", Description: "plain cotton tee", CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)
	variant := models.ProductVariant{ProductID: product.ID, Size: "M", Color: "black", Price: price, Stock: stock}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

var testAddress = models.Address{
	Country:    "IN",
	State:      "MH",
	City:       "Mumbai",
	Street:     "12 Marine Drive",
	PostalCode: "400001",
}

func submitShipping(t *testing.T, m *Machine, owner models.CartOwner) {
	t.Helper()
	_, err := m.SubmitShipping(context.Background(), owner, ShippingInput{
		Address:               testAddress,
		BillingSameAsShipping: true,
		Method:                "express",
	})
	require.NoError(t, err)
	_, err = m.Continue(context.Background(), owner)
	require.NoError(t, err)
}

func submitPayment(t *testing.T, m *Machine, owner models.CartOwner) {
	t.Helper()
	_, err := m.SubmitPayment(context.Background(), owner, PaymentInput{
		Method:     "card",
		CardNumber: "4242 4242 4242 4242",
		CardExpiry: "12/30",
		CardCVC:    "123",
	})
	require.NoError(t, err)
	_, err = m.Continue(context.Background(), owner)
	require.NoError(t, err)
}

func TestStartRequiresNonEmptyCart(t *testing.T) {
	m, _, _ := newTestMachine(t, payments.AcceptAll{})

	_, err := m.Start(context.Background(), models.GuestOwner("guest_abc"))
	assert.ErrorIs(t, err, orders.ErrEmptyCart)
}

func TestStartResumesExistingSession(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)

	first, err := m.Start(context.Background(), owner)
	require.NoError(t, err)
	second, err := m.Start(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "restart must resume, not replace")
}

func TestPaymentBeforeShippingRejected(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)

	_, err = m.SubmitPayment(context.Background(), owner, PaymentInput{Method: "cod"})
	require.ErrorIs(t, err, ErrStepNotReached)

	session, err := m.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, models.StepShipping, session.Step, "rejected submit must not move the state")
}

func TestContinueWithoutDataRejected(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)

	_, err = m.Continue(context.Background(), owner)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContinueAtReviewIsNoop(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)
	submitShipping(t, m, owner)
	submitPayment(t, m, owner)

	session, err := m.Continue(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, models.StepReview, session.Step)
}

func TestEmptyCartAbandonsSession(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)

	require.NoError(t, carts.Clear(context.Background(), owner))

	_, err = m.Get(context.Background(), owner)
	require.ErrorIs(t, err, orders.ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.CheckoutSession{}).Where("owner_key = ?", owner.Key()).Count(&count).Error)
	assert.Equal(t, int64(0), count, "session must not survive its cart emptying")
}

func TestPlaceEndToEnd(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 2)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)
	submitShipping(t, m, owner)
	submitPayment(t, m, owner)

	order, err := m.Place(context.Background(), owner)
	require.NoError(t, err)

	assert.InDelta(t, 1998.0, order.Subtotal, 0.001)
	assert.InDelta(t, 199.0, order.ShippingCost, 0.001)
	assert.InDelta(t, 199.8, order.Tax, 0.001)
	assert.InDelta(t, 2396.8, order.TotalAmount, 0.001)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "card ending 4242", order.PaymentDescriptor)
	assert.Equal(t, testAddress, order.ShippingAddress)

	// Cart drained, session consumed, stock reduced.
	detail, err := carts.View(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, detail.Empty())

	var sessions int64
	require.NoError(t, db.Model(&models.CheckoutSession{}).Count(&sessions).Error)
	assert.Equal(t, int64(0), sessions)

	var v models.ProductVariant
	require.NoError(t, db.First(&v, variant.ID).Error)
	assert.Equal(t, 48, v.Stock)
}

func TestPlaceRequiresReview(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)
	submitShipping(t, m, owner)

	_, err = m.Place(context.Background(), owner)
	assert.ErrorIs(t, err, ErrStepNotReached)
}

func TestPlaceDeclinedPaymentKeepsSession(t *testing.T) {
	m, carts, db := newTestMachine(t, declineAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)
	submitShipping(t, m, owner)
	submitPayment(t, m, owner)

	_, err = m.Place(context.Background(), owner)
	require.ErrorIs(t, err, ErrPaymentDeclined)

	// The session stays at review so the actor can retry.
	session, err := m.Get(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, models.StepReview, session.Step)

	detail, err := carts.View(context.Background(), owner)
	require.NoError(t, err)
	assert.False(t, detail.Empty(), "declined payment must not drain the cart")
}

func TestAbandonIdempotent(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)

	require.NoError(t, m.Abandon(context.Background(), owner))
	require.NoError(t, m.Abandon(context.Background(), owner))

	_, err = m.Get(context.Background(), owner)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDescriptorNeverStoresRawCard(t *testing.T) {
	m, carts, db := newTestMachine(t, payments.AcceptAll{})
	owner := models.GuestOwner("guest_abc")
	variant := seedVariant(t, db, 999, 50)

	_, err := carts.AddLine(context.Background(), owner, variant.ID, 1)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), owner)
	require.NoError(t, err)
	submitShipping(t, m, owner)

	session, err := m.SubmitPayment(context.Background(), owner, PaymentInput{
		Method:     "card",
		CardNumber: "4242424242424242",
		CardExpiry: "12/30",
		CardCVC:    "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "card ending 4242", session.PaymentDescriptor)
	assert.NotContains(t, session.PaymentDescriptor, "4242424242424242")
}

// Package orders turns a completed checkout session plus the live cart
// into an immutable order snapshot.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSessionClosed     = errors.New("checkout session already consumed")
	ErrPersistence       = errors.New("order persistence failure")
)

// DefaultTaxRate is the flat rate applied to the subtotal.
const DefaultTaxRate = 0.10

type Finalizer struct {
	db      *gorm.DB
	carts   *cartstore.Store
	taxRate decimal.Decimal
}

func NewFinalizer(db *gorm.DB, carts *cartstore.Store, taxRate float64) *Finalizer {
	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}
	return &Finalizer{db: db, carts: carts, taxRate: decimal.NewFromFloat(taxRate)}
}

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives order totals from the live cart view. Client
// supplied numbers are never trusted; only variant prices and the chosen
// shipping method feed the sums.
func (f *Finalizer) ComputeTotals(detail cartstore.CartDetail, shippingPrice float64) Totals {
	subtotal := decimal.Zero
	for _, l := range detail.Lines {
		line := decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(line)
	}
	shipping := decimal.NewFromFloat(shippingPrice)
	tax := subtotal.Mul(f.taxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// PlaceOrder persists the snapshot and drains the cart in one
// transaction, order row first. On any failure the cart and session are
// untouched. The session row is consumed with a conditional delete so a
// double-submitted placement cannot produce two orders.
func (f *Finalizer) PlaceOrder(ctx context.Context, owner models.CartOwner, session models.CheckoutSession) (*models.Order, error) {
	detail, err := f.carts.View(ctx, owner)
	if err != nil {
		return nil, err
	}
	if detail.Empty() {
		return nil, ErrEmptyCart
	}

	totals := f.ComputeTotals(detail, session.ShippingPrice)

	var order models.Order
	err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Stock comes off first, conditionally, so overselling aborts
		// before anything else lands.
		for _, l := range detail.Lines {
			res := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND stock >= ?", l.VariantID, l.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s (%s/%s)", ErrInsufficientStock, l.ProductName, l.Size, l.Color)
			}
		}

		items := make([]models.OrderItem, 0, len(detail.Lines))
		for _, l := range detail.Lines {
			items = append(items, models.OrderItem{
				ProductID:   l.ProductID,
				VariantID:   l.VariantID,
				ProductName: l.ProductName,
				Size:        l.Size,
				Color:       l.Color,
				UnitPrice:   l.UnitPrice,
				Quantity:    l.Quantity,
			})
		}

		order = models.Order{
			OrderRef:          generateOrderRef(),
			OwnerKey:          owner.Key(),
			UserID:            owner.UserID,
			Items:             items,
			ShippingAddress:   session.ShippingAddress,
			BillingAddress:    session.BillingAddress,
			ShippingMethod:    session.ShippingMethod,
			PaymentMethod:     session.PaymentMethod,
			PaymentDescriptor: session.PaymentDescriptor,
			Subtotal:          totals.Subtotal.InexactFloat64(),
			ShippingCost:      totals.Shipping.InexactFloat64(),
			Tax:               totals.Tax.InexactFloat64(),
			TotalAmount:       totals.Total.InexactFloat64(),
			Status:            models.OrderStatusPending,
			PaymentStatus:     paymentStatusFor(session.PaymentMethod),
			CreatedAt:         time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// Only after the order row is in may the cart drain; both land
		// in the same commit, so a failed write leaves the cart intact.
		if err := tx.Where("cart_id = ?", detail.CartID).Delete(&models.CartLine{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", detail.CartID).
			UpdateColumn("updated_at", time.Now()).Error; err != nil {
			return fmt.Errorf("touch cart: %w", err)
		}

		res := tx.Where("id = ?", session.ID).Delete(&models.CheckoutSession{})
		if res.Error != nil {
			return fmt.Errorf("discard session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSessionClosed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrSessionClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &order, nil
}

// Cash on delivery stays pending; anything the gateway authorized is paid.
func paymentStatusFor(method string) models.PaymentStatus {
	if method == "cod" {
		return models.PaymentStatusPending
	}
	return models.PaymentStatusPaid
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

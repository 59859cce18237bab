// Package checkout drives one session per owner through the ordered
// steps Shipping → Payment → Review → Placed. Forward transitions are
// conditional updates keyed on the current step, so a double-submitted
// "continue" can never skip or repeat a transition.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/Pushparaj13811/cladily-api/orders"
	"github.com/Pushparaj13811/cladily-api/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoSession            = errors.New("no checkout session in progress")
	ErrValidation           = errors.New("invalid checkout input")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrStepNotReached       = errors.New("checkout step not reached")
	ErrPaymentDeclined      = errors.New("payment declined")
)

// ShippingMethods maps the selectable shipping options to their flat
// price. Prices are always looked up here, never taken from the client.
var ShippingMethods = map[string]float64{
	"standard": 49,
	"express":  199,
}

type Machine struct {
	db        *gorm.DB
	carts     *cartstore.Store
	finalizer *orders.Finalizer
	gateway   payments.Gateway
}

func NewMachine(db *gorm.DB, carts *cartstore.Store, finalizer *orders.Finalizer, gateway payments.Gateway) *Machine {
	return &Machine{db: db, carts: carts, finalizer: finalizer, gateway: gateway}
}

// Start opens the owner's session, or resumes the existing one. Checkout
// never begins on an empty cart.
func (m *Machine) Start(ctx context.Context, owner models.CartOwner) (models.CheckoutSession, error) {
	if _, err := m.guardCart(ctx, owner); err != nil {
		return models.CheckoutSession{}, err
	}

	session := models.CheckoutSession{
		ID:       uuid.NewString(),
		OwnerKey: owner.Key(),
		Step:     models.StepShipping,
	}
	if err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoNothing: true,
	}).Create(&session).Error; err != nil {
		return models.CheckoutSession{}, fmt.Errorf("start checkout: %w", err)
	}

	return m.load(ctx, owner)
}

// Get returns the open session, abandoning it first if the cart has been
// emptied underneath it.
func (m *Machine) Get(ctx context.Context, owner models.CartOwner) (models.CheckoutSession, error) {
	if _, err := m.guardCart(ctx, owner); err != nil {
		return models.CheckoutSession{}, err
	}
	return m.load(ctx, owner)
}

type ShippingInput struct {
	Address               models.Address  `json:"address"`
	BillingSameAsShipping bool            `json:"billing_same_as_shipping"`
	BillingAddress        *models.Address `json:"billing_address"`
	Method                string          `json:"method"`
}

// SubmitShipping stores the shipping step's data. Resubmitting after the
// step was passed updates the stored data without moving the state.
func (m *Machine) SubmitShipping(ctx context.Context, owner models.CartOwner, in ShippingInput) (models.CheckoutSession, error) {
	if _, err := m.guardCart(ctx, owner); err != nil {
		return models.CheckoutSession{}, err
	}
	session, err := m.load(ctx, owner)
	if err != nil {
		return models.CheckoutSession{}, err
	}

	if !in.Address.Complete() {
		return models.CheckoutSession{}, fmt.Errorf("%w: incomplete shipping address", ErrValidation)
	}
	price, ok := ShippingMethods[in.Method]
	if !ok {
		return models.CheckoutSession{}, fmt.Errorf("%w: unknown shipping method %q", ErrValidation, in.Method)
	}

	session.ShippingAddress = in.Address
	session.BillingSameAsShipping = in.BillingSameAsShipping
	if in.BillingSameAsShipping {
		session.BillingAddress = in.Address
	} else {
		if in.BillingAddress == nil || !in.BillingAddress.Complete() {
			return models.CheckoutSession{}, fmt.Errorf("%w: billing address required", ErrValidation)
		}
		session.BillingAddress = *in.BillingAddress
	}
	session.ShippingMethod = in.Method
	session.ShippingPrice = price

	if err := m.db.WithContext(ctx).Save(&session).Error; err != nil {
		return models.CheckoutSession{}, fmt.Errorf("store shipping data: %w", err)
	}
	return session, nil
}

type PaymentInput struct {
	Method     string `json:"method"` // card | upi | cod
	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
	CardCVC    string `json:"card_cvc"`
	UPIID      string `json:"upi_id"`
}

// SubmitPayment stores the payment descriptor. It is rejected while the
// session is still at the shipping step; the state does not move.
func (m *Machine) SubmitPayment(ctx context.Context, owner models.CartOwner, in PaymentInput) (models.CheckoutSession, error) {
	if _, err := m.guardCart(ctx, owner); err != nil {
		return models.CheckoutSession{}, err
	}
	session, err := m.load(ctx, owner)
	if err != nil {
		return models.CheckoutSession{}, err
	}

	if session.Step == models.StepShipping {
		return models.CheckoutSession{}, fmt.Errorf("%w: complete shipping first", ErrStepNotReached)
	}

	descriptor, err := descriptorFor(in)
	if err != nil {
		return models.CheckoutSession{}, err
	}

	session.PaymentMethod = in.Method
	session.PaymentDescriptor = descriptor
	if err := m.db.WithContext(ctx).Save(&session).Error; err != nil {
		return models.CheckoutSession{}, fmt.Errorf("store payment data: %w", err)
	}
	return session, nil
}

// descriptorFor validates the payment input against its declared type
// and reduces it to a display descriptor. Raw card data is never stored.
func descriptorFor(in PaymentInput) (string, error) {
	switch in.Method {
	case "card":
		number := strings.ReplaceAll(in.CardNumber, " ", "")
		if len(number) < 12 || in.CardExpiry == "" || in.CardCVC == "" {
			return "", fmt.Errorf("%w: card requires number, expiry and cvc", ErrInvalidPaymentMethod)
		}
		return "card ending " + number[len(number)-4:], nil
	case "upi":
		if !strings.Contains(in.UPIID, "@") {
			return "", fmt.Errorf("%w: a upi id is required", ErrInvalidPaymentMethod)
		}
		return "upi " + in.UPIID, nil
	case "cod":
		return "cash on delivery", nil
	default:
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidPaymentMethod, in.Method)
	}
}

// Continue advances out of the current step once that step's data is
// present. At review it is a no-op; placement is its own action.
func (m *Machine) Continue(ctx context.Context, owner models.CartOwner) (models.CheckoutSession, error) {
	if _, err := m.guardCart(ctx, owner); err != nil {
		return models.CheckoutSession{}, err
	}
	session, err := m.load(ctx, owner)
	if err != nil {
		return models.CheckoutSession{}, err
	}

	switch session.Step {
	case models.StepShipping:
		if !session.ShippingAddress.Complete() || session.ShippingMethod == "" {
			return models.CheckoutSession{}, fmt.Errorf("%w: shipping details required", ErrValidation)
		}
		if !session.BillingSameAsShipping && !session.BillingAddress.Complete() {
			return models.CheckoutSession{}, fmt.Errorf("%w: billing address required", ErrValidation)
		}
		err = m.advance(ctx, session.ID, models.StepShipping, models.StepPayment)
	case models.StepPayment:
		if session.PaymentMethod == "" {
			return models.CheckoutSession{}, fmt.Errorf("%w: payment method required", ErrValidation)
		}
		err = m.advance(ctx, session.ID, models.StepPayment, models.StepReview)
	case models.StepReview:
		// already at the last pre-placement step
	}
	if err != nil {
		return models.CheckoutSession{}, err
	}
	return m.load(ctx, owner)
}

// advance is the only writer of Step. The condition on the current step
// makes a concurrent duplicate submit lose cleanly: zero rows affected,
// state already where it should be.
func (m *Machine) advance(ctx context.Context, sessionID string, from, to models.CheckoutStep) error {
	res := m.db.WithContext(ctx).Model(&models.CheckoutSession{}).
		Where("id = ? AND step = ?", sessionID, from).
		Update("step", to)
	if res.Error != nil {
		return fmt.Errorf("advance checkout: %w", res.Error)
	}
	return nil
}

// Place executes Review → Placed: authorize, then hand over to the
// finalizer. On any failure the session stays at review so the actor can
// retry without re-entering shipping or payment data.
func (m *Machine) Place(ctx context.Context, owner models.CartOwner) (*models.Order, error) {
	detail, err := m.guardCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	session, err := m.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepReview {
		return nil, fmt.Errorf("%w: review step not reached", ErrStepNotReached)
	}

	totals := m.finalizer.ComputeTotals(detail, session.ShippingPrice)
	ok, err := m.gateway.Authorize(ctx, session.PaymentMethod, session.PaymentDescriptor, totals.Total.InexactFloat64())
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}
	if !ok {
		return nil, ErrPaymentDeclined
	}

	return m.finalizer.PlaceOrder(ctx, owner, session)
}

// Abandon discards the session. Discarding a session that does not exist
// succeeds quietly.
func (m *Machine) Abandon(ctx context.Context, owner models.CartOwner) error {
	if err := m.db.WithContext(ctx).
		Where("owner_key = ?", owner.Key()).
		Delete(&models.CheckoutSession{}).Error; err != nil {
		return fmt.Errorf("abandon checkout: %w", err)
	}
	return nil
}

func (m *Machine) load(ctx context.Context, owner models.CartOwner) (models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := m.db.WithContext(ctx).Where("owner_key = ?", owner.Key()).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CheckoutSession{}, ErrNoSession
	}
	if err != nil {
		return models.CheckoutSession{}, fmt.Errorf("load checkout session: %w", err)
	}
	return session, nil
}

// guardCart enforces the empty-cart rule: a session cannot survive its
// cart emptying. The open session, if any, is discarded before the error
// surfaces.
func (m *Machine) guardCart(ctx context.Context, owner models.CartOwner) (cartstore.CartDetail, error) {
	detail, err := m.carts.View(ctx, owner)
	if err != nil {
		return cartstore.CartDetail{}, err
	}
	if detail.Empty() {
		if err := m.Abandon(ctx, owner); err != nil {
			return cartstore.CartDetail{}, err
		}
		return cartstore.CartDetail{}, orders.ErrEmptyCart
	}
	return detail, nil
}

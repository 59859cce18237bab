package models

import "time"

type CheckoutStep string

const (
	StepShipping CheckoutStep = "shipping"
	StepPayment  CheckoutStep = "payment"
	StepReview   CheckoutStep = "review"
)

// CheckoutSession tracks one in-flight checkout attempt per owner. The
// Step column is only ever advanced through a conditional update, so a
// double-submitted "continue" cannot skip a step.
type CheckoutSession struct {
	ID       string       `gorm:"primaryKey;size:36"`
	OwnerKey string       `gorm:"uniqueIndex;size:128;not null"`
	Step     CheckoutStep `gorm:"type:VARCHAR(20);not null;default:'shipping'"`

	ShippingAddress       Address `gorm:"embedded;embeddedPrefix:ship_"`
	BillingAddress        Address `gorm:"embedded;embeddedPrefix:bill_"`
	BillingSameAsShipping bool

	ShippingMethod string
	ShippingPrice  float64

	PaymentMethod     string // card | upi | cod
	PaymentDescriptor string // display form only, e.g. "card ending 4242"

	CreatedAt time.Time
	UpdatedAt time.Time
}

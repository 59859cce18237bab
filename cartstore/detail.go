package cartstore

import (
	"context"
	"fmt"

	"github.com/Pushparaj13811/cladily-api/models"
)

// LineDetail joins a cart line with its variant's current display data.
type LineDetail struct {
	VariantID   uint    `json:"variant_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type CartDetail struct {
	CartID   uint         `json:"cart_id"`
	OwnerKey string       `json:"owner_key"`
	Lines    []LineDetail `json:"lines"`
	Subtotal float64      `json:"subtotal"`
}

func (d CartDetail) Empty() bool {
	return len(d.Lines) == 0
}

// View returns the cart joined with live variant data. Lines whose
// variant has since been deleted are omitted rather than erroring; the
// stale rows stay behind for lazy cleanup.
func (s *Store) View(ctx context.Context, owner models.CartOwner) (CartDetail, error) {
	db := s.db.WithContext(ctx)
	cart, err := getOrCreate(db, owner)
	if err != nil {
		return CartDetail{}, err
	}

	var lines []LineDetail
	err = db.Table("cart_lines").
		Select(`cart_lines.variant_id, cart_lines.quantity,
			product_variants.product_id, product_variants.size, product_variants.color,
			product_variants.price AS unit_price, products.name AS product_name`).
		Joins("JOIN product_variants ON product_variants.id = cart_lines.variant_id AND product_variants.deleted_at IS NULL").
		Joins("JOIN products ON products.id = product_variants.product_id AND products.deleted_at IS NULL").
		Where("cart_lines.cart_id = ?", cart.ID).
		Order("cart_lines.added_at").
		Scan(&lines).Error
	if err != nil {
		return CartDetail{}, fmt.Errorf("view cart: %w", err)
	}

	detail := CartDetail{CartID: cart.ID, OwnerKey: cart.OwnerKey, Lines: lines}
	for i := range detail.Lines {
		detail.Lines[i].LineTotal = detail.Lines[i].UnitPrice * float64(detail.Lines[i].Quantity)
		detail.Subtotal += detail.Lines[i].LineTotal
	}
	return detail, nil
}

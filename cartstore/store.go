// Package cartstore owns every cart mutation. All invariant checks run
// inside single conditional SQL statements so that concurrent requests
// for the same owner are serialized by the database, not by the process.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pushparaj13811/cladily-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxLineQuantity is the per-line ceiling. Adds and sets that would push a
// line past it are rejected; merges clamp to it instead.
const MaxLineQuantity = 5

var (
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrQuantityLimitExceeded = fmt.Errorf("quantity limit of %d per item exceeded", MaxLineQuantity)
	ErrVariantNotFound       = errors.New("product variant not found")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetOrCreate returns the owner's cart, creating it on first access.
// The insert races through ON CONFLICT DO NOTHING on the owner key, so N
// concurrent calls still yield exactly one cart row.
func (s *Store) GetOrCreate(ctx context.Context, owner models.CartOwner) (models.Cart, error) {
	return getOrCreate(s.db.WithContext(ctx), owner)
}

func getOrCreate(db *gorm.DB, owner models.CartOwner) (models.Cart, error) {
	cart := models.Cart{OwnerKey: owner.Key()}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return models.Cart{}, fmt.Errorf("create cart: %w", err)
	}

	// The insert may have hit the existing row; read back the canonical one.
	var out models.Cart
	if err := db.Preload("Lines").Where("owner_key = ?", owner.Key()).First(&out).Error; err != nil {
		return models.Cart{}, fmt.Errorf("fetch cart: %w", err)
	}
	return out, nil
}

// AddLine adds quantity to the owner's line for variantID, creating the
// line if absent. The ceiling check is evaluated against the post-add
// value atomically with the write: when the sum would exceed the limit
// nothing changes and ErrQuantityLimitExceeded is returned.
func (s *Store) AddLine(ctx context.Context, owner models.CartOwner, variantID uint, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return models.Cart{}, ErrQuantityLimitExceeded
	}

	db := s.db.WithContext(ctx)
	if err := variantExists(db, variantID); err != nil {
		return models.Cart{}, err
	}

	cart, err := getOrCreate(db, owner)
	if err != nil {
		return models.Cart{}, err
	}

	line := models.CartLine{
		CartID:    cart.ID,
		VariantID: variantID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	res := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Set{{
			Column: clause.Column{Name: "quantity"},
			Value:  gorm.Expr("cart_lines.quantity + excluded.quantity"),
		}},
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("cart_lines.quantity + excluded.quantity <= ?", MaxLineQuantity),
		}},
	}).Create(&line)
	if res.Error != nil {
		return models.Cart{}, fmt.Errorf("add cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Cart{}, ErrQuantityLimitExceeded
	}

	return s.reload(db, cart.ID)
}

// SetLineQuantity sets the line to an absolute quantity. Zero or negative
// removes the line; above the ceiling fails without touching the cart.
func (s *Store) SetLineQuantity(ctx context.Context, owner models.CartOwner, variantID uint, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, owner, variantID)
	}
	if quantity > MaxLineQuantity {
		return models.Cart{}, ErrQuantityLimitExceeded
	}

	db := s.db.WithContext(ctx)
	if err := variantExists(db, variantID); err != nil {
		return models.Cart{}, err
	}

	cart, err := getOrCreate(db, owner)
	if err != nil {
		return models.Cart{}, err
	}

	line := models.CartLine{
		CartID:    cart.ID,
		VariantID: variantID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Set{{
			Column: clause.Column{Name: "quantity"},
			Value:  gorm.Expr("excluded.quantity"),
		}},
	}).Create(&line).Error; err != nil {
		return models.Cart{}, fmt.Errorf("set cart line: %w", err)
	}

	return s.reload(db, cart.ID)
}

// RemoveLine deletes the line for variantID. Removing a line that does
// not exist is a no-op success.
func (s *Store) RemoveLine(ctx context.Context, owner models.CartOwner, variantID uint) (models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := getOrCreate(db, owner)
	if err != nil {
		return models.Cart{}, err
	}

	if err := db.Where("cart_id = ? AND variant_id = ?", cart.ID, variantID).
		Delete(&models.CartLine{}).Error; err != nil {
		return models.Cart{}, fmt.Errorf("remove cart line: %w", err)
	}

	return s.reload(db, cart.ID)
}

// Clear removes every line. The cart row itself survives empty.
func (s *Store) Clear(ctx context.Context, owner models.CartOwner) error {
	db := s.db.WithContext(ctx)
	cart, err := getOrCreate(db, owner)
	if err != nil {
		return err
	}
	return clearCart(db, cart.ID)
}

func clearCart(db *gorm.DB, cartID uint) error {
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return touch(db, cartID)
}

// Merge moves every line of from's cart into to's cart, summing colliding
// quantities and clamping them at the ceiling. It runs in one transaction:
// either all lines migrate and the source cart is gone, or nothing changed.
func (s *Store) Merge(ctx context.Context, from, to models.CartOwner) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.Cart
		err := tx.Preload("Lines").Where("owner_key = ?", from.Key()).First(&src).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to merge
		}
		if err != nil {
			return fmt.Errorf("fetch source cart: %w", err)
		}

		dst, err := getOrCreate(tx, to)
		if err != nil {
			return err
		}

		for _, l := range src.Lines {
			qty := l.Quantity
			if qty > MaxLineQuantity {
				qty = MaxLineQuantity
			}
			line := models.CartLine{
				CartID:    dst.ID,
				VariantID: l.VariantID,
				Quantity:  qty,
				AddedAt:   l.AddedAt,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
				DoUpdates: clause.Set{{
					Column: clause.Column{Name: "quantity"},
					Value: gorm.Expr(
						"CASE WHEN cart_lines.quantity + excluded.quantity > ? THEN ? ELSE cart_lines.quantity + excluded.quantity END",
						MaxLineQuantity, MaxLineQuantity,
					),
				}},
			}).Create(&line).Error; err != nil {
				return fmt.Errorf("merge cart line: %w", err)
			}
		}

		if err := tx.Where("cart_id = ?", src.ID).Delete(&models.CartLine{}).Error; err != nil {
			return fmt.Errorf("drain source cart: %w", err)
		}
		if err := tx.Delete(&models.Cart{}, src.ID).Error; err != nil {
			return fmt.Errorf("delete source cart: %w", err)
		}
		return touch(tx, dst.ID)
	})
}

func variantExists(db *gorm.DB, variantID uint) error {
	var v models.ProductVariant
	if err := db.First(&v, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("validate variant: %w", err)
	}
	return nil
}

func touch(db *gorm.DB, cartID uint) error {
	return db.Model(&models.Cart{}).Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now()).Error
}

func (s *Store) reload(db *gorm.DB, cartID uint) (models.Cart, error) {
	if err := touch(db, cartID); err != nil {
		return models.Cart{}, err
	}
	var cart models.Cart
	if err := db.Preload("Lines").First(&cart, cartID).Error; err != nil {
		return models.Cart{}, fmt.Errorf("reload cart: %w", err)
	}
	return cart, nil
}

// Package identity resolves a request's credentials to the single cart
// owner key the rest of the engine works with, and owns the guest→user
// merge policy applied at login.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/models"
	"gorm.io/gorm"
)

// ErrIdentity is returned when an authenticated context is present but
// its user id does not resolve. A missing guest token is never an error;
// a fresh guest is minted instead.
var ErrIdentity = errors.New("authenticated user not resolvable")

// GuestCookie is the durable client-side cookie carrying the guest id.
const GuestCookie = "cladily_guest"

// GuestTTL bounds how long a minted guest identity stays valid.
const GuestTTL = 30 * 24 * time.Hour

type Resolver struct {
	db    *gorm.DB
	carts *cartstore.Store
}

func NewResolver(db *gorm.DB, carts *cartstore.Store) *Resolver {
	return &Resolver{db: db, carts: carts}
}

// Resolution is the resolver's full output. MintedGuestID is set when no
// identity was presented and a new guest was created; the HTTP layer must
// persist it to the client (Set-Cookie) before the response goes out.
type Resolution struct {
	Owner         models.CartOwner
	MintedGuestID string
}

// Resolve picks the canonical owner. An authenticated user id wins over a
// guest token when both are present.
func (r *Resolver) Resolve(ctx context.Context, userID, guestID string) (Resolution, error) {
	if userID != "" {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Resolution{}, fmt.Errorf("%w: %s", ErrIdentity, userID)
			}
			return Resolution{}, fmt.Errorf("resolve user: %w", err)
		}
		return Resolution{Owner: models.UserOwner(user.ID)}, nil
	}

	if guestID != "" {
		return Resolution{Owner: models.GuestOwner(guestID)}, nil
	}

	minted, err := r.MintGuest(ctx)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Owner: models.GuestOwner(minted), MintedGuestID: minted}, nil
}

// MintGuest creates a durable guest identity.
func (r *Resolver) MintGuest(ctx context.Context) (string, error) {
	guestID := "guest_" + generateRandomString(16)

	guest := models.GuestUser{
		ID:        guestID,
		ExpiresAt: time.Now().Add(GuestTTL),
	}
	if err := r.db.WithContext(ctx).Create(&guest).Error; err != nil {
		return "", fmt.Errorf("create guest: %w", err)
	}
	return guestID, nil
}

// MergeOnLogin migrates the guest's cart into the user's cart and retires
// the guest identity. Colliding variants sum and clamp at the line
// ceiling; the migration is all-or-nothing.
func (r *Resolver) MergeOnLogin(ctx context.Context, guestID, userID string) error {
	if guestID == "" {
		return nil
	}
	if err := r.carts.Merge(ctx, models.GuestOwner(guestID), models.UserOwner(userID)); err != nil {
		return fmt.Errorf("merge guest cart: %w", err)
	}
	// The guest row may already be expired and gone; that is fine.
	if err := r.db.WithContext(ctx).Delete(&models.GuestUser{}, "id = ?", guestID).Error; err != nil {
		return fmt.Errorf("retire guest: %w", err)
	}
	return nil
}

func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}

package payments

import "context"

// Gateway authorizes a charge at placement time. The storefront treats
// it as a black box that either accepts or declines; provider specifics
// stay behind this boundary.
type Gateway interface {
	Authorize(ctx context.Context, method, descriptor string, amount float64) (bool, error)
}

// AcceptAll approves every charge. Cash-on-delivery deployments and
// tests run on this; a real provider implements Gateway the same way.
type AcceptAll struct{}

func (AcceptAll) Authorize(context.Context, string, string, float64) (bool, error) {
	return true, nil
}

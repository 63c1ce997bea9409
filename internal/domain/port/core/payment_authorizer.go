package core

import "context"

// PaymentAuthorizer abstracts the external payment processor. The core only
// needs a "payment succeeded" signal; a real gateway integration would live
// behind this port.
type PaymentAuthorizer interface {
	// AuthorizeTopUp confirms that funds for a top-up were collected externally.
	// Implementations must honor ctx cancellation and deadlines.
	AuthorizeTopUp(ctx context.Context, userID string, amount int64) error

	// AuthorizePurchase confirms that an internal purchase may be captured.
	AuthorizePurchase(ctx context.Context, userID string, amount int64) error
}

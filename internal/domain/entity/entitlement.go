package entity

import "time"

// Entitlement sources
const (
	EntitlementSourceSeed  = "seed"
	EntitlementSourceAdmin = "admin"
)

// Entitlement is a persistent grant letting a user access a priced resource
// without further payment. Entitlements are created as a side effect of a paid
// purchase, or administratively (demo seed data), and are idempotent: granting
// the same resource twice leaves the set unchanged.
type Entitlement struct {
	UserID       string
	ResourceKind ResourceKind
	ResourceID   string
	GrantedAt    time.Time
	Source       string // ID of the granting purchase, or "seed"/"admin"
}

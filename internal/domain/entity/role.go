package entity

// Role identifies the caller's role as supplied by the session collaborator.
// The core trusts it fully; it is never persisted alongside ledger state.
type Role string

// Known roles
const (
	RoleVisitor  Role = "visitor"
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	switch r {
	case RoleVisitor, RolePatient, RoleDoctor, RoleResident, RoleAdmin:
		return true
	}
	return false
}

// BypassesRecordingPaywall reports whether the role implicitly owns all
// recordings. This is policy, not ledger state, and is evaluated before
// consulting the entitlement set.
func (r Role) BypassesRecordingPaywall() bool {
	return r == RoleDoctor || r == RoleAdmin
}

package models

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is an account record. Role checks are advisory only; the sync core
// does not enforce them.
type User struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	PasswordHash  string  `json:"passwordHash,omitempty"`
	Role          string  `json:"role"`
	Verified      bool    `json:"verified"`
	Blocked       bool    `json:"blocked"`
	WalletBalance float64 `json:"walletBalance"`
	ReferralCode  string  `json:"referralCode"`
	ReferredBy    string  `json:"referredBy,omitempty"`
}

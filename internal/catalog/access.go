package catalog

import "github.com/safar/go-marketplace/internal/models"

// Actor is the caller's identity and capability snapshot, derived once from the
// authenticated user record at request entry and passed explicitly into every
// core operation.
type Actor struct {
	ID               int64
	Role             string
	IsActive         bool
	IsVerifiedVendor bool
}

func ActorFor(u *models.User) Actor {
	return Actor{
		ID:               u.ID,
		Role:             u.Role,
		IsActive:         u.IsActive,
		IsVerifiedVendor: u.IsVerifiedVendor,
	}
}

func (a Actor) IsVendor() bool {
	return a.Role == models.RoleVendor
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanSellProducts gates the vendor endpoint family.
func (a Actor) CanSellProducts() bool {
	return a.IsVendor() && a.IsActive
}

// CanCreateProducts additionally requires admin verification.
func (a Actor) CanCreateProducts() bool {
	return a.CanSellProducts() && a.IsVerifiedVendor
}

// CanModerateProducts grants global product visibility plus approve/reject.
func (a Actor) CanModerateProducts() bool {
	return a.IsAdmin() && a.IsActive
}

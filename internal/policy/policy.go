// Package policy maps a principal to permitted actions. Admin passes every
// check; a regular user is scoped to orders they own and may not touch the
// catalog. The principal is passed explicitly, never read from globals.
package policy

import (
	"go-shop-api/internal/model"

	"github.com/google/uuid"
)

// Principal is the authenticated actor performing a request.
type Principal struct {
	ID   uuid.UUID
	Role model.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// CanViewOrder allows admins and the order's owner.
func CanViewOrder(p Principal, order *model.Order) bool {
	return p.IsAdmin() || order.UserID == p.ID
}

// CanMutateOrder allows admins only: status and address changes are
// never available to regular users, owners included.
func CanMutateOrder(p Principal, order *model.Order) bool {
	return p.IsAdmin()
}

// CanManageCatalog allows admins to create/update/delete categories and
// products.
func CanManageCatalog(p Principal) bool {
	return p.IsAdmin()
}

package services

import "produk/internal/models"

// TypeConstraintFor resolves the effective type constraint of a listing
// query. Admins get exactly what they asked for (when valid); regular
// users are always pinned to public products, and any type filter they
// supply is silently ignored rather than rejected.
func TypeConstraintFor(role models.Role, requested string) string {
	if role == models.RoleUser {
		return models.TypePublic
	}
	if requested == models.TypePublic || requested == models.TypePrivate {
		return requested
	}
	return ""
}

// CanView reports whether the role may see a single product. A user
// denied here must receive the exact same not-found outcome as a missing
// id, so private products cannot be probed for existence.
func CanView(role models.Role, product *models.Product) bool {
	if role == models.RoleAdmin {
		return true
	}
	return product.Type != models.TypePrivate
}

package service

import "task_tracker/internal/models"

// Authorize is the single access control gate: admins may act on any
// resource; everyone else only on resources they own. Pure function of
// (claims, owner), no hidden state.
func Authorize(claims *Claims, ownerID int) error {
	if claims == nil {
		return ErrAccessDenied
	}
	if claims.Role == models.RoleAdmin {
		return nil
	}
	if claims.UserID == ownerID {
		return nil
	}
	return ErrAccessDenied
}

// isAdmin is a convenience wrapper for list pre-filtering.
func isAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == models.RoleAdmin
}

// Package auth holds the pure authorization rules and the roster rank
// sorter. Nothing here performs I/O; handlers and services call these
// with already-resolved identities.
package auth

import "github.com/thomaslittle/usrp-backend/internal/domain"

// roleRank orders roles from least to most privileged
var roleRank = map[string]int{
	domain.RoleViewer:     0,
	domain.RoleEditor:     1,
	domain.RoleAdmin:      2,
	domain.RoleSuperAdmin: 3,
}

// HasPermission reports whether userRole meets or exceeds requiredRole.
// Unknown roles never pass.
func HasPermission(userRole, requiredRole string) bool {
	userRank, ok := roleRank[userRole]
	if !ok {
		return false
	}
	requiredRank, ok := roleRank[requiredRole]
	if !ok {
		return false
	}
	return userRank >= requiredRank
}

// CanEditContent reports whether a user may edit content belonging to
// contentDepartment. super_admin edits anywhere; admin and editor edit
// only within their own department; viewer never edits.
func CanEditContent(userRole, userDepartment, contentDepartment string) bool {
	if userRole == domain.RoleSuperAdmin {
		return true
	}
	if userRole == domain.RoleAdmin || userRole == domain.RoleEditor {
		return userDepartment == contentDepartment
	}
	return false
}

// CanPublishContent reports whether a user may publish or unpublish content.
// Publish is a strictly higher privilege than edit: editors cannot publish
// even within their own department.
func CanPublishContent(userRole, userDepartment, contentDepartment string) bool {
	if userRole == domain.RoleSuperAdmin {
		return true
	}
	if userRole == domain.RoleAdmin {
		return userDepartment == contentDepartment
	}
	return false
}

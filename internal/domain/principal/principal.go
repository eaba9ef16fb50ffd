// Package principal defines the authenticated caller of a request.
package principal

// Role is the authorization level of a principal. The set is closed: every
// role is either an ordinary tenant member or the platform superuser.
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleStaff      Role = "STAFF"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ValidRoles is the set of all valid roles.
var ValidRoles = map[Role]bool{
	RoleOwner:      true,
	RoleStaff:      true,
	RoleSuperAdmin: true,
}

// Principal is the verified identity behind a request. It is built once by
// the authentication middleware and never modified afterwards.
type Principal struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenant_id,omitempty"` // empty when the caller has no tenant affiliation
}

// HasGlobalAccess reports whether p operates across all tenants. It is the
// only place the superuser bypass is decided.
func HasGlobalAccess(p *Principal) bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// HasTenant reports whether p is affiliated with a tenant.
func (p *Principal) HasTenant() bool {
	return p.TenantID != ""
}

package rbac

// Role is the platform-wide role of a principal. It classifies the principal
// as regulator-class (UKNF) or entity-class and is the sole source of derived
// permissions. Kept distinct from OrgRole; the two must never be unified.
type Role string

// Global roles. The enumeration is closed and fixed at deployment.
const (
	RoleUKNFAdmin       Role = "uknf_admin"
	RoleUKNFEmployee    Role = "uknf_employee"
	RoleUKNFInstitution Role = "uknf_institution"
	RoleEntityAdmin     Role = "entity_admin"
	RoleEntityUser      Role = "entity_user"
)

// OrgRole is the role a principal holds within a single organization
// membership, independent of its global Role.
type OrgRole string

// Organization-scoped roles.
const (
	OrgRoleAdmin  OrgRole = "org_admin"
	OrgRoleUser   OrgRole = "org_user"
	OrgRoleViewer OrgRole = "org_viewer"
)

// Roles returns every global role in rank order.
func Roles() []Role {
	return []Role{
		RoleUKNFAdmin,
		RoleUKNFEmployee,
		RoleUKNFInstitution,
		RoleEntityAdmin,
		RoleEntityUser,
	}
}

// Valid reports whether r belongs to the closed global enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleUKNFAdmin, RoleUKNFEmployee, RoleUKNFInstitution, RoleEntityAdmin, RoleEntityUser:
		return true
	}
	return false
}

// Valid reports whether r belongs to the closed organization-role enumeration.
func (r OrgRole) Valid() bool {
	switch r {
	case OrgRoleAdmin, OrgRoleUser, OrgRoleViewer:
		return true
	}
	return false
}

// IsRegulator reports whether the role belongs to the regulator class.
// Regulator-class principals are global overseers: they may act on any
// organization regardless of membership rows.
func IsRegulator(r Role) bool {
	switch r {
	case RoleUKNFAdmin, RoleUKNFEmployee, RoleUKNFInstitution:
		return true
	}
	return false
}

// IsEntityRole reports whether the role belongs to the regulated-entity class.
// The two classifiers partition the enumeration; exactly one is true for
// every valid role.
func IsEntityRole(r Role) bool {
	return r.Valid() && !IsRegulator(r)
}

// DefaultLandingRoute returns the post-login redirect target for the role's
// class. Used once after authentication, not an ongoing invariant.
func DefaultLandingRoute(r Role) string {
	if IsRegulator(r) {
		return "/uknf/dashboard"
	}
	return "/entity/dashboard"
}

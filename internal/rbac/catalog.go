package rbac

import (
	"fmt"
	"sort"

	"github.com/trusthub/trusthub/internal/shared"
)

// Catalog is the immutable role -> permission-set table plus the role rank
// ordering. Both are validated once at construction; lookups never fail.
// Rank and permission membership are independently authoritative: two roles
// sharing a rank may still hold different permission sets.
type Catalog struct {
	permissions map[Role]map[string]struct{}
	ranks       map[Role]int
}

// catalogSeed is the deployed permission table. Changing it means
// redeploying the catalog, not migrating data.
var catalogSeed = map[Role][]string{
	RoleUKNFAdmin: {
		shared.PermReportsReview,
		shared.PermCasesHandle,
		shared.PermCasesView,
		shared.PermLibraryManage,
		shared.PermLibraryView,
		shared.PermUsersView,
		shared.PermUsersManage,
		shared.PermOrgsView,
		shared.PermOrgsManage,
	},
	RoleUKNFEmployee: {
		shared.PermReportsReview,
		shared.PermCasesHandle,
		shared.PermCasesView,
		shared.PermLibraryView,
		shared.PermUsersView,
		shared.PermOrgsView,
	},
	RoleUKNFInstitution: {
		shared.PermReportsReview,
		shared.PermCasesView,
		shared.PermLibraryManage,
		shared.PermLibraryView,
		shared.PermOrgsView,
	},
	RoleEntityAdmin: {
		shared.PermReportsSubmit,
		shared.PermCasesView,
		shared.PermLibraryView,
		shared.PermUsersView,
		shared.PermUsersManage,
		shared.PermOrgsView,
	},
	RoleEntityUser: {
		shared.PermReportsSubmit,
		shared.PermCasesView,
		shared.PermLibraryView,
	},
}

// rankSeed assigns every role a comparison rank. uknf_employee and
// uknf_institution deliberately share a rank: they satisfy each other's
// HasRole checks while keeping distinct permission sets.
var rankSeed = map[Role]int{
	RoleUKNFAdmin:       100,
	RoleUKNFEmployee:    80,
	RoleUKNFInstitution: 80,
	RoleEntityAdmin:     50,
	RoleEntityUser:      10,
}

// NewCatalog builds and validates the catalog. A role without a non-empty
// permission set or without a rank is a deployment defect and fails
// construction; callers are expected to halt startup on error.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{
		permissions: make(map[Role]map[string]struct{}, len(catalogSeed)),
		ranks:       make(map[Role]int, len(rankSeed)),
	}
	for _, role := range Roles() {
		perms, ok := catalogSeed[role]
		if !ok || len(perms) == 0 {
			return nil, fmt.Errorf("%w: role %q has no permission set", shared.ErrConfiguration, role)
		}
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		c.permissions[role] = set

		rank, ok := rankSeed[role]
		if !ok {
			return nil, fmt.Errorf("%w: role %q has no rank", shared.ErrConfiguration, role)
		}
		c.ranks[role] = rank
	}
	return c, nil
}

// PermissionsFor returns the sorted permission set derived from the role.
// Permissions are never stored per user; this derivation is the only source.
func (c *Catalog) PermissionsFor(role Role) []string {
	set, ok := c.permissions[role]
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}

// HasPermission reports whether the role's derived set contains the permission.
func (c *Catalog) HasPermission(role Role, permission string) bool {
	set, ok := c.permissions[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasRole reports whether actual ranks at least as high as required.
// Unknown roles never satisfy anything.
func (c *Catalog) HasRole(actual, required Role) bool {
	actualRank, ok := c.ranks[actual]
	if !ok {
		return false
	}
	requiredRank, ok := c.ranks[required]
	if !ok {
		return false
	}
	return actualRank >= requiredRank
}

// Rank exposes the comparison rank of a role. Returns -1 for unknown roles.
func (c *Catalog) Rank(role Role) int {
	rank, ok := c.ranks[role]
	if !ok {
		return -1
	}
	return rank
}

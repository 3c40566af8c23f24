package nav

import "github.com/trusthub/trusthub/internal/rbac"

// TabConfig describes one role-gated navigational context.
type TabConfig struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Path         string      `json:"path"`
	Icon         string      `json:"icon"`
	AllowedRoles []rbac.Role `json:"allowed_roles"`
	Closeable    bool        `json:"closeable"`
}

// tabConfigs is the declarative route -> required-roles table. Paths absent
// from the table are inaccessible for everyone: deny by default.
var tabConfigs = map[string]TabConfig{
	"/uknf/dashboard": {
		ID:           "uknf-dashboard",
		Title:        "Dashboard",
		Path:         "/uknf/dashboard",
		Icon:         "home",
		AllowedRoles: []rbac.Role{rbac.RoleUKNFAdmin, rbac.RoleUKNFEmployee, rbac.RoleUKNFInstitution},
		Closeable:    false,
	},
	"/entity/dashboard": {
		ID:           "entity-dashboard",
		Title:        "Dashboard",
		Path:         "/entity/dashboard",
		Icon:         "home",
		AllowedRoles: []rbac.Role{rbac.RoleEntityAdmin, rbac.RoleEntityUser},
		Closeable:    false,
	},
	"/reports": {
		ID:           "reports",
		Title:        "Reports",
		Path:         "/reports",
		Icon:         "file-text",
		AllowedRoles: []rbac.Role{rbac.RoleUKNFAdmin, rbac.RoleUKNFEmployee, rbac.RoleEntityAdmin, rbac.RoleEntityUser},
		Closeable:    true,
	},
	"/cases": {
		ID:           "cases",
		Title:        "Cases",
		Path:         "/cases",
		Icon:         "briefcase",
		AllowedRoles: []rbac.Role{rbac.RoleUKNFAdmin, rbac.RoleUKNFEmployee, rbac.RoleUKNFInstitution, rbac.RoleEntityAdmin, rbac.RoleEntityUser},
		Closeable:    true,
	},
	"/library": {
		ID:           "library",
		Title:        "Library",
		Path:         "/library",
		Icon:         "book",
		AllowedRoles: []rbac.Role{rbac.RoleUKNFAdmin, rbac.RoleUKNFEmployee, rbac.RoleUKNFInstitution, rbac.RoleEntityAdmin, rbac.RoleEntityUser},
		Closeable:    true,
	},
	"/admin/users": {
		ID:           "admin-users",
		Title:        "Users",
		Path:         "/admin/users",
		Icon:         "users",
		AllowedRoles: []rbac.Role{rbac.RoleUKNFAdmin, rbac.RoleEntityAdmin},
		Closeable:    true,
	},
	"/admin/organizations": {
		ID:           "admin-organizations",
		Title:        "Organizations",
		Path:         "/admin/organizations",
		Icon:         "building",
		AllowedRoles: []rbac.Role{rbac.RoleUKNFAdmin},
		Closeable:    true,
	},
}

// GetTabConfig returns the configuration for a path, or nil when the path
// is unmapped.
func GetTabConfig(path string) *TabConfig {
	cfg, ok := tabConfigs[path]
	if !ok {
		return nil
	}
	return &cfg
}

// HasAccessToPath reports whether the role may open the path. Pure lookup
// over the static table; unmapped paths are denied.
func HasAccessToPath(path string, role rbac.Role) bool {
	cfg, ok := tabConfigs[path]
	if !ok {
		return false
	}
	return roleAllowed(cfg.AllowedRoles, role)
}

func roleAllowed(allowed []rbac.Role, role rbac.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

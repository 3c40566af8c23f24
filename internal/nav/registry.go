package nav

import "github.com/trusthub/trusthub/internal/rbac"

// Tab is one open entry in a session's tab registry.
type Tab struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Path         string      `json:"path"`
	Icon         string      `json:"icon"`
	AllowedRoles []rbac.Role `json:"allowed_roles"`
	Closeable    bool        `json:"closeable"`
}

// Registry holds the open tabs of one browser session. It is explicit,
// injectable state owned by that session — no process-wide singleton.
//
// Visibility and existence are distinct: a tab whose path the current role
// cannot access is filtered out of Visible but stays registered, so it
// reappears when access conditions change. Only Close removes it.
type Registry struct {
	Role     rbac.Role `json:"role"`
	Tabs     []Tab     `json:"tabs"`
	ActiveID string    `json:"active_id"`
}

// NewRegistry creates an empty registry for the given role.
func NewRegistry(role rbac.Role) *Registry {
	return &Registry{Role: role}
}

// SetRole updates the role the registry filters against. Tabs are never
// dropped here; an inaccessible active tab merely loses active status.
func (r *Registry) SetRole(role rbac.Role) {
	r.Role = role
	if r.ActiveID != "" && !r.isVisible(r.ActiveID) {
		r.ActiveID = ""
	}
}

// Open registers a tab for the path and makes it active. Unmapped and
// inaccessible paths are a no-op. Opening an already-open path just
// re-activates it.
func (r *Registry) Open(path string) (*Tab, bool) {
	cfg := GetTabConfig(path)
	if cfg == nil || !roleAllowed(cfg.AllowedRoles, r.Role) {
		return nil, false
	}
	for i := range r.Tabs {
		if r.Tabs[i].ID == cfg.ID {
			r.ActiveID = cfg.ID
			return &r.Tabs[i], true
		}
	}
	tab := Tab{
		ID:           cfg.ID,
		Title:        cfg.Title,
		Path:         cfg.Path,
		Icon:         cfg.Icon,
		AllowedRoles: cfg.AllowedRoles,
		Closeable:    cfg.Closeable,
	}
	r.Tabs = append(r.Tabs, tab)
	r.ActiveID = tab.ID
	return &r.Tabs[len(r.Tabs)-1], true
}

// Activate marks a visible tab as active.
func (r *Registry) Activate(id string) bool {
	if !r.isVisible(id) {
		return false
	}
	r.ActiveID = id
	return true
}

// Close removes the tab from the registry. When the active tab is closed,
// the neighbor immediately before it in visible order takes over, else the
// one after, else none. Returns the path the UI should navigate to ("" when
// no tab remains active) and whether anything was closed.
func (r *Registry) Close(id string) (string, bool) {
	idx := -1
	for i := range r.Tabs {
		if r.Tabs[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", false
	}

	wasActive := r.ActiveID == id
	var neighbor string
	if wasActive {
		visible := r.Visible()
		pos := -1
		for i, t := range visible {
			if t.ID == id {
				pos = i
				break
			}
		}
		switch {
		case pos > 0:
			neighbor = visible[pos-1].ID
		case pos >= 0 && pos+1 < len(visible):
			neighbor = visible[pos+1].ID
		}
	}

	r.Tabs = append(r.Tabs[:idx], r.Tabs[idx+1:]...)
	if wasActive {
		r.ActiveID = neighbor
	}

	if r.ActiveID == "" {
		return "", true
	}
	for _, t := range r.Tabs {
		if t.ID == r.ActiveID {
			return t.Path, true
		}
	}
	return "", true
}

// Visible returns the tabs the current role may see, in opening order.
func (r *Registry) Visible() []Tab {
	visible := make([]Tab, 0, len(r.Tabs))
	for _, t := range r.Tabs {
		if roleAllowed(t.AllowedRoles, r.Role) {
			visible = append(visible, t)
		}
	}
	return visible
}

// ActiveTab returns the currently active visible tab, or nil.
func (r *Registry) ActiveTab() *Tab {
	if r.ActiveID == "" {
		return nil
	}
	for i := range r.Tabs {
		if r.Tabs[i].ID == r.ActiveID && roleAllowed(r.Tabs[i].AllowedRoles, r.Role) {
			return &r.Tabs[i]
		}
	}
	return nil
}

func (r *Registry) isVisible(id string) bool {
	for _, t := range r.Tabs {
		if t.ID == id {
			return roleAllowed(t.AllowedRoles, r.Role)
		}
	}
	return false
}

package domain

import (
	"sort"
	"time"
)

// Menu is a persisted navigation entry. Entries form a tree via ParentID.
type Menu struct {
	ID           int64
	ParentID     *int64
	Path         string
	Component    string
	Redirect     string
	Name         string
	Title        string
	Icon         string
	AlwaysShow   bool
	NoCache      bool
	Affix        bool
	Hidden       bool
	ExternalLink string
	Permission   string
	MenuOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MenuNode is a menu with its resolved children.
type MenuNode struct {
	Menu
	Children []MenuNode `json:"children,omitempty"`
}

// RouteMeta carries frontend rendering hints for a route.
type RouteMeta struct {
	Title      string   `json:"title"`
	Icon       string   `json:"icon,omitempty"`
	AlwaysShow bool     `json:"always_show,omitempty"`
	NoCache    bool     `json:"no_cache,omitempty"`
	Affix      bool     `json:"affix,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`
	Permission []string `json:"permission,omitempty"`
}

// RouteRecord mirrors the frontend router's route shape.
type RouteRecord struct {
	Path      string        `json:"path"`
	Component string        `json:"component,omitempty"`
	Redirect  string        `json:"redirect,omitempty"`
	Name      string        `json:"name"`
	Meta      RouteMeta     `json:"meta"`
	Children  []RouteRecord `json:"children,omitempty"`
}

// BuildMenuTree assembles a two-level tree from a flat menu slice,
// ordered by MenuOrder. Entries whose parent is absent from the input
// are treated as roots so a permission-filtered subset still renders.
func BuildMenuTree(menus []Menu) []MenuNode {
	byID := make(map[int64]struct{}, len(menus))
	for _, m := range menus {
		byID[m.ID] = struct{}{}
	}

	sorted := make([]Menu, len(menus))
	copy(sorted, menus)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MenuOrder < sorted[j].MenuOrder
	})

	tree := make([]MenuNode, 0, len(sorted))
	for _, m := range sorted {
		if m.ParentID != nil {
			if _, ok := byID[*m.ParentID]; ok {
				continue
			}
		}
		node := MenuNode{Menu: m}
		for _, child := range sorted {
			if child.ParentID != nil && *child.ParentID == m.ID {
				node.Children = append(node.Children, MenuNode{Menu: child})
			}
		}
		tree = append(tree, node)
	}
	return tree
}

// BuildRouteTree converts a menu tree into frontend route records.
func BuildRouteTree(nodes []MenuNode) []RouteRecord {
	routes := make([]RouteRecord, 0, len(nodes))
	for _, node := range nodes {
		routes = append(routes, routeFromNode(node))
	}
	return routes
}

func routeFromNode(node MenuNode) RouteRecord {
	route := RouteRecord{
		Path:      node.Path,
		Component: node.Component,
		Redirect:  node.Redirect,
		Name:      node.Name,
		Meta: RouteMeta{
			Title:      node.Title,
			Icon:       node.Icon,
			AlwaysShow: node.AlwaysShow,
			NoCache:    node.NoCache,
			Affix:      node.Affix,
			Hidden:     node.Hidden,
		},
	}
	if node.Permission != "" {
		route.Meta.Permission = []string{node.Permission}
	}
	for _, child := range node.Children {
		route.Children = append(route.Children, routeFromNode(child))
	}
	return route
}
